// Package advisor produces mitigation guidance for a locality or the whole
// city. The interface deliberately hides whether the text comes from a
// hosted model or from the deterministic rule set; advisor failure must
// never block analytics output.
package advisor

import (
	"context"
	"fmt"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

// Advisor generates mitigation text.
type Advisor interface {
	// Mitigations returns three short action items for one locality.
	Mitigations(ctx context.Context, rec model.LocalityRecord) ([]string, error)
	// CitySummary returns a strategic summary paragraph block for the city.
	CitySummary(ctx context.Context, sum CitySummaryContext) (string, error)
}

// CitySummaryContext is the condensed city-wide payload for the strategic
// summary, kept small to stay inside model token limits.
type CitySummaryContext struct {
	City              string
	AvgRisk           float64
	TotalPeopleAtRisk int64
	HighRiskNames     []string
}

// Static is the deterministic advisor: canned action sets chosen by the
// projected risk direction. It is both the offline provider and the
// fallback for the LLM provider.
type Static struct{}

// NewStatic creates the rule-based advisor.
func NewStatic() *Static { return &Static{} }

var _ Advisor = (*Static)(nil)

// Mitigations implements Advisor. The rule is directional: projected risk
// rising into the danger zone, falling, or flat.
func (s *Static) Mitigations(ctx context.Context, rec model.LocalityRecord) ([]string, error) {
	current := rec.RiskOrZero()
	future := 0.0
	if rec.FutureRisk3M != nil {
		future = *rec.FutureRisk3M
	}

	switch {
	case future > current && future > 60:
		return []string{
			fmt.Sprintf("URGENT: %s is projected to see a dangerous heat spike to %.1f. Mandate reflective roof coatings on all commercial buildings immediately.", rec.Locality, future),
			"Deploy emergency cooling centers and misting stations in high-footfall areas within the next 45 days.",
			"Initiate strict green-corridor planting along major concrete arteries to disrupt the anticipated heat-trapping effect.",
		}, nil
	case future < current:
		return []string{
			fmt.Sprintf("%s is showing a cooling trend. Enhance existing rainwater harvesting to maintain soil moisture.", rec.Locality),
			"Continue monitoring canopy growth. Consider minor tactical urbanism like shaded bus stops.",
			"Implement community heat-awareness programs to sustain the current positive cooling trajectory.",
		}, nil
	default:
		return []string{
			fmt.Sprintf("Risk in %s remains elevated but stable. Increase tree canopy coverage along main roads over the next quarter.", rec.Locality),
			"Incentivize residents to adopt cool roofs and vertical gardens.",
			"Map out highly vulnerable civic zones for localized shading interventions.",
		}, nil
	}
}

// CitySummary implements Advisor.
func (s *Static) CitySummary(ctx context.Context, sum CitySummaryContext) (string, error) {
	return fmt.Sprintf("Based on %s's current metrics (average heat risk %.1f/100, %d citizens exposed):\n\n"+
		"1. Macro-Policy: Enforce strict tree-canopy preservation policies across all high-risk urban sprawl zones.\n\n"+
		"2. Infrastructure: Introduce city-wide cool-roof mandates for commercial buildings to combat systemic albedo absorption, alongside misting stations in primary plazas.\n\n"+
		"3. Community: Establish interconnected green corridors linking isolated community parks to restore natural wind channels, incentivizing local citizen maintenance groups.",
		sum.City, sum.AvgRisk, sum.TotalPeopleAtRisk), nil
}

// ParseFallback is substituted when a model call succeeded but returned
// something that is not a JSON array of three strings.
func ParseFallback() []string {
	return []string{
		"Establish dedicated green corridors to disrupt heat trapping.",
		"Enforce reflective paving materials on new residential projects.",
		"Map out highly vulnerable civic zones for immediate cooling intervention.",
	}
}

// CallFallback is substituted when the model call itself failed.
func CallFallback(locality string) []string {
	return []string{
		fmt.Sprintf("Implement emergency cooling interventions such as temporary shading and misting systems in %s's densest sectors.", locality),
		"Mandate cool-roof coatings for all new commercial developments to reduce systemic albedo retention.",
		"Enhance localized green corridors to disrupt the specific heat-trapping patterns identified in the area.",
	}
}
