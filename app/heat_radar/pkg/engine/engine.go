// Package engine derives dashboard view models from an analysis snapshot.
// Everything here is a pure function of its inputs: no I/O, no mutation of
// the snapshot, so two calls with identical arguments yield identical output.
package engine

import (
	"math"
	"sort"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

// Risk bucket thresholds. A record with risk > 60 is critical.
const (
	HighRiskThreshold     = 60
	ModerateRiskThreshold = 30
)

const (
	colorHigh     = "#ef4444"
	colorModerate = "#f59e0b"
	colorLow      = "#10b981"
)

// unknownLocality is the upstream placeholder for points that could not be
// reverse-geocoded; it never counts as a critical zone.
const unknownLocality = "Unknown"

// Options control scope resolution.
type Options struct {
	// CityAliases are scope names that mean "the whole city" rather than a
	// single locality.
	CityAliases []string
	// EmptyScopeToCity keeps the historical behavior of silently falling
	// back to city-wide aggregation when a locality filter matches nothing.
	// When false, an empty filter yields an invalid (N/A) KPI set instead.
	EmptyScopeToCity bool
}

// DefaultOptions matches the historical dashboard behavior.
func DefaultOptions() Options {
	return Options{
		CityAliases:      []string{"Pune", "Pune City"},
		EmptyScopeToCity: true,
	}
}

// Derive computes the full view model for one snapshot and scope. The risk
// histogram, scatter series and critical zones always reflect the complete
// record set; only the KPI block narrows to the scoped locality.
func Derive(a *model.Analysis, scope model.Scope, opts Options) *model.ViewModel {
	vm := &model.ViewModel{
		Scope:         scopeLabel(a, scope, opts),
		TopLivable:    topLivable(a.Rankings.MostLivable),
		Trend:         trend(a.Rankings.LeastLivable),
		Scatter:       scatter(a.Records),
		RiskHistogram: histogram(a.Records),
		CriticalZones: criticalZones(a.Records),
	}
	vm.KPIs = kpis(scoped(a.Records, scope, opts))
	return vm
}

// topLivable projects the most-livable ranking in backend order, truncated
// to the first ten entries.
func topLivable(entries []model.RankingEntry) []model.LivablePoint {
	points := make([]model.LivablePoint, 0, len(entries))
	for _, e := range entries {
		name := e.Locality
		if name == "" {
			name = unknownLocality
		}
		points = append(points, model.LivablePoint{
			Name:  name,
			Index: roundOrZero(e.LivabilityIndex),
			Risk:  roundOrZero(e.Risk),
		})
	}
	if len(points) > 10 {
		points = points[:10]
	}
	return points
}

// trend projects the first ten least-livable entries. The axis label is the
// locality name truncated to ten characters; the second series inverts the
// livability index against a 100-point baseline.
func trend(entries []model.RankingEntry) []model.TrendPoint {
	if len(entries) > 10 {
		entries = entries[:10]
	}
	points := make([]model.TrendPoint, 0, len(entries))
	for _, e := range entries {
		label := unknownLocality
		if e.Locality != "" {
			label = truncate(e.Locality, 10)
		}
		average := 0
		if e.LivabilityIndex != nil && *e.LivabilityIndex != 0 {
			average = int(math.Round(100 - *e.LivabilityIndex))
		}
		temp := 0
		if e.Risk != nil && *e.Risk != 0 {
			temp = int(math.Round(*e.Risk))
		}
		points = append(points, model.TrendPoint{Time: label, Temp: temp, Average: average})
	}
	return points
}

func scatter(records []model.LocalityRecord) []model.ScatterPoint {
	points := make([]model.ScatterPoint, 0, len(records))
	for i := range records {
		r := &records[i]
		risk := 0
		if r.Risk != nil && *r.Risk != 0 {
			risk = int(math.Round(*r.Risk))
		}
		green := 0.0
		if r.GreenDeficit != nil {
			green = *r.GreenDeficit
		}
		area := r.Locality
		if area == "" {
			area = unknownLocality
		}
		points = append(points, model.ScatterPoint{
			Risk:  risk,
			Green: green,
			Area:  area,
			Color: bucketColor(float64(risk)),
		})
	}
	return points
}

// histogram buckets every record by risk, with a missing score counting as
// zero and therefore landing in the Low bucket. Bucket counts always sum to
// the record count.
func histogram(records []model.LocalityRecord) []model.RiskBucket {
	var high, moderate, low int
	for i := range records {
		switch r := records[i].RiskOrZero(); {
		case r > HighRiskThreshold:
			high++
		case r >= ModerateRiskThreshold:
			moderate++
		default:
			low++
		}
	}
	return []model.RiskBucket{
		{Name: "High Risk (>60)", Count: high, Color: colorHigh},
		{Name: "Moderate Risk (30-60)", Count: moderate, Color: colorModerate},
		{Name: "Low Risk (<30)", Count: low, Color: colorLow},
	}
}

// criticalZones lists the distinct named localities whose current risk
// exceeds the high threshold, sorted for deterministic output.
func criticalZones(records []model.LocalityRecord) []string {
	seen := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		if r.RiskOrZero() <= HighRiskThreshold {
			continue
		}
		if r.Locality == "" || r.Locality == unknownLocality {
			continue
		}
		seen[r.Locality] = struct{}{}
	}
	zones := make([]string, 0, len(seen))
	for name := range seen {
		zones = append(zones, name)
	}
	sort.Strings(zones)
	return zones
}

// scoped resolves the record subset a KPI computation runs over.
func scoped(records []model.LocalityRecord, scope model.Scope, opts Options) []model.LocalityRecord {
	if scope.CityWide() || isCityAlias(scope.Locality, opts.CityAliases) {
		return records
	}
	var filtered []model.LocalityRecord
	for i := range records {
		if records[i].Locality == scope.Locality {
			filtered = append(filtered, records[i])
		}
	}
	if len(filtered) == 0 && opts.EmptyScopeToCity {
		return records
	}
	return filtered
}

// kpis averages over the scoped set, with missing values contributing zero
// to the numerator while still counting in the denominator. The temperature
// figure is a fixed display heuristic, not a physical model.
func kpis(records []model.LocalityRecord) model.KPISet {
	if len(records) == 0 {
		return model.KPISet{}
	}
	var riskSum, greenSum, resilienceSum float64
	var people int64
	for i := range records {
		r := &records[i]
		riskSum += r.RiskOrZero()
		if r.GreenDeficit != nil {
			greenSum += *r.GreenDeficit
		}
		if r.ResilienceScore != nil {
			resilienceSum += *r.ResilienceScore
		}
		people += r.PeopleAtRisk
	}
	n := float64(len(records))
	avgRisk := riskSum / n
	return model.KPISet{
		Valid:             true,
		AvgRisk:           avgRisk,
		AvgGreenDeficit:   greenSum / n,
		AvgResilience:     resilienceSum / n,
		EstimatedTemp:     avgRisk*0.15 + 28,
		TotalPeopleAtRisk: people,
	}
}

func scopeLabel(a *model.Analysis, scope model.Scope, opts Options) string {
	if scope.CityWide() || isCityAlias(scope.Locality, opts.CityAliases) {
		if a.City != "" {
			return a.City
		}
		return "citywide"
	}
	return scope.Locality
}

func isCityAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

func bucketColor(risk float64) string {
	switch {
	case risk > HighRiskThreshold:
		return colorHigh
	case risk < ModerateRiskThreshold:
		return colorLow
	default:
		return colorModerate
	}
}

func roundOrZero(v *float64) int {
	if v == nil {
		return 0
	}
	return int(math.Round(*v))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
