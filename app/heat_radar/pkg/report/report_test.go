package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/engine"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		City: "Pune",
		Records: []model.LocalityRecord{
			{Locality: "Kothrud", Risk: model.Float(28), GreenDeficit: model.Float(12), ResilienceScore: model.Float(80), PeopleAtRisk: 400},
			{Locality: "Hadapsar", Risk: model.Float(82), FutureRisk3M: model.Float(88), GreenDeficit: model.Float(55), PeopleAtRisk: 2600, EarlyWarning: true, TopDrivers: []string{"asphalt density", "low canopy"}},
			{Locality: "Hadapsar", Risk: model.Float(82)},
			{Locality: "Unknown"},
			{Locality: ""},
		},
		Rankings: model.Rankings{
			MostLivable: []model.RankingEntry{
				{Locality: "Kothrud", LivabilityIndex: model.Float(86.124), Risk: model.Float(28)},
			},
			LeastLivable: []model.RankingEntry{
				{Locality: "Hadapsar", LivabilityIndex: model.Float(21.5), Risk: model.Float(82)},
			},
		},
	}
}

func TestAvailableLocalities(t *testing.T) {
	names := AvailableLocalities(sampleAnalysis().Records)
	assert.Equal(t, []string{"Hadapsar", "Kothrud"}, names, "deduped, sorted, unnamed points excluded")
}

func TestWriteTextCityOnly(t *testing.T) {
	a := sampleAnalysis()
	vm := engine.Derive(a, model.Scope{}, engine.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, a, vm, nil, nil))
	out := buf.String()

	assert.Contains(t, out, "SMART HEAT RISK REPORT")
	assert.Contains(t, out, "1. Hadapsar")
	assert.Contains(t, out, "2. Kothrud")
	assert.Contains(t, out, "TOP 10 MOST LIVABLE LOCALITIES IN PUNE:")
	assert.Contains(t, out, "1. Kothrud (Livability Index: 86.12)")
	assert.Contains(t, out, "TOP 10 LEAST LIVABLE LOCALITIES IN PUNE:")
	assert.NotContains(t, out, "SMART CITY REPORT", "no detail block without a detail record")
}

func TestWriteTextWithDetail(t *testing.T) {
	a := sampleAnalysis()
	vm := engine.Derive(a, model.Scope{}, engine.DefaultOptions())
	detail := &a.Records[1]

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, a, vm, detail, []string{"Plant shade trees.", "Cool roofs.", "Misting stations."}))
	out := buf.String()

	assert.Contains(t, out, "Location Point: Hadapsar")
	assert.Contains(t, out, "Heat Risk Score: 82.00 /100")
	assert.Contains(t, out, "People at Risk (est): 2,600")
	assert.Contains(t, out, "EARLY WARNING: High Risk Trend Detected!")
	assert.Contains(t, out, "- asphalt density")
	assert.Contains(t, out, "- Plant shade trees.")
	assert.Contains(t, out, "Urban Resilience Score: --", "missing resilience renders the placeholder")
}

func TestBuildCityPDF(t *testing.T) {
	a := sampleAnalysis()
	vm := engine.Derive(a, model.Scope{}, engine.DefaultOptions())

	data, err := BuildCityPDF(a, vm, nil, nil, "Allocate cooling budget to the eastern corridor first.")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output starts with the PDF magic")
	assert.Greater(t, len(data), 1000)
}

func TestBuildCityPDFWithDetail(t *testing.T) {
	a := sampleAnalysis()
	vm := engine.Derive(a, model.Scope{Locality: "Hadapsar"}, engine.DefaultOptions())
	detail := &a.Records[1]

	data, err := BuildCityPDF(a, vm, detail, []string{"Plant shade trees.", "Cool roofs.", "Misting stations."}, "Summary.")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildCityPDFPaginatesLongTable(t *testing.T) {
	a := sampleAnalysis()
	// Enough rows to force the table past the page-break line at least once.
	for i := 0; i < 120; i++ {
		a.Records = append(a.Records, model.LocalityRecord{
			Locality: "Zone-" + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Risk:     model.Float(float64(i % 100)),
		})
	}
	vm := engine.Derive(a, model.Scope{}, engine.DefaultOptions())

	data, err := BuildCityPDF(a, vm, nil, nil, "Summary.")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
