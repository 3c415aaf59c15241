package engine

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

func twoLocalitySnapshot() *model.Analysis {
	return &model.Analysis{
		City: "Pune",
		Records: []model.LocalityRecord{
			{Locality: "A", Risk: model.Float(70), PeopleAtRisk: 100},
			{Locality: "B", Risk: model.Float(20), PeopleAtRisk: 50},
		},
	}
}

func TestDeriveCityWide(t *testing.T) {
	vm := Derive(twoLocalitySnapshot(), model.Scope{}, DefaultOptions())

	require.Len(t, vm.RiskHistogram, 3)
	assert.Equal(t, 1, vm.RiskHistogram[0].Count, "high bucket")
	assert.Equal(t, 0, vm.RiskHistogram[1].Count, "moderate bucket")
	assert.Equal(t, 1, vm.RiskHistogram[2].Count, "low bucket")

	assert.Equal(t, []string{"A"}, vm.CriticalZones)
	assert.Equal(t, int64(150), vm.KPIs.TotalPeopleAtRisk)
	assert.InDelta(t, 45, vm.KPIs.AvgRisk, 1e-9)
	assert.True(t, vm.KPIs.Valid)
}

func TestDeriveLocalityScope(t *testing.T) {
	vm := Derive(twoLocalitySnapshot(), model.Scope{Locality: "B"}, DefaultOptions())

	assert.InDelta(t, 20, vm.KPIs.AvgRisk, 1e-9)
	assert.Equal(t, int64(50), vm.KPIs.TotalPeopleAtRisk)

	// Contextual charts stay city-wide regardless of the KPI scope.
	assert.Equal(t, 1, vm.RiskHistogram[0].Count)
	assert.Len(t, vm.Scatter, 2)
}

func TestDeriveUnmatchedScopeFallsBackToCity(t *testing.T) {
	vm := Derive(twoLocalitySnapshot(), model.Scope{Locality: "C"}, DefaultOptions())
	assert.InDelta(t, 45, vm.KPIs.AvgRisk, 1e-9)
	assert.True(t, vm.KPIs.Valid)
}

func TestDeriveUnmatchedScopeStrictPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.EmptyScopeToCity = false
	vm := Derive(twoLocalitySnapshot(), model.Scope{Locality: "C"}, opts)
	assert.False(t, vm.KPIs.Valid)
}

func TestDeriveCityAliasMeansCityWide(t *testing.T) {
	vm := Derive(twoLocalitySnapshot(), model.Scope{Locality: "Pune City"}, DefaultOptions())
	assert.InDelta(t, 45, vm.KPIs.AvgRisk, 1e-9)
}

func TestDeriveEmptySnapshot(t *testing.T) {
	vm := Derive(&model.Analysis{City: "Pune"}, model.Scope{}, DefaultOptions())
	assert.False(t, vm.KPIs.Valid)
	assert.Empty(t, vm.CriticalZones)
	assert.Empty(t, vm.Scatter)
}

func TestHistogramCountsSumToRecordCount(t *testing.T) {
	records := []model.LocalityRecord{
		{Locality: "A", Risk: model.Float(95)},
		{Locality: "B", Risk: model.Float(60)},
		{Locality: "C", Risk: model.Float(30)},
		{Locality: "D", Risk: model.Float(29.9)},
		{Locality: "E"}, // missing risk defaults to 0 and lands in Low
	}
	buckets := histogram(records)
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, len(records), total)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 2, buckets[1].Count, "60 and 30 are both Moderate")
	assert.Equal(t, 2, buckets[2].Count)
}

func TestCriticalZonesDeduplicatedAndNamed(t *testing.T) {
	records := []model.LocalityRecord{
		{Locality: "Hadapsar", Risk: model.Float(80)},
		{Locality: "Hadapsar", Risk: model.Float(75)},
		{Locality: "Unknown", Risk: model.Float(99)},
		{Locality: "", Risk: model.Float(99)},
		{Locality: "Aundh", Risk: model.Float(61)},
		{Locality: "Warje", Risk: model.Float(60)}, // exactly at threshold is not critical
	}
	assert.Equal(t, []string{"Aundh", "Hadapsar"}, criticalZones(records))
}

func TestKPIsUniformRiskIsExact(t *testing.T) {
	r := 37.25
	var records []model.LocalityRecord
	for i := 0; i < 7; i++ {
		records = append(records, model.LocalityRecord{Locality: "X", Risk: model.Float(r)})
	}
	got := kpis(records)
	assert.InDelta(t, r, got.AvgRisk, 1e-9)
	assert.InDelta(t, r*0.15+28, got.EstimatedTemp, 1e-9)
}

func TestKPIsMissingValuesDiluteAverage(t *testing.T) {
	records := []model.LocalityRecord{
		{Locality: "A", Risk: model.Float(80), ResilienceScore: model.Float(40)},
		{Locality: "B"}, // no numeric fields at all
	}
	got := kpis(records)
	// Missing samples contribute 0 to the numerator but still count in the
	// denominator.
	assert.InDelta(t, 40, got.AvgRisk, 1e-9)
	assert.InDelta(t, 20, got.AvgResilience, 1e-9)
}

func TestTopLivablePreservesBackendOrder(t *testing.T) {
	var entries []model.RankingEntry
	names := []string{"K", "C", "Z", "A", "M", "Q", "B", "Y", "D", "X", "L", "W"}
	for i, n := range names {
		entries = append(entries, model.RankingEntry{
			Locality:        n,
			LivabilityIndex: model.Float(float64(90 - i)),
			Risk:            model.Float(10.6),
		})
	}
	points := topLivable(entries)
	require.Len(t, points, 10)
	for i, p := range points {
		assert.Equal(t, names[i], p.Name)
	}
	assert.Equal(t, 11, points[0].Risk, "risk is rounded per entry")
}

func TestTrendSeries(t *testing.T) {
	entries := []model.RankingEntry{
		{Locality: "Pimpri-Chinchwad", Risk: model.Float(72.4), LivabilityIndex: model.Float(21.6)},
		{Locality: "", Risk: nil, LivabilityIndex: nil},
	}
	points := trend(entries)
	require.Len(t, points, 2)
	assert.Equal(t, "Pimpri-Chi", points[0].Time, "label truncated to ten characters")
	assert.Equal(t, 72, points[0].Temp)
	assert.Equal(t, 78, points[0].Average)
	assert.Equal(t, model.TrendPoint{Time: "Unknown"}, points[1])
}

func TestScatterDefaultsAndColors(t *testing.T) {
	records := []model.LocalityRecord{
		{Locality: "A", Risk: model.Float(70.2), GreenDeficit: model.Float(-3)},
		{Locality: "", Risk: nil},
		{Locality: "C", Risk: model.Float(45)},
	}
	points := scatter(records)
	require.Len(t, points, 3)
	assert.Equal(t, model.ScatterPoint{Risk: 70, Green: -3, Area: "A", Color: "#ef4444"}, points[0])
	assert.Equal(t, model.ScatterPoint{Risk: 0, Green: 0, Area: "Unknown", Color: "#10b981"}, points[1])
	assert.Equal(t, "#f59e0b", points[2].Color)
}

func TestDeriveIsIdempotent(t *testing.T) {
	a := twoLocalitySnapshot()
	a.Rankings = model.Rankings{
		MostLivable:  []model.RankingEntry{{Locality: "B", LivabilityIndex: model.Float(88.2)}},
		LeastLivable: []model.RankingEntry{{Locality: "A", LivabilityIndex: model.Float(12.7), Risk: model.Float(70)}},
	}
	first := Derive(a, model.Scope{Locality: "A"}, DefaultOptions())
	second := Derive(a, model.Scope{Locality: "A"}, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derive is not deterministic: %+v vs %+v", first, second)
	}
}
