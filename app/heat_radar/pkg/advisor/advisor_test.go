package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

func TestStaticMitigationsRisingRisk(t *testing.T) {
	rec := model.LocalityRecord{
		Locality:     "Hadapsar",
		Risk:         model.Float(55),
		FutureRisk3M: model.Float(72.46),
	}
	actions, err := NewStatic().Mitigations(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.True(t, strings.HasPrefix(actions[0], "URGENT: Hadapsar"))
	assert.Contains(t, actions[0], "72.5")
}

func TestStaticMitigationsCoolingTrend(t *testing.T) {
	rec := model.LocalityRecord{
		Locality:     "Aundh",
		Risk:         model.Float(40),
		FutureRisk3M: model.Float(30),
	}
	actions, err := NewStatic().Mitigations(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Contains(t, actions[0], "cooling trend")
}

func TestStaticMitigationsFlat(t *testing.T) {
	// A rise that stays below the danger threshold reads as stable.
	rec := model.LocalityRecord{
		Locality:     "Warje",
		Risk:         model.Float(40),
		FutureRisk3M: model.Float(45),
	}
	actions, err := NewStatic().Mitigations(context.Background(), rec)
	require.NoError(t, err)
	assert.Contains(t, actions[0], "remains elevated but stable")
}

func TestStaticMitigationsMissingProjection(t *testing.T) {
	// Both scores absent: no direction can be read, so the stable set wins.
	actions, err := NewStatic().Mitigations(context.Background(), model.LocalityRecord{Locality: "Wagholi"})
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Contains(t, actions[0], "Wagholi")
}

func TestStaticCitySummary(t *testing.T) {
	text, err := NewStatic().CitySummary(context.Background(), CitySummaryContext{
		City:              "Pune",
		AvgRisk:           47.3,
		TotalPeopleAtRisk: 120500,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Pune")
	assert.Contains(t, text, "47.3")
	assert.Contains(t, text, "Macro-Policy")
}

func TestFallbackSetsHaveThreeActions(t *testing.T) {
	assert.Len(t, ParseFallback(), 3)
	actions := CallFallback("Kothrud")
	assert.Len(t, actions, 3)
	assert.Contains(t, actions[0], "Kothrud")
}
