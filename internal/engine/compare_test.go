package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/vanpack/internal/constraint"
	"github.com/loadwise/vanpack/internal/model"
)

func TestBuildDefaultScenarios_Matrix(t *testing.T) {
	scenarios := BuildDefaultScenarios(DefaultSettings())
	require.Len(t, scenarios, 4)

	assert.Equal(t, model.StrategyGreedy, scenarios[0].Settings.Strategy)
	assert.Equal(t, model.StrategyMultiAnchor, scenarios[2].Settings.Strategy)
	assert.NotContains(t, scenarios[0].Settings.Constraints, constraint.MaintainCenterOfGravity)
	assert.Contains(t, scenarios[1].Settings.Constraints, constraint.MaintainCenterOfGravity)
}

func TestCompareScenarios_IndependentRuns(t *testing.T) {
	fleet := []model.BinModel{vanModel()}
	items := asymmetricBatch()

	results, err := CompareScenarios(BuildDefaultScenarios(DefaultSettings()), fleet, nil, items)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for _, r := range results {
		assert.Equal(t, 20, r.ItemsTotal)
		assert.LessOrEqual(t, r.ItemsLoaded, 20)
		assert.Equal(t, len(r.Configuration), r.BinsUsed)
	}

	// The input items were never mutated: comparisons run on clones.
	for _, it := range items {
		assert.False(t, it.Placed())
	}

	// Multi-anchor with CoG loads at least as much as greedy with CoG.
	assert.GreaterOrEqual(t, results[3].ItemsLoaded, results[1].ItemsLoaded)
}

func TestCompareScenarios_PropagatesErrors(t *testing.T) {
	bad := ComparisonScenario{Name: "bad", Settings: Settings{Strategy: "warp", Constraints: baseConstraints(), Decimals: 3}}
	_, err := CompareScenarios([]ComparisonScenario{bad}, []model.BinModel{vanModel()}, nil, asymmetricBatch())
	assert.Error(t, err)
}
