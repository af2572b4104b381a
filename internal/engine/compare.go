package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/constraint"
	"github.com/loadwise/vanpack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings Settings
}

// ComparisonResult holds the pack result and computed metrics for a single
// scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Configuration model.Configuration
	ItemsLoaded   int
	ItemsTotal    int
	BinsUsed      int
	// VolumeUtilization is the mean per-bin fill ratio in percent.
	VolumeUtilization float64
	// CoGDeviationX/Z are the worst per-bin deviations from the target
	// center, in percent of the bin width/depth.
	CoGDeviationX float64
	CoGDeviationZ float64
	Elapsed       time.Duration
}

// CompareScenarios packs the same batch and fleet under each scenario and
// returns the results in scenario order. Items are cloned per scenario so
// the runs are independent; this enables side-by-side comparison of
// strategies and constraint sets.
func CompareScenarios(scenarios []ComparisonScenario, fleet []model.BinModel, defaultBin *model.BinModel, items []*model.Item) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		p := NewPacker()
		p.AddFleet(fleet)
		if defaultBin != nil {
			p.SetDefaultBin(*defaultBin)
		}
		clones := make([]*model.Item, len(items))
		for i, it := range items {
			clones[i] = it.Clone()
		}
		p.AddBatch(clones)

		start := time.Now()
		if err := p.Pack(scenario.Settings); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		stats := p.CalculateStatistics()
		devX, devZ := worstCoGDeviation(p.CurrentConfiguration)

		results = append(results, ComparisonResult{
			Scenario:          scenario,
			Configuration:     p.CurrentConfiguration,
			ItemsLoaded:       p.CurrentConfiguration.ItemCount(),
			ItemsTotal:        len(items),
			BinsUsed:          len(p.CurrentConfiguration),
			VolumeUtilization: stats.AverageVolume.InexactFloat64() * 100.0,
			CoGDeviationX:     devX,
			CoGDeviationZ:     devZ,
			Elapsed:           elapsed,
		})
	}

	return results, nil
}

// worstCoGDeviation returns the largest per-bin deviation of the center of
// gravity from the target point (width/2, depth*0.4), in percent of the bin
// width and depth.
func worstCoGDeviation(c model.Configuration) (devX, devZ float64) {
	for _, b := range c {
		if len(b.Items) == 0 {
			continue
		}
		cog := b.CenterOfGravity()
		targetX := b.Width().Div(decimal.NewFromInt(2))
		targetZ := b.Depth().Mul(decimal.NewFromFloat(0.4))
		if b.Width().IsPositive() {
			dx := cog.X.Sub(targetX).Abs().Div(b.Width()).InexactFloat64() * 100.0
			if dx > devX {
				devX = dx
			}
		}
		if b.Depth().IsPositive() {
			dz := cog.Z.Sub(targetZ).Abs().Div(b.Depth()).InexactFloat64() * 100.0
			if dz > devZ {
				devZ = dz
			}
		}
	}
	return devX, devZ
}

// BuildDefaultScenarios generates the standard comparison matrix from a base
// configuration: both strategies, each with and without the
// center-of-gravity constraint.
func BuildDefaultScenarios(base Settings) []ComparisonScenario {
	withoutCoG := []string{
		constraint.WeightWithinLimit,
		constraint.FitsInsideBin,
		constraint.NoOverlap,
		constraint.IsSupported,
	}
	withCoG := append(append([]string{}, withoutCoG...), constraint.MaintainCenterOfGravity)

	build := func(name string, strategy model.Strategy, cs []string) ComparisonScenario {
		s := base
		s.Strategy = strategy
		s.Constraints = cs
		return ComparisonScenario{Name: name, Settings: s}
	}

	return []ComparisonScenario{
		build("Greedy", model.StrategyGreedy, withoutCoG),
		build("Greedy + CoG", model.StrategyGreedy, withCoG),
		build("Multi-Anchor", model.StrategyMultiAnchor, withoutCoG),
		build("Multi-Anchor + CoG", model.StrategyMultiAnchor, withCoG),
	}
}
