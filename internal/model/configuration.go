package model

import "github.com/shopspring/decimal"

// Strategy selects the placement algorithm for a pack run.
type Strategy string

const (
	StrategyGreedy      Strategy = "greedy"       // Left-Bottom-Back first fit (fast)
	StrategyMultiAnchor Strategy = "multi_anchor" // Scored multi-anchor search (balanced)
)

// Configuration is the ordered sequence of bins produced by a pack run.
type Configuration []*Bin

// ItemCount returns the total number of placed items across all bins.
func (c Configuration) ItemCount() int {
	n := 0
	for _, b := range c {
		n += len(b.Items)
	}
	return n
}

// Statistics summarizes a configuration.
type Statistics struct {
	LoadedVolume  decimal.Decimal `json:"loaded_volume"`
	LoadedWeight  decimal.Decimal `json:"loaded_weight"`
	AverageVolume decimal.Decimal `json:"average_volume"`
}

// CalculateStatistics derives load statistics from a configuration.
// AverageVolume is the mean of the per-bin volume-fill ratios, zero when no
// bins are loaded.
func CalculateStatistics(c Configuration) Statistics {
	stats := Statistics{
		LoadedVolume:  decimal.Zero,
		LoadedWeight:  decimal.Zero,
		AverageVolume: decimal.Zero,
	}
	fillSum := decimal.Zero
	bins := 0
	for _, b := range c {
		binVolume := decimal.Zero
		for _, it := range b.Items {
			binVolume = binVolume.Add(it.Volume())
		}
		stats.LoadedVolume = stats.LoadedVolume.Add(binVolume)
		stats.LoadedWeight = stats.LoadedWeight.Add(b.Weight)
		capacity := b.Model.Volume()
		if capacity.IsPositive() {
			fillSum = fillSum.Add(binVolume.Div(capacity))
			bins++
		}
	}
	if bins > 0 {
		stats.AverageVolume = fillSum.Div(decimal.NewFromInt(int64(bins)))
	}
	return stats
}
