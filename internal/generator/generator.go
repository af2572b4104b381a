// Package generator produces random parcel batches for testing and
// simulation runs.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/loadwise/vanpack/internal/model"
)

// Range is an inclusive min-max interval, or mu-sigma parameters when
// gaussian sampling is enabled.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Config controls batch generation.
type Config struct {
	Width      Range  `json:"width"`
	Height     Range  `json:"height"`
	Depth      Range  `json:"depth"`
	Weight     Range  `json:"weight"`
	Priority   [2]int `json:"priority"`
	NamePrefix string `json:"name_prefix"`
	// Gaussian switches sampling from uniform min-max to |gauss(mu, sigma)|
	// with Min as mu and Max as sigma.
	Gaussian bool `json:"gaussian"`
}

// DefaultConfig returns parcel ranges typical of last-mile loads
// (dimensions in meters, weight in kilograms).
func DefaultConfig() Config {
	return Config{
		Width:      Range{Min: 0.15, Max: 0.60},
		Height:     Range{Min: 0.15, Max: 0.60},
		Depth:      Range{Min: 0.15, Max: 0.80},
		Weight:     Range{Min: 2, Max: 40},
		Priority:   [2]int{1, 5},
		NamePrefix: "Parcel",
	}
}

// Batch generates n parcels from the given config. The same seed yields the
// same batch (names, dimensions, weights, priorities); item IDs remain
// unique per call.
func Batch(cfg Config, n int, seed int64) []*model.Item {
	rng := rand.New(rand.NewSource(seed))
	sample := func(r Range) float64 {
		if cfg.Gaussian {
			v := rng.NormFloat64()*r.Max + r.Min
			if v < 0 {
				v = -v
			}
			return v
		}
		return r.Min + rng.Float64()*(r.Max-r.Min)
	}

	items := make([]*model.Item, 0, n)
	for i := 0; i < n; i++ {
		priority := cfg.Priority[0]
		if cfg.Priority[1] > cfg.Priority[0] {
			priority += rng.Intn(cfg.Priority[1] - cfg.Priority[0] + 1)
		}
		items = append(items, model.NewItemDims(
			fmt.Sprintf("%s_%d", cfg.NamePrefix, i),
			sample(cfg.Width),
			sample(cfg.Height),
			sample(cfg.Depth),
			sample(cfg.Weight),
			priority,
		))
	}
	return items
}
