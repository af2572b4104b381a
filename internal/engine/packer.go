// Package engine runs the 3D bin-packing algorithms: a greedy
// Left-Bottom-Back placer, a scored multi-anchor placer, and the
// orchestrator that drives them over a fleet of bins.
package engine

import (
	"fmt"
	"sort"

	"github.com/loadwise/vanpack/internal/constraint"
	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// Settings holds pack-run configuration.
type Settings struct {
	Strategy       model.Strategy `json:"strategy"`
	Constraints    []string       `json:"constraints"`
	BiggerFirst    bool           `json:"bigger_first"`
	FollowPriority bool           `json:"follow_priority"`
	Decimals       int32          `json:"decimals"`

	// Multi-anchor tuning. Lower scores win; height penalizes stacking,
	// compactness penalizes placements far from existing items.
	HeightWeight  float64 `json:"height_weight"`
	CompactWeight float64 `json:"compact_weight"`
	// AnchorWindow caps how many recently placed items contribute
	// neighbour anchors.
	AnchorWindow int `json:"anchor_window"`
}

// DefaultSettings returns the baseline configuration: greedy strategy, all
// five built-in constraints, priority-then-volume ordering, 3 decimal digits.
func DefaultSettings() Settings {
	return Settings{
		Strategy:       model.StrategyGreedy,
		Constraints:    constraint.DefaultNames(),
		BiggerFirst:    true,
		FollowPriority: true,
		Decimals:       space.DefaultPrecision,
		HeightWeight:   0.3,
		CompactWeight:  0.2,
		AnchorWindow:   8,
	}
}

// placeFunc attempts to place one item into a bin, committing on success.
type placeFunc func(b *model.Bin, it *model.Item, cs []model.Constraint) bool

// Packer stores a batch of items and a fleet of bin models and executes
// pack runs over them.
type Packer struct {
	DefaultBin           *model.BinModel
	Fleet                []model.BinModel
	Items                []*model.Item
	CurrentConfiguration model.Configuration
	UnfittedItems        []*model.Item
}

// NewPacker creates an empty packer.
func NewPacker() *Packer {
	return &Packer{}
}

// SetDefaultBin sets the fallback bin model used when the fleet runs out.
func (p *Packer) SetDefaultBin(m model.BinModel) {
	p.DefaultBin = &m
}

// AddBin appends one bin model to the fleet.
func (p *Packer) AddBin(m model.BinModel) {
	p.Fleet = append(p.Fleet, m)
}

// AddFleet appends bin models to the fleet.
func (p *Packer) AddFleet(fleet []model.BinModel) {
	p.Fleet = append(p.Fleet, fleet...)
}

// AddBatch appends items to the batch.
func (p *Packer) AddBatch(batch []*model.Item) {
	p.Items = append(p.Items, batch...)
}

// placerFor resolves the strategy literal. An unknown literal is a
// configuration error.
func placerFor(s Settings) (placeFunc, error) {
	switch s.Strategy {
	case model.StrategyGreedy:
		return greedyPlace, nil
	case model.StrategyMultiAnchor:
		ma := &multiAnchorPlacer{
			heightWeight:  s.HeightWeight,
			compactWeight: s.CompactWeight,
			anchorWindow:  s.AnchorWindow,
		}
		return ma.place, nil
	default:
		return nil, fmt.Errorf("unknown packing strategy %q", s.Strategy)
	}
}

// sortItems orders the batch for placement: descending priority first when
// FollowPriority is set, descending volume as tie-break (or primary order)
// when BiggerFirst is set. The sort is stable so equal items keep their
// batch order.
func sortItems(items []*model.Item, s Settings) []*model.Item {
	sorted := make([]*model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if s.FollowPriority && a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if s.BiggerFirst {
			return a.Volume().GreaterThan(b.Volume())
		}
		return false
	})
	return sorted
}

// Pack executes the packing run. On success CurrentConfiguration holds the
// loaded bins and UnfittedItems the items no bin could take. Configuration
// errors (unknown strategy or constraint key, no bin source) leave the pack
// state unchanged.
func (p *Packer) Pack(s Settings) error {
	cs, err := constraint.Resolve(s.Constraints)
	if err != nil {
		return err
	}
	place, err := placerFor(s)
	if err != nil {
		return err
	}
	if len(p.Fleet) == 0 && p.DefaultBin == nil {
		return fmt.Errorf("no fleet and no default bin to pack into")
	}

	space.SetPrecision(s.Decimals)
	for _, it := range p.Items {
		it.Requantize()
	}
	for i := range p.Fleet {
		p.Fleet[i] = p.Fleet[i].Requantize()
	}
	if p.DefaultBin != nil {
		db := p.DefaultBin.Requantize()
		p.DefaultBin = &db
	}

	fleet := make([]model.BinModel, len(p.Fleet))
	copy(fleet, p.Fleet)
	remaining := sortItems(p.Items, s)

	var configuration model.Configuration
	for len(remaining) > 0 {
		var bm model.BinModel
		fromDefault := false
		switch {
		case len(fleet) > 0:
			bm = fleet[0]
			fleet = fleet[1:]
		case p.DefaultBin != nil:
			bm = *p.DefaultBin
			fromDefault = true
		default:
			p.CurrentConfiguration = configuration
			p.UnfittedItems = remaining
			return nil
		}

		bin := model.NewBin(len(configuration), bm)
		// Sweep the remaining items against this bin repeatedly: a commit
		// can create pivots or anchors for items that failed earlier in the
		// same sweep. The bin closes once a full sweep places nothing.
		for len(remaining) > 0 {
			var unfitted []*model.Item
			for _, it := range remaining {
				if !place(bin, it, cs) {
					unfitted = append(unfitted, it)
				}
			}
			progress := len(unfitted) < len(remaining)
			remaining = unfitted
			if !progress {
				break
			}
		}

		// A bin that takes nothing is discarded. A fleet bin hands over to
		// the next bin source (the next fleet model, then the default bin);
		// an empty default bin ends the run, since another one would take
		// nothing either.
		if len(bin.Items) == 0 {
			if !fromDefault {
				continue
			}
			p.CurrentConfiguration = configuration
			p.UnfittedItems = remaining
			return nil
		}

		configuration = append(configuration, bin)
	}

	p.CurrentConfiguration = configuration
	p.UnfittedItems = remaining
	return nil
}

// PackTest trial-packs the current batch into one fresh bin per candidate
// model, without touching the fleet or the stored configuration. Useful for
// fleet-sizing decisions.
func (p *Packer) PackTest(models []model.BinModel, s Settings) (model.Configuration, error) {
	cs, err := constraint.Resolve(s.Constraints)
	if err != nil {
		return nil, err
	}
	place, err := placerFor(s)
	if err != nil {
		return nil, err
	}

	space.SetPrecision(s.Decimals)
	var configuration model.Configuration
	for _, m := range models {
		bin := model.NewBin(0, m.Requantize())
		for _, it := range sortItems(p.Items, s) {
			place(bin, it.Clone(), cs)
		}
		configuration = append(configuration, bin)
	}
	return configuration, nil
}

// CalculateStatistics summarizes the current configuration.
func (p *Packer) CalculateStatistics() model.Statistics {
	return model.CalculateStatistics(p.CurrentConfiguration)
}
