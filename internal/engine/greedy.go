package engine

import (
	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// greedyPlace is the Left-Bottom-Back baseline: it commits the first
// feasible placement it finds.
//
// An empty bin is tried at the origin with each orientation. Otherwise the
// candidate positions are the pivots of already-placed items: for each item
// and each axis, the corner on that axis's positive face. Pivots are
// produced in insertion order, which biases placements toward the
// left-bottom-back corner; the multi-anchor placer exists to compensate.
func greedyPlace(b *model.Bin, it *model.Item, cs []model.Constraint) bool {
	if len(b.Items) == 0 {
		for r := 0; r < model.OrientationCount; r++ {
			if b.PutItem(it, space.Zero(), r, cs) {
				return true
			}
		}
		return false
	}

	for _, placed := range b.Items {
		for _, axis := range []space.Axis{space.AxisX, space.AxisY, space.AxisZ} {
			edge := placed.Position().Component(axis).Add(placed.Dimensions().Component(axis))
			pivot := placed.Position().WithComponent(axis, edge)
			for r := 0; r < model.OrientationCount; r++ {
				if b.PutItem(it, pivot, r, cs) {
					return true
				}
			}
		}
	}
	return false
}
