package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// multiAnchorPlacer evaluates every (anchor, support surface, orientation)
// candidate against the constraint chain and commits the single
// lowest-scoring placement. Score ties keep the first candidate in
// enumeration order, which makes the search deterministic.
//
// Center-of-gravity balance is deliberately absent from the score: the
// placer's job is to generate balanced candidates, the CoG constraint's job
// is to accept or reject them.
type multiAnchorPlacer struct {
	heightWeight  float64
	compactWeight float64
	anchorWindow  int
}

type anchor struct {
	x, z decimal.Decimal
}

// generateAnchors produces the ordered, de-duplicated (x, z) candidate set
// for an item footprint of the given width and depth:
//
//  1. the four bin-floor corners,
//  2. the bin-floor center,
//  3. up to five neighbours of each recently placed item (right, behind,
//     diagonal, left, front), capped at the last anchorWindow items,
//  4. the mirror reflections of every anchor so far across the two
//     mid-planes.
//
// Out-of-bin anchors survive generation; the constraint chain rejects them.
func (ma *multiAnchorPlacer) generateAnchors(b *model.Bin, itemW, itemD decimal.Decimal) []anchor {
	var anchors []anchor
	seen := map[string]bool{}
	add := func(x, z decimal.Decimal) {
		x = space.Quantize(x)
		z = space.Quantize(z)
		key := x.String() + "|" + z.String()
		if seen[key] {
			return
		}
		seen[key] = true
		anchors = append(anchors, anchor{x: x, z: z})
	}

	w := b.Width()
	d := b.Depth()

	add(decimal.Zero, decimal.Zero)
	add(w, decimal.Zero)
	add(decimal.Zero, d)
	add(w, d)

	two := decimal.NewFromInt(2)
	add(w.Div(two), d.Div(two))

	window := ma.anchorWindow
	if window <= 0 {
		window = 8
	}
	start := len(b.Items) - window
	if start < 0 {
		start = 0
	}
	for _, placed := range b.Items[start:] {
		px := placed.Position().X
		pz := placed.Position().Z
		add(px.Add(placed.Width()), pz)
		add(px, pz.Add(placed.Depth()))
		add(px.Add(placed.Width()), pz.Add(placed.Depth()))
		if left := px.Sub(itemW); !left.IsNegative() {
			add(left, pz)
		}
		if front := pz.Sub(itemD); !front.IsNegative() {
			add(px, front)
		}
	}

	base := anchors
	for _, a := range base {
		add(w.Sub(a.x), a.z)
		add(a.x, d.Sub(a.z))
		add(w.Sub(a.x), d.Sub(a.z))
	}
	return anchors
}

// supportLevels returns the candidate Y surfaces for a footprint at (x, z):
// the floor, plus the top of every placed item whose top face overlaps the
// footprint, provided the item still fits below the ceiling there. Sorted
// descending so higher stacking is tried first.
func supportLevels(b *model.Bin, x, z decimal.Decimal, dims space.Vector3) []decimal.Decimal {
	footprint := space.Volume{
		Position: space.Vector3{X: x, Y: decimal.Zero, Z: z},
		Size:     dims,
	}
	levels := []decimal.Decimal{decimal.Zero}
	seen := map[string]bool{"0": true}
	for _, placed := range b.Items {
		top := placed.Position().Y.Add(placed.Height())
		if top.Add(dims.Y).GreaterThan(b.Height()) {
			continue
		}
		if space.RectOverlap(placed.Bounds(), footprint, space.AxisX, space.AxisZ).IsZero() {
			continue
		}
		key := top.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		levels = append(levels, top)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].GreaterThan(levels[j]) })
	return levels
}

// score rates a feasible placement; lower is better. The height term
// penalizes stacking, the compactness term the average X-Z Manhattan
// distance to existing items, normalized by the bin's floor dimensions.
func (ma *multiAnchorPlacer) score(b *model.Bin, pos space.Vector3) float64 {
	heightScore := 0.0
	if h := b.Height(); h.IsPositive() {
		heightScore = pos.Y.Div(h).InexactFloat64()
	}

	compactScore := 0.0
	if len(b.Items) > 0 {
		total := decimal.Zero
		for _, placed := range b.Items {
			dx := pos.X.Sub(placed.Position().X).Abs()
			dz := pos.Z.Sub(placed.Position().Z).Abs()
			total = total.Add(dx).Add(dz)
		}
		norm := b.Width().Add(b.Depth()).Mul(decimal.NewFromInt(int64(len(b.Items))))
		if norm.IsPositive() {
			compactScore = total.Div(norm).InexactFloat64()
		}
	}

	return ma.heightWeight*heightScore + ma.compactWeight*compactScore
}

// place evaluates all candidates and commits the best one. Returns false
// when no candidate passes the constraint chain.
func (ma *multiAnchorPlacer) place(b *model.Bin, it *model.Item, cs []model.Constraint) bool {
	bestScore := 0.0
	bestFound := false
	var bestPos space.Vector3
	bestRotation := 0

	for r := 0; r < model.OrientationCount; r++ {
		dims := model.OrientationDims(it.OriginalDimensions(), r)
		for _, a := range ma.generateAnchors(b, dims.X, dims.Z) {
			for _, y := range supportLevels(b, a.x, a.z, dims) {
				pos := space.Vector3{X: a.x, Y: y, Z: a.z}
				if !b.Fits(it, pos, r, cs) {
					continue
				}
				s := ma.score(b, pos)
				if !bestFound || s < bestScore {
					bestFound = true
					bestScore = s
					bestPos = pos
					bestRotation = r
				}
			}
		}
	}

	if !bestFound {
		return false
	}
	return b.PutItem(it, bestPos, bestRotation, cs)
}
