package engine

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/vanpack/internal/constraint"
	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// baseConstraints is the default set without the CoG balance predicate.
func baseConstraints() []string {
	return []string{
		constraint.WeightWithinLimit,
		constraint.FitsInsideBin,
		constraint.NoOverlap,
		constraint.IsSupported,
	}
}

func baseSettings() Settings {
	s := DefaultSettings()
	s.Constraints = baseConstraints()
	return s
}

// asymmetricBatch is the unbalanced fixture: 5 heavy cubes followed by 15
// light but bulkier cubes. Heavies carry the higher priority so they load
// first.
func asymmetricBatch() []*model.Item {
	var items []*model.Item
	for i := 0; i < 5; i++ {
		items = append(items, model.NewItemDims(fmt.Sprintf("Heavy_%d", i), 0.40, 0.40, 0.40, 80, 5))
	}
	for i := 0; i < 15; i++ {
		items = append(items, model.NewItemDims(fmt.Sprintf("Light_%d", i), 0.50, 0.50, 0.50, 3, 1))
	}
	return items
}

func vanModel() model.BinModel {
	return model.NewBinModelDims("Furgone L3H2", 1.870, 2.172, 4.070, 1400)
}

func TestPack_UnknownStrategyFails(t *testing.T) {
	p := NewPacker()
	p.AddBin(vanModel())
	p.AddBatch([]*model.Item{model.NewItemDims("box", 0.1, 0.1, 0.1, 1, 0)})

	s := DefaultSettings()
	s.Strategy = "simulated_annealing"
	err := p.Pack(s)
	require.Error(t, err)
	assert.Nil(t, p.CurrentConfiguration)
}

func TestPack_UnknownConstraintFails(t *testing.T) {
	p := NewPacker()
	p.AddBin(vanModel())
	p.AddBatch([]*model.Item{model.NewItemDims("box", 0.1, 0.1, 0.1, 1, 0)})

	s := DefaultSettings()
	s.Constraints = []string{"gravity_inversion"}
	assert.Error(t, p.Pack(s))
}

func TestPack_NoBinSourceFails(t *testing.T) {
	p := NewPacker()
	p.AddBatch([]*model.Item{model.NewItemDims("box", 0.1, 0.1, 0.1, 1, 0)})
	assert.Error(t, p.Pack(DefaultSettings()))
}

func TestCalculateStatistics_EmptyPacker(t *testing.T) {
	p := NewPacker()
	stats := p.CalculateStatistics()
	assert.True(t, stats.LoadedVolume.IsZero())
	assert.True(t, stats.LoadedWeight.IsZero())
	assert.True(t, stats.AverageVolume.IsZero())
}

func TestPack_SingleItemGreedy(t *testing.T) {
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("van", 2, 2, 2, 100))
	it := model.NewItemDims("box", 1, 1, 1, 5, 0)
	p.AddBatch([]*model.Item{it})

	require.NoError(t, p.Pack(baseSettings()))

	require.Len(t, p.CurrentConfiguration, 1)
	require.Len(t, p.CurrentConfiguration[0].Items, 1)
	assert.Empty(t, p.UnfittedItems)
	assert.True(t, it.Position().Equal(space.Zero()))
}

func TestPack_FleetThenDefaultBin(t *testing.T) {
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("small", 1, 1, 1, 100))
	p.SetDefaultBin(model.NewBinModelDims("fallback", 1, 1, 1, 100))
	p.AddBatch([]*model.Item{
		model.NewItemDims("a", 1, 1, 1, 1, 0),
		model.NewItemDims("b", 1, 1, 1, 1, 0),
	})

	require.NoError(t, p.Pack(baseSettings()))

	require.Len(t, p.CurrentConfiguration, 2)
	assert.Equal(t, "small", p.CurrentConfiguration[0].Model.Name)
	assert.Equal(t, "fallback", p.CurrentConfiguration[1].Model.Name)
	assert.Empty(t, p.UnfittedItems)
}

func TestPack_UnfittableItemIsReported(t *testing.T) {
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("small", 1, 1, 1, 100))
	giant := model.NewItemDims("giant", 3, 3, 3, 1, 0)
	box := model.NewItemDims("box", 1, 1, 1, 1, 0)
	p.AddBatch([]*model.Item{giant, box})

	require.NoError(t, p.Pack(baseSettings()))

	require.Len(t, p.CurrentConfiguration, 1)
	assert.Len(t, p.CurrentConfiguration[0].Items, 1)
	require.Len(t, p.UnfittedItems, 1)
	assert.Equal(t, "giant", p.UnfittedItems[0].Name)
}

func TestPack_RetriesUnplacedItemsInSameBin(t *testing.T) {
	// The urgent block is rejected on the first sweep: alone in the bin,
	// every orientation at the origin leaves the hypothetical CoG far off
	// the depth target. Once the long base is committed the block fits on
	// top of it, so a second sweep over the same bin must pick it up
	// instead of opening another bin.
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("van", 2, 2, 10, 100))
	block := model.NewItemDims("block", 2, 1, 2, 1, 5)
	base := model.NewItemDims("base", 2, 1, 8, 1, 1)
	p.AddBatch([]*model.Item{block, base})

	require.NoError(t, p.Pack(DefaultSettings()))

	require.Len(t, p.CurrentConfiguration, 1, "both items belong in the one bin")
	assert.Empty(t, p.UnfittedItems)
	bin := p.CurrentConfiguration[0]
	require.Len(t, bin.Items, 2)
	// Insertion order records the retry: the base lands first.
	assert.Equal(t, "base", bin.Items[0].Name)
	assert.Equal(t, "block", bin.Items[1].Name)
	assert.True(t, block.Position().Equal(space.Vec(0, 1, 0)))
}

func TestPack_SortsByPriorityThenVolume(t *testing.T) {
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("van", 10, 10, 10, 1000))
	small := model.NewItemDims("small", 1, 1, 1, 1, 0)
	bigLow := model.NewItemDims("big-low", 2, 2, 2, 1, 0)
	urgent := model.NewItemDims("urgent", 1, 1, 1, 1, 9)
	p.AddBatch([]*model.Item{small, bigLow, urgent})

	require.NoError(t, p.Pack(baseSettings()))

	require.Len(t, p.CurrentConfiguration, 1)
	bin := p.CurrentConfiguration[0]
	require.Len(t, bin.Items, 3)
	// Priority wins, then volume.
	assert.Equal(t, "urgent", bin.Items[0].Name)
	assert.Equal(t, "big-low", bin.Items[1].Name)
	assert.Equal(t, "small", bin.Items[2].Name)
}

func TestPack_WeightAccounting(t *testing.T) {
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("van", 5, 5, 5, 10))
	p.AddBatch([]*model.Item{
		model.NewItemDims("a", 1, 1, 1, 6, 0),
		model.NewItemDims("b", 1, 1, 1, 6, 0),
	})

	require.NoError(t, p.Pack(baseSettings()))

	require.Len(t, p.CurrentConfiguration, 1)
	bin := p.CurrentConfiguration[0]
	assert.Len(t, bin.Items, 1)
	assert.True(t, bin.Weight.LessThanOrEqual(bin.MaxWeight()))
	assert.Len(t, p.UnfittedItems, 1)
}

// assertInvariants verifies containment, pairwise no-overlap, weight
// accounting, and support for every bin of a configuration.
func assertInvariants(t *testing.T, c model.Configuration) {
	t.Helper()
	for _, bin := range c {
		weight := decimal.Zero
		for i, it := range bin.Items {
			weight = weight.Add(it.Weight)
			pos := it.Position()
			dims := it.Dimensions()
			for _, axis := range []space.Axis{space.AxisX, space.AxisY, space.AxisZ} {
				p := pos.Component(axis)
				assert.False(t, p.IsNegative(), "%s below origin on %s", it.Name, axis)
				assert.True(t, p.Add(dims.Component(axis)).LessThanOrEqual(bin.Model.Size.Component(axis)),
					"%s outside bin on %s", it.Name, axis)
			}
			for _, other := range bin.Items[i+1:] {
				assert.False(t, space.Intersect(it.Bounds(), other.Bounds()),
					"%s overlaps %s", it.Name, other.Name)
			}
		}
		assert.True(t, bin.Weight.Equal(weight), "bin %d weight mismatch", bin.ID)
		assert.True(t, bin.Weight.LessThanOrEqual(bin.MaxWeight()))
	}
}

func TestPack_AsymmetricLoadGreedyWithCoG(t *testing.T) {
	// Greedy always proposes the left-bottom-back corner first. With the
	// asymmetric heavy batch the CoG constraint rejects those proposals, so
	// the run loads fewer items than the batch holds.
	p := NewPacker()
	p.AddBin(vanModel())
	p.AddBatch(asymmetricBatch())

	s := DefaultSettings()
	s.Strategy = model.StrategyGreedy
	require.NoError(t, p.Pack(s))

	placed := p.CurrentConfiguration.ItemCount()
	assert.Less(t, placed, 20, "the corner bias cannot satisfy the balance constraint for all items")
	assertInvariants(t, p.CurrentConfiguration)
}

func TestPack_AsymmetricLoadMultiAnchorWithCoG(t *testing.T) {
	p := NewPacker()
	p.AddBin(vanModel())
	p.AddBatch(asymmetricBatch())

	s := DefaultSettings()
	s.Strategy = model.StrategyMultiAnchor
	require.NoError(t, p.Pack(s))

	placed := p.CurrentConfiguration.ItemCount()
	assert.Equal(t, 20, placed, "the balanced candidate set fits the whole batch")
	assert.Empty(t, p.UnfittedItems)
	assertInvariants(t, p.CurrentConfiguration)

	// The committed CoG honours the tolerance window at the final load
	// ratio on both balanced axes.
	for _, bin := range p.CurrentConfiguration {
		cog := bin.CenterOfGravity()
		factor := decimal.NewFromInt(1).Sub(
			decimal.NewFromFloat(0.7).Mul(bin.Weight.Div(bin.MaxWeight())))
		tolX := decimal.NewFromFloat(0.2).Mul(bin.Width()).Mul(factor)
		tolZ := decimal.NewFromFloat(0.2).Mul(bin.Depth()).Mul(factor)

		devX := cog.X.Sub(bin.Width().Div(decimal.NewFromInt(2))).Abs()
		devZ := cog.Z.Sub(bin.Depth().Mul(decimal.NewFromFloat(0.4))).Abs()
		assert.True(t, devX.LessThanOrEqual(tolX), "CoG X deviation %s exceeds %s", devX, tolX)
		assert.True(t, devZ.LessThanOrEqual(tolZ), "CoG Z deviation %s exceeds %s", devZ, tolZ)
	}
}

func TestPack_MultiAnchorDominatesGreedyUnderCoG(t *testing.T) {
	run := func(strategy model.Strategy) int {
		p := NewPacker()
		p.AddBin(vanModel())
		p.AddBatch(asymmetricBatch())
		s := DefaultSettings()
		s.Strategy = strategy
		require.NoError(t, p.Pack(s))
		return p.CurrentConfiguration.ItemCount()
	}

	greedy := run(model.StrategyGreedy)
	multi := run(model.StrategyMultiAnchor)
	assert.GreaterOrEqual(t, multi, greedy)
}

func TestPack_Deterministic(t *testing.T) {
	snapshot := func() []string {
		p := NewPacker()
		p.AddBin(vanModel())
		p.AddBatch(asymmetricBatch())
		s := DefaultSettings()
		s.Strategy = model.StrategyMultiAnchor
		require.NoError(t, p.Pack(s))

		var lines []string
		for _, bin := range p.CurrentConfiguration {
			for _, it := range bin.Items {
				lines = append(lines, fmt.Sprintf("%s@%s r%d", it.Name, it.Position(), it.Rotation()))
			}
		}
		return lines
	}

	assert.Equal(t, snapshot(), snapshot())
}

func TestPackTest_DoesNotConsumeFleet(t *testing.T) {
	p := NewPacker()
	p.AddBin(vanModel())
	p.AddBatch([]*model.Item{model.NewItemDims("box", 0.5, 0.5, 0.5, 5, 0)})

	candidates := []model.BinModel{
		model.NewBinModelDims("small", 1, 1, 1, 100),
		model.NewBinModelDims("large", 3, 3, 3, 100),
	}
	configuration, err := p.PackTest(candidates, baseSettings())
	require.NoError(t, err)

	require.Len(t, configuration, 2)
	assert.Len(t, configuration[0].Items, 1)
	assert.Len(t, configuration[1].Items, 1)
	// The stored state is untouched.
	assert.Len(t, p.Fleet, 1)
	assert.Nil(t, p.CurrentConfiguration)
	assert.False(t, p.Items[0].Placed())
}

func TestPack_StatisticsAfterRun(t *testing.T) {
	p := NewPacker()
	p.AddBin(model.NewBinModelDims("van", 2, 2, 2, 100))
	p.AddBatch([]*model.Item{model.NewItemDims("box", 1, 1, 1, 5, 0)})

	require.NoError(t, p.Pack(baseSettings()))

	stats := p.CalculateStatistics()
	assert.True(t, stats.LoadedVolume.Equal(decimal.NewFromInt(1)))
	assert.True(t, stats.LoadedWeight.Equal(decimal.NewFromInt(5)))
	assert.True(t, stats.AverageVolume.Equal(decimal.RequireFromString("0.125")))
}
