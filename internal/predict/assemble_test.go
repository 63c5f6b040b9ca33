package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silkome/aranea/internal/gff"
)

func plusGroup(starts, ends PositionTable) *Group {
	if starts == nil {
		starts = make(PositionTable)
	}
	if ends == nil {
		ends = make(PositionTable)
	}
	return &Group{Chrom: "Chr1", Strand: gff.StrandPlus, Starts: starts, Ends: ends}
}

func TestAssemblePairsBothEnds(t *testing.T) {
	g := plusGroup(
		PositionTable{12345: 2},
		PositionTable{67890: 2},
	)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Chr1", c.Chrom)
	assert.Equal(t, gff.StrandPlus, c.Strand)
	assert.Equal(t, int64(12345), c.Start)
	assert.Equal(t, int64(67890), c.End)
	assert.Equal(t, 2, c.StartSupport)
	assert.Equal(t, 2, c.EndSupport)
	assert.Equal(t, int64(55546), c.Length())
	assert.Equal(t, "MaSp1", c.Spidroin)
	assert.Equal(t, ReasonNone, c.Reason)
}

func TestAssembleNearestNeighbor(t *testing.T) {
	// Two gene-end anchors, one gene-start anchor: the closer consistent
	// end wins, the other stays unpaired.
	g := plusGroup(
		PositionTable{12345: 1},
		PositionTable{67890: 3, 70000: 1},
	)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, int64(12345), c.Start)
	assert.Equal(t, int64(67890), c.End)
	assert.Equal(t, 1, c.StartSupport)
	assert.Equal(t, 3, c.EndSupport)
}

func TestAssembleNoAnchorReuse(t *testing.T) {
	g := plusGroup(
		PositionTable{1000: 1, 40000: 1},
		PositionTable{30000: 1, 70000: 1},
	)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 2)

	// Each coordinate contributes to exactly one candidate
	assert.Equal(t, int64(1000), candidates[0].Start)
	assert.Equal(t, int64(30000), candidates[0].End)
	assert.Equal(t, int64(40000), candidates[1].Start)
	assert.Equal(t, int64(70000), candidates[1].End)

	seen := make(map[int64]int)
	for _, c := range candidates {
		seen[c.Start]++
		seen[c.End]++
	}
	for pos, count := range seen {
		assert.Equal(t, 1, count, "coordinate %d reused", pos)
	}
}

func TestAssembleTightestSpan(t *testing.T) {
	// Start 20000 is nearer to end 30000 than start 1000 is: the pairing
	// prefers the tighter span and 1000 stays unpaired.
	g := plusGroup(
		PositionTable{1000: 1, 20000: 1},
		PositionTable{30000: 1},
	)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(20000), candidates[0].Start)
	assert.Equal(t, int64(30000), candidates[0].End)
	assert.Equal(t, ReasonNone, candidates[0].Reason)
}

func TestAssembleUnpairedEnd(t *testing.T) {
	g := plusGroup(
		PositionTable{1000: 2},
		PositionTable{30000: 1, 70000: 2},
	)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)

	// 30000 pairs with 1000; 70000 has no remaining start, so it stays
	// unpaired and produces no candidate.
	assert.Equal(t, int64(1000), candidates[0].Start)
	assert.Equal(t, int64(30000), candidates[0].End)
	assert.Equal(t, ReasonNone, candidates[0].Reason)
}

func TestAssembleConflict(t *testing.T) {
	// Compound locus: 30000 pairs with 2000, then 70000 falls back to
	// 1000. The 1000-70000 span contains both the 2000 start and the
	// 30000 end, so it is flagged.
	g := plusGroup(
		PositionTable{1000: 1, 2000: 1},
		PositionTable{30000: 1, 70000: 1},
	)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 2)

	clean := candidates[0]
	assert.Equal(t, int64(2000), clean.Start)
	assert.Equal(t, int64(30000), clean.End)
	assert.Equal(t, ReasonNone, clean.Reason)

	flagged := candidates[1]
	assert.Equal(t, int64(1000), flagged.Start)
	assert.Equal(t, int64(70000), flagged.End)
	assert.Equal(t, ReasonConflict, flagged.Reason)
	assert.False(t, flagged.Valid)
}

func TestAssembleExtendStartOnly(t *testing.T) {
	g := plusGroup(PositionTable{12345: 2}, nil)

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, int64(12345), c.Start)
	assert.Equal(t, int64(22345), c.End)
	assert.Equal(t, 2, c.StartSupport)
	assert.Equal(t, 0, c.EndSupport)
}

func TestAssembleExtendEndOnly(t *testing.T) {
	g := plusGroup(nil, PositionTable{67890: 3})

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, int64(57890), c.Start)
	assert.Equal(t, int64(67890), c.End)
	assert.Equal(t, 0, c.StartSupport)
	assert.Equal(t, 3, c.EndSupport)
}

func TestAssembleExtendClampsAtOne(t *testing.T) {
	g := plusGroup(nil, PositionTable{5000: 1})

	candidates := Assemble(g, "MaSp1", DefaultOptions())
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].Start)
	assert.Equal(t, int64(5000), candidates[0].End)
}

func TestAssembleEmptyGroup(t *testing.T) {
	g := plusGroup(nil, nil)
	assert.Empty(t, Assemble(g, "MaSp1", DefaultOptions()))
}

func TestAssembleNoConsistentPartner(t *testing.T) {
	// All ends precede the start: nothing can pair, nothing is emitted
	g := plusGroup(
		PositionTable{50000: 1},
		PositionTable{30000: 1},
	)
	assert.Empty(t, Assemble(g, "MaSp1", DefaultOptions()))
}
