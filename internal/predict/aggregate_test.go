package predict

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silkome/aranea/internal/gff"
)

func ntdHit(chrom string, strand gff.Strand, start, end int64) *Hit {
	return &Hit{Chrom: chrom, Strand: strand, Start: start, End: end, Domain: gff.DomainNTD, Spidroin: "MaSp1"}
}

func ctdHit(chrom string, strand gff.Strand, start, end int64) *Hit {
	return &Hit{Chrom: chrom, Strand: strand, Start: start, End: end, Domain: gff.DomainCTD, Spidroin: "MaSp1"}
}

func TestPositionTable(t *testing.T) {
	table := make(PositionTable)
	table.Add(300)
	table.Add(100)
	table.Add(300)
	table.Add(200)

	assert.Equal(t, 2, table[300])
	assert.Equal(t, 1, table[100])
	assert.Equal(t, []int64{100, 200, 300}, table.Coordinates())
}

func TestAggregateSupportCounts(t *testing.T) {
	hits := []*Hit{
		ntdHit("Chr1", gff.StrandPlus, 12345, 12500),
		ntdHit("Chr1", gff.StrandPlus, 12345, 12480),
		ctdHit("Chr1", gff.StrandPlus, 67700, 67890),
		ctdHit("Chr1", gff.StrandPlus, 67650, 67890),
	}

	groups, err := Aggregate(hits)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Chr1", g.Chrom)
	assert.Equal(t, gff.StrandPlus, g.Strand)

	// Both NTD hits anchor gene start at the same coordinate
	assert.Equal(t, 2, g.Starts[12345])
	// Both CTD hits anchor gene end at the same coordinate
	assert.Equal(t, 2, g.Ends[67890])
}

func TestAggregateMinusStrand(t *testing.T) {
	hits := []*Hit{
		// On the minus strand the NTD marks the gene end (high coordinate)
		ntdHit("Chr2", gff.StrandMinus, 50000, 50400),
		// and the CTD marks the gene start (low coordinate)
		ctdHit("Chr2", gff.StrandMinus, 41000, 41300),
	}

	groups, err := Aggregate(hits)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, 1, g.Ends[50400])
	assert.Equal(t, 1, g.Starts[41000])
	assert.Len(t, g.Starts, 1)
	assert.Len(t, g.Ends, 1)
}

func TestAggregateGroupsByChromAndStrand(t *testing.T) {
	hits := []*Hit{
		ntdHit("Chr1", gff.StrandPlus, 100, 200),
		ntdHit("Chr1", gff.StrandMinus, 100, 200),
		ntdHit("Chr10", gff.StrandPlus, 100, 200),
		ntdHit("Chr2", gff.StrandPlus, 100, 200),
	}

	groups, err := Aggregate(hits)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	// Natural chromosome order, plus strand before minus
	assert.Equal(t, "Chr1", groups[0].Chrom)
	assert.Equal(t, gff.StrandPlus, groups[0].Strand)
	assert.Equal(t, "Chr1", groups[1].Chrom)
	assert.Equal(t, gff.StrandMinus, groups[1].Strand)
	assert.Equal(t, "Chr2", groups[2].Chrom)
	assert.Equal(t, "Chr10", groups[3].Chrom)
}

func TestAggregateOrderInvariant(t *testing.T) {
	hits := []*Hit{
		ntdHit("Chr1", gff.StrandPlus, 12345, 12500),
		ntdHit("Chr1", gff.StrandPlus, 12345, 12480),
		ntdHit("Chr1", gff.StrandPlus, 12400, 12520),
		ctdHit("Chr1", gff.StrandPlus, 67700, 67890),
		ctdHit("Chr2", gff.StrandMinus, 5000, 5200),
	}

	reference, err := Aggregate(hits)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for range 10 {
		shuffled := make([]*Hit, len(hits))
		copy(shuffled, hits)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		groups, err := Aggregate(shuffled)
		require.NoError(t, err)
		assert.Equal(t, reference, groups)
	}
}

func TestAggregateEmpty(t *testing.T) {
	groups, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
