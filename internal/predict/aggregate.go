package predict

import (
	"sort"

	"github.com/silkome/aranea/internal/gff"
)

// PositionTable maps a genomic coordinate to the number of independent
// hits anchored at that coordinate. The count is the confidence signal for
// that boundary. Coordinates are kept distinct even when close together;
// downstream validation distinguishes noisy from clean signal.
type PositionTable map[int64]int

// Add records one hit anchored at the given coordinate.
func (t PositionTable) Add(pos int64) {
	t[pos]++
}

// Coordinates returns all coordinates in ascending order.
func (t PositionTable) Coordinates() []int64 {
	coords := make([]int64, 0, len(t))
	for pos := range t {
		coords = append(coords, pos)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i] < coords[j] })
	return coords
}

// Group holds the aggregated anchor evidence for one (chromosome, strand)
// combination of a single spidroin type.
type Group struct {
	Chrom  string
	Strand gff.Strand
	Starts PositionTable // gene-start boundary evidence
	Ends   PositionTable // gene-end boundary evidence
}

type groupKey struct {
	chrom  string
	strand gff.Strand
}

// Aggregate classifies each hit and accumulates support counts per
// (chromosome, strand) group. Hit order does not affect the resulting
// counts. Groups are returned sorted by chromosome (natural order) then
// strand for deterministic downstream processing.
func Aggregate(hits []*Hit) ([]*Group, error) {
	byKey := make(map[groupKey]*Group)

	for _, h := range hits {
		side, pos, err := Classify(h)
		if err != nil {
			return nil, err
		}

		key := groupKey{h.Chrom, h.Strand}
		g, ok := byKey[key]
		if !ok {
			g = &Group{
				Chrom:  h.Chrom,
				Strand: h.Strand,
				Starts: make(PositionTable),
				Ends:   make(PositionTable),
			}
			byKey[key] = g
		}

		if side == SideStart {
			g.Starts.Add(pos)
		} else {
			g.Ends.Add(pos)
		}
	}

	groups := make([]*Group, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Chrom != groups[j].Chrom {
			return naturalLess(groups[i].Chrom, groups[j].Chrom)
		}
		return groups[i].Strand > groups[j].Strand
	})

	return groups, nil
}
