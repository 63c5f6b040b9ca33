package predict

import "github.com/silkome/aranea/internal/gff"

// Reason classifies why a candidate was rejected. An empty reason means the
// candidate was accepted.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonTooShort         Reason = "too_short"
	ReasonTooLong          Reason = "too_long"
	ReasonNoDirectEvidence Reason = "no_direct_evidence"
	ReasonConflict         Reason = "conflict"
)

// Candidate is a tentative gene span produced by the assembler and
// annotated by the validator.
type Candidate struct {
	Chrom    string
	Strand   gff.Strand
	Start    int64
	End      int64
	Spidroin string

	// Support counts backing each boundary. Zero means the boundary was
	// synthesized by extension, not observed.
	StartSupport int
	EndSupport   int

	Valid  bool
	Reason Reason
}

// Length returns the span length in bp (1-based inclusive coordinates).
func (c *Candidate) Length() int64 {
	return c.End - c.Start + 1
}

// Assemble pairs gene-start and gene-end evidence for one group into
// candidate gene spans.
//
// When both boundaries have evidence, ends are scanned in ascending order
// and each is paired with the nearest unused start below it, so every pair
// forms the tightest consistent span and no anchor is reused. Pairs with a
// third anchor strictly between the boundaries are flagged as conflicts:
// an intervening anchor indicates an ambiguous or compound locus.
//
// When only one boundary has evidence, each anchor is extended by
// opts.ExtensionLength away from the known terminus and the synthesized
// boundary is marked with zero support. A group with no evidence at all
// produces no candidates.
func Assemble(g *Group, spidroin string, opts Options) []*Candidate {
	starts := g.Starts.Coordinates()
	ends := g.Ends.Coordinates()

	switch {
	case len(starts) == 0 && len(ends) == 0:
		return nil
	case len(ends) == 0:
		return extendStarts(g, spidroin, starts, opts)
	case len(starts) == 0:
		return extendEnds(g, spidroin, ends, opts)
	}

	var candidates []*Candidate
	used := make(map[int64]bool, len(starts))

	for _, end := range ends {
		start, ok := nearestStartBelow(starts, used, end)
		if !ok {
			continue // no consistent partner; anchor stays unpaired
		}
		used[start] = true

		c := &Candidate{
			Chrom:        g.Chrom,
			Strand:       g.Strand,
			Start:        start,
			End:          end,
			Spidroin:     spidroin,
			StartSupport: g.Starts[start],
			EndSupport:   g.Ends[end],
		}

		if hasIntervening(start, end, starts, ends) {
			c.Valid = false
			c.Reason = ReasonConflict
		}

		candidates = append(candidates, c)
	}

	return candidates
}

// nearestStartBelow returns the largest unused start strictly below end.
func nearestStartBelow(starts []int64, used map[int64]bool, end int64) (int64, bool) {
	for i := len(starts) - 1; i >= 0; i-- {
		s := starts[i]
		if s >= end || used[s] {
			continue
		}
		return s, true
	}
	return 0, false
}

// hasIntervening reports whether any other anchor falls strictly between
// start and end.
func hasIntervening(start, end int64, starts, ends []int64) bool {
	for _, s := range starts {
		if start < s && s < end {
			return true
		}
	}
	for _, e := range ends {
		if start < e && e < end {
			return true
		}
	}
	return false
}

// extendStarts synthesizes candidates from start-only evidence by extending
// downstream (toward higher coordinates).
func extendStarts(g *Group, spidroin string, starts []int64, opts Options) []*Candidate {
	candidates := make([]*Candidate, 0, len(starts))
	for _, start := range starts {
		candidates = append(candidates, &Candidate{
			Chrom:        g.Chrom,
			Strand:       g.Strand,
			Start:        start,
			End:          start + opts.ExtensionLength,
			Spidroin:     spidroin,
			StartSupport: g.Starts[start],
			EndSupport:   0,
		})
	}
	return candidates
}

// extendEnds synthesizes candidates from end-only evidence by extending
// upstream, clamped at coordinate 1.
func extendEnds(g *Group, spidroin string, ends []int64, opts Options) []*Candidate {
	candidates := make([]*Candidate, 0, len(ends))
	for _, end := range ends {
		start := end - opts.ExtensionLength
		if start < 1 {
			start = 1
		}
		candidates = append(candidates, &Candidate{
			Chrom:        g.Chrom,
			Strand:       g.Strand,
			Start:        start,
			End:          end,
			Spidroin:     spidroin,
			StartSupport: 0,
			EndSupport:   g.Ends[end],
		})
	}
	return candidates
}
