package predict

import (
	"fmt"
	"sort"
)

// Gene is an accepted candidate with its stable identifier.
type Gene struct {
	ID string
	*Candidate
}

// GeneSet is the ordered set of gene predictions for one genome, plus the
// rejected candidates kept for diagnostic reporting.
type GeneSet struct {
	Genes    []Gene
	Rejected []*Candidate
}

// Combine merges validated candidates across all spidroin types into one
// gene set. Accepted candidates are sorted by (chromosome, start) and
// assigned sequential identifiers in that order. Overlapping genes of
// different spidroin types are preserved as-is for human review. Rejected
// candidates are dropped from the gene list but retained with their reasons.
func Combine(candidates []*Candidate) *GeneSet {
	gs := &GeneSet{}

	var accepted []*Candidate
	for _, c := range candidates {
		if c.Valid {
			accepted = append(accepted, c)
		} else {
			gs.Rejected = append(gs.Rejected, c)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Chrom != accepted[j].Chrom {
			return naturalLess(accepted[i].Chrom, accepted[j].Chrom)
		}
		return accepted[i].Start < accepted[j].Start
	})

	gs.Genes = make([]Gene, len(accepted))
	for i, c := range accepted {
		gs.Genes[i] = Gene{
			ID:        fmt.Sprintf("gene_%03d", i+1),
			Candidate: c,
		}
	}

	return gs
}

// naturalLess compares strings with embedded numbers numerically, so
// "Chr2" sorts before "Chr10" and unnumbered scaffolds still order
// deterministically.
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]

		if isDigit(ca) && isDigit(cb) {
			// Compare the full digit runs as numbers.
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := trimLeadingZeros(a[si:i])
			nb := trimLeadingZeros(b[sj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}

		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
