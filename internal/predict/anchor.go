package predict

import (
	"fmt"

	"github.com/silkome/aranea/internal/gff"
)

// Hit is one quality-filtered terminal-domain alignment.
type Hit struct {
	Chrom    string
	Strand   gff.Strand
	Start    int64 // 1-based inclusive
	End      int64 // 1-based inclusive
	Domain   gff.Domain
	Quality  float64 // positive (similarity) score in [0,1]
	Spidroin string
}

// HitFromRecord converts a parsed alignment record into a Hit.
// Records with unknown strand or domain values, or non-positive
// coordinates, are invalid and rejected here.
func HitFromRecord(r *gff.Record) (*Hit, error) {
	if r.Start <= 0 || r.End <= 0 || r.Start > r.End {
		return nil, fmt.Errorf("record %s: invalid coordinates %d-%d", r.Attrs.ID, r.Start, r.End)
	}
	if r.Strand != gff.StrandPlus && r.Strand != gff.StrandMinus {
		return nil, fmt.Errorf("record %s: invalid strand %d", r.Attrs.ID, r.Strand)
	}

	domain, err := r.Domain()
	if err != nil {
		return nil, err
	}

	return &Hit{
		Chrom:    r.Chrom,
		Strand:   r.Strand,
		Start:    r.Start,
		End:      r.End,
		Domain:   domain,
		Quality:  r.Attrs.Positive,
		Spidroin: r.Spidroin(),
	}, nil
}

// Side indicates which genomic boundary of a candidate gene an anchor
// supports. SideStart is always the low-coordinate boundary regardless of
// strand; the strand symmetry is folded in by Classify.
type Side int8

const (
	SideStart Side = iota + 1
	SideEnd
)

// Classify returns the gene boundary a hit supports and the genomic
// coordinate anchoring it.
//
// On the plus strand transcription proceeds low to high coordinate, so the
// N-terminus marks the gene start and the C-terminus the gene end. On the
// minus strand this is reversed:
//
//	NTD + -> gene start at hit start
//	NTD - -> gene end at hit end
//	CTD + -> gene end at hit end
//	CTD - -> gene start at hit start
func Classify(h *Hit) (Side, int64, error) {
	switch {
	case h.Domain == gff.DomainNTD && h.Strand == gff.StrandPlus:
		return SideStart, h.Start, nil
	case h.Domain == gff.DomainNTD && h.Strand == gff.StrandMinus:
		return SideEnd, h.End, nil
	case h.Domain == gff.DomainCTD && h.Strand == gff.StrandPlus:
		return SideEnd, h.End, nil
	case h.Domain == gff.DomainCTD && h.Strand == gff.StrandMinus:
		return SideStart, h.Start, nil
	}
	return 0, 0, fmt.Errorf("cannot classify hit: strand %d, domain %d", h.Strand, h.Domain)
}
