// Package gff parses miniprot protein-to-genome alignments in GFF3 format.
package gff

import "fmt"

// Strand represents the genomic strand of an alignment.
type Strand int8

const (
	StrandPlus  Strand = 1
	StrandMinus Strand = -1
)

// String returns the GFF representation of the strand ("+" or "-").
func (s Strand) String() string {
	if s == StrandMinus {
		return "-"
	}
	return "+"
}

// ParseStrand converts a GFF strand column value to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandPlus, nil
	case "-":
		return StrandMinus, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

// Domain identifies which conserved terminal domain of a spidroin protein
// produced an alignment. The repetitive middle region aligns poorly, so only
// the terminal domains are used as anchors.
type Domain int8

const (
	DomainNTD Domain = iota + 1 // N-terminal domain
	DomainCTD                   // C-terminal domain
)

// String returns the domain tag as it appears in target descriptors.
func (d Domain) String() string {
	if d == DomainCTD {
		return "CTD"
	}
	return "NTD"
}

// ParseDomain converts a domain tag ("NTD" or "CTD") to a Domain.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "NTD":
		return DomainNTD, nil
	case "CTD":
		return DomainCTD, nil
	}
	return 0, fmt.Errorf("invalid domain %q", s)
}

// Attributes holds the parsed attribute column of a miniprot alignment row.
type Attributes struct {
	ID       string   // unique alignment identifier (e.g. "MP000001")
	Rank     int      // alignment rank for the query protein
	Identity float64  // fraction of identical residues
	Positive float64  // fraction of positive-scoring residues
	Target   []string // pipe-separated source protein descriptor
}

// Record represents a single miniprot GFF3 alignment row.
type Record struct {
	Chrom  string  // sequence ID (chromosome or scaffold name)
	Source string  // annotation source (e.g. "miniprot")
	Type   string  // feature type ("mRNA", "CDS", ...)
	Start  int64   // 1-based inclusive start
	End    int64   // 1-based inclusive end
	Score  float64 // miniprot alignment score
	Strand Strand
	Frame  string
	Attrs  Attributes
}

// Spidroin returns the spidroin type encoded in the target descriptor.
// Miniprot records the query protein name in the Target attribute; silkome
// database headers have the form "id|species|<spidroin>|<domain> start end",
// so the spidroin type is the second-to-last pipe field.
func (r *Record) Spidroin() string {
	n := len(r.Attrs.Target)
	if n < 2 {
		return ""
	}
	return r.Attrs.Target[n-2]
}

// Domain returns the terminal-domain tag from the target descriptor.
// The tag is the first word of the last pipe field.
func (r *Record) Domain() (Domain, error) {
	n := len(r.Attrs.Target)
	if n == 0 {
		return 0, fmt.Errorf("record %s: empty target descriptor", r.Attrs.ID)
	}
	tag := r.Attrs.Target[n-1]
	for i := 0; i < len(tag); i++ {
		if tag[i] == ' ' {
			tag = tag[:i]
			break
		}
	}
	return ParseDomain(tag)
}
