// Package output provides gene-prediction output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/silkome/aranea/internal/predict"
)

// GFFWriter writes accepted gene predictions as GFF3 gene features.
type GFFWriter struct {
	w      *bufio.Writer
	source string
}

// NewGFFWriter creates a GFF3 writer. The source column records the
// alignment tool that produced the evidence.
func NewGFFWriter(w io.Writer) *GFFWriter {
	return &GFFWriter{
		w:      bufio.NewWriter(w),
		source: "miniprot",
	}
}

// WriteHeader writes the GFF3 version pragma.
func (gw *GFFWriter) WriteHeader() error {
	_, err := gw.w.WriteString("##gff-version 3\n")
	return err
}

// Write writes a single gene prediction.
func (gw *GFFWriter) Write(g predict.Gene) error {
	// Boundary support doubles as the feature score.
	score := g.StartSupport + g.EndSupport

	attrs := fmt.Sprintf("ID=%s;spidroin=%s;length=%d;start_count=%d;end_count=%d",
		g.ID, g.Spidroin, g.Length(), g.StartSupport, g.EndSupport)
	if g.StartSupport == 0 {
		attrs += ";note=no_start"
	} else if g.EndSupport == 0 {
		attrs += ";note=no_end"
	}

	fields := []string{
		g.Chrom,
		gw.source,
		"gene",
		fmt.Sprintf("%d", g.Start),
		fmt.Sprintf("%d", g.End),
		fmt.Sprintf("%d", score),
		g.Strand.String(),
		".",
		attrs,
	}

	_, err := gw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteGeneSet writes the header and every gene in the set.
func (gw *GFFWriter) WriteGeneSet(gs *predict.GeneSet) error {
	if err := gw.WriteHeader(); err != nil {
		return err
	}
	for _, g := range gs.Genes {
		if err := gw.Write(g); err != nil {
			return err
		}
	}
	return gw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (gw *GFFWriter) Flush() error {
	return gw.w.Flush()
}
