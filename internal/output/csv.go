package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/silkome/aranea/internal/predict"
)

// CSVWriter writes a tabular summary of all candidates, accepted and
// rejected, for diagnostic review.
type CSVWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewCSVWriter creates a CSV summary writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"gene_id",
			"chr",
			"strand",
			"spidroin",
			"start_position",
			"start_count",
			"end_position",
			"end_count",
			"length",
			"valid",
			"reason",
		},
	}
}

// WriteHeader writes the column header line.
func (cw *CSVWriter) WriteHeader() error {
	_, err := cw.w.WriteString(strings.Join(cw.columns, ",") + "\n")
	return err
}

// WriteGene writes an accepted gene with its identifier.
func (cw *CSVWriter) WriteGene(g predict.Gene) error {
	return cw.writeRow(g.ID, g.Candidate)
}

// WriteRejection writes a rejected candidate. Rejections carry no gene
// identifier; the reason column explains the rejection.
func (cw *CSVWriter) WriteRejection(c *predict.Candidate) error {
	return cw.writeRow("", c)
}

func (cw *CSVWriter) writeRow(id string, c *predict.Candidate) error {
	values := []string{
		id,
		c.Chrom,
		c.Strand.String(),
		c.Spidroin,
		fmt.Sprintf("%d", c.Start),
		fmt.Sprintf("%d", c.StartSupport),
		fmt.Sprintf("%d", c.End),
		fmt.Sprintf("%d", c.EndSupport),
		fmt.Sprintf("%d", c.Length()),
		fmt.Sprintf("%t", c.Valid),
		string(c.Reason),
	}

	_, err := cw.w.WriteString(strings.Join(values, ",") + "\n")
	return err
}

// WriteGeneSet writes the header, all accepted genes, then all rejected
// candidates.
func (cw *CSVWriter) WriteGeneSet(gs *predict.GeneSet) error {
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, g := range gs.Genes {
		if err := cw.WriteGene(g); err != nil {
			return err
		}
	}
	for _, c := range gs.Rejected {
		if err := cw.WriteRejection(c); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	return cw.w.Flush()
}
