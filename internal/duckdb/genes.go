package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/silkome/aranea/internal/gff"
	"github.com/silkome/aranea/internal/predict"
)

// GeneRecord holds one stored gene prediction with its genome of origin.
type GeneRecord struct {
	Genome string
	Gene   predict.Gene
}

// WriteGeneSet batch-inserts a genome's gene set into DuckDB using the
// Appender API. Previous rows for the same genome are removed first so the
// store always reflects the latest run.
func (s *Store) WriteGeneSet(genome string, gs *predict.GeneSet) error {
	if err := s.DeleteGenome(genome); err != nil {
		return err
	}

	if len(gs.Genes) > 0 {
		if err := s.appendGenes(genome, gs.Genes); err != nil {
			return err
		}
	}

	for _, c := range gs.Rejected {
		if _, err := s.db.Exec(
			`INSERT INTO rejected_candidates VALUES (?, ?, ?, ?, ?, ?, ?)`,
			genome, c.Chrom, c.Strand.String(), c.Start, c.End, c.Spidroin, string(c.Reason),
		); err != nil {
			return fmt.Errorf("insert rejected candidate: %w", err)
		}
	}

	return nil
}

// appendGenes writes accepted genes through the DuckDB Appender.
func (s *Store) appendGenes(genome string, genes []predict.Gene) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "gene_predictions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, g := range genes {
		if err := appender.AppendRow(
			genome, g.ID, g.Chrom, g.Strand.String(),
			g.Start, g.End, g.Spidroin,
			int32(g.StartSupport), int32(g.EndSupport), g.Length(),
		); err != nil {
			return fmt.Errorf("append gene prediction: %w", err)
		}
	}

	return appender.Flush()
}

// DeleteGenome removes all stored rows for a genome.
func (s *Store) DeleteGenome(genome string) error {
	if _, err := s.db.Exec("DELETE FROM gene_predictions WHERE genome=?", genome); err != nil {
		return fmt.Errorf("delete gene predictions: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM rejected_candidates WHERE genome=?", genome); err != nil {
		return fmt.Errorf("delete rejected candidates: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE genome=?", genome); err != nil {
		return fmt.Errorf("delete run record: %w", err)
	}
	return nil
}

// SearchBySpidroin returns all stored predictions of one spidroin type,
// across all genomes.
func (s *Store) SearchBySpidroin(spidroin string) ([]GeneRecord, error) {
	rows, err := s.db.Query(`SELECT
		genome, gene_id, chrom, strand, start_pos, end_pos,
		spidroin, start_count, end_count
		FROM gene_predictions
		WHERE spidroin=?
		ORDER BY genome, gene_id`, spidroin)
	if err != nil {
		return nil, fmt.Errorf("query by spidroin: %w", err)
	}
	defer rows.Close()

	return scanGeneRecords(rows)
}

// SearchByRegion returns stored predictions for a genome overlapping the
// given region.
func (s *Store) SearchByRegion(genome, chrom string, start, end int64) ([]GeneRecord, error) {
	rows, err := s.db.Query(`SELECT
		genome, gene_id, chrom, strand, start_pos, end_pos,
		spidroin, start_count, end_count
		FROM gene_predictions
		WHERE genome=? AND chrom=? AND start_pos<=? AND end_pos>=?
		ORDER BY start_pos`, genome, chrom, end, start)
	if err != nil {
		return nil, fmt.Errorf("query by region: %w", err)
	}
	defer rows.Close()

	return scanGeneRecords(rows)
}

// GenomeGenes returns all stored predictions for one genome in gene-id order.
func (s *Store) GenomeGenes(genome string) ([]GeneRecord, error) {
	rows, err := s.db.Query(`SELECT
		genome, gene_id, chrom, strand, start_pos, end_pos,
		spidroin, start_count, end_count
		FROM gene_predictions
		WHERE genome=?
		ORDER BY gene_id`, genome)
	if err != nil {
		return nil, fmt.Errorf("query genome genes: %w", err)
	}
	defer rows.Close()

	return scanGeneRecords(rows)
}

// scanGeneRecords scans rows into GeneRecord slices.
func scanGeneRecords(rows *sql.Rows) ([]GeneRecord, error) {
	var records []GeneRecord
	for rows.Next() {
		var (
			rec        GeneRecord
			c          predict.Candidate
			id, strand string
		)
		if err := rows.Scan(
			&rec.Genome, &id, &c.Chrom, &strand, &c.Start, &c.End,
			&c.Spidroin, &c.StartSupport, &c.EndSupport,
		); err != nil {
			return nil, fmt.Errorf("scan gene prediction: %w", err)
		}

		st, err := gff.ParseStrand(strand)
		if err != nil {
			return nil, fmt.Errorf("stored strand: %w", err)
		}
		c.Strand = st
		c.Valid = true

		rec.Gene = predict.Gene{ID: id, Candidate: &c}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene predictions: %w", err)
	}
	return records, nil
}

// Rejection holds one stored rejection record.
type Rejection struct {
	Genome   string
	Chrom    string
	Strand   string
	Start    int64
	End      int64
	Spidroin string
	Reason   string
}

// GenomeRejections returns the rejection records for one genome.
func (s *Store) GenomeRejections(genome string) ([]Rejection, error) {
	rows, err := s.db.Query(`SELECT
		genome, chrom, strand, start_pos, end_pos, spidroin, reason
		FROM rejected_candidates
		WHERE genome=?
		ORDER BY chrom, start_pos`, genome)
	if err != nil {
		return nil, fmt.Errorf("query rejections: %w", err)
	}
	defer rows.Close()

	var rejections []Rejection
	for rows.Next() {
		var r Rejection
		if err := rows.Scan(&r.Genome, &r.Chrom, &r.Strand, &r.Start, &r.End, &r.Spidroin, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		rejections = append(rejections, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rejections: %w", err)
	}
	return rejections, nil
}
