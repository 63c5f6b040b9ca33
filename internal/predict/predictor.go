package predict

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/silkome/aranea/internal/gff"
)

// Predictor runs the full inference flow from alignment records to a
// combined gene set.
type Predictor struct {
	opts   Options
	logger *zap.Logger
}

// NewPredictor creates a predictor with the given thresholds.
func NewPredictor(opts Options) *Predictor {
	return &Predictor{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for per-record diagnostics.
func (p *Predictor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Options returns the thresholds the predictor was built with.
func (p *Predictor) Options() Options {
	return p.opts
}

// Collect reads all mRNA alignment records from a parser, grouped by
// spidroin type. Malformed rows are skipped and reported individually;
// they never abort the run.
func (p *Predictor) Collect(parser *gff.Parser) (map[string][]*gff.Record, error) {
	byType := make(map[string][]*gff.Record)
	skipped := 0

	for {
		r, err := parser.Next()
		if err != nil {
			var perr *gff.ParseError
			if errors.As(err, &perr) {
				skipped++
				p.logger.Warn("skipping malformed alignment record",
					zap.Int("line", perr.Line),
					zap.String("reason", perr.Message))
				continue
			}
			return nil, fmt.Errorf("read alignment records: %w", err)
		}
		if r == nil {
			break
		}

		if r.Type != "mRNA" {
			continue
		}

		byType[r.Spidroin()] = append(byType[r.Spidroin()], r)
	}

	if skipped > 0 {
		p.logger.Info("skipped malformed records", zap.Int("count", skipped))
	}

	return byType, nil
}

// Candidates runs classification, aggregation, assembly and validation for
// the records of one spidroin type. Records below the positive threshold
// are filtered out; invalid records are skipped and reported.
func (p *Predictor) Candidates(records []*gff.Record, spidroin string) []*Candidate {
	var hits []*Hit
	for _, r := range records {
		if r.Attrs.Positive < p.opts.PositiveThreshold {
			continue
		}

		h, err := HitFromRecord(r)
		if err != nil {
			p.logger.Warn("skipping invalid alignment record",
				zap.String("spidroin", spidroin),
				zap.Error(err))
			continue
		}
		hits = append(hits, h)
	}

	groups, err := Aggregate(hits)
	if err != nil {
		// Unreachable after HitFromRecord validation, but a refactor could
		// expose it; treat as an empty evidence set rather than aborting.
		p.logger.Warn("aggregation failed", zap.String("spidroin", spidroin), zap.Error(err))
		return nil
	}

	var candidates []*Candidate
	for _, g := range groups {
		candidates = append(candidates, Assemble(g, spidroin, p.opts)...)
	}

	ValidateAll(candidates, p.opts)
	return candidates
}

// Predict combines candidates across all spidroin types into one gene set.
// Completely empty input yields an empty gene set, not an error, so batch
// runs over many genomes continue.
func (p *Predictor) Predict(byType map[string][]*gff.Record) *GeneSet {
	// Deterministic spidroin order
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	var candidates []*Candidate
	for _, t := range types {
		cs := p.Candidates(byType[t], t)
		p.logger.Debug("assembled candidates",
			zap.String("spidroin", t),
			zap.Int("count", len(cs)))
		candidates = append(candidates, cs...)
	}

	gs := Combine(candidates)

	if len(gs.Genes) == 0 {
		p.logger.Warn("no valid gene predictions",
			zap.Int("rejected", len(gs.Rejected)))
	} else {
		p.logger.Info("combined gene predictions",
			zap.Int("genes", len(gs.Genes)),
			zap.Int("rejected", len(gs.Rejected)))
	}

	return gs
}

// PredictFile parses a miniprot GFF file and predicts genes from it.
func (p *Predictor) PredictFile(path string) (*GeneSet, error) {
	parser, err := gff.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	byType, err := p.Collect(parser)
	if err != nil {
		return nil, err
	}

	return p.Predict(byType), nil
}
