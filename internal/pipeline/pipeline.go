// Package pipeline drives the external tools of the curation run:
// mmseqs clustering of the spidroin database and miniprot alignment of the
// representative proteins to each genome. The boundary inference itself
// lives in internal/predict; this package only produces its input.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Pipeline invokes mmseqs and miniprot and tracks their output files.
// Steps whose output already exists are skipped unless Force is set,
// so interrupted batch runs resume cheaply.
type Pipeline struct {
	Mmseqs   string // mmseqs executable (default "mmseqs")
	Miniprot string // miniprot executable (default "miniprot")
	Threads  int
	Force    bool

	logger *zap.Logger
}

// New creates a pipeline with default executable names.
func New(threads int) *Pipeline {
	return &Pipeline{
		Mmseqs:   "mmseqs",
		Miniprot: "miniprot",
		Threads:  threads,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for step progress and timing.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// ClusterSpidroins runs redundancy clustering over the spidroin protein
// database and returns the representative-sequence FASTA path.
func (p *Pipeline) ClusterSpidroins(ctx context.Context, fasta, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create cluster directory: %w", err)
	}

	prefix := filepath.Join(outDir, baseName(fasta))
	repSeq := prefix + "_rep_seq.fasta"

	if p.skip(repSeq) {
		return repSeq, nil
	}

	args := clusterArgs(fasta, prefix, filepath.Join(outDir, "tmp"))
	if err := p.run(ctx, p.Mmseqs, args); err != nil {
		return "", fmt.Errorf("mmseqs clustering: %w", err)
	}

	return repSeq, nil
}

// RepresentativeFasta returns the manually curated representative file if
// one exists next to the clustered output, otherwise the clustered output
// itself. Curators can edit the clustering result and save it with a
// "_manually" suffix to override it.
func (p *Pipeline) RepresentativeFasta(repSeq string) string {
	manual := strings.TrimSuffix(repSeq, ".fasta") + "_manually.fasta"
	if _, err := os.Stat(manual); err == nil {
		p.logger.Info("using manually curated representatives", zap.String("path", manual))
		return manual
	}
	p.logger.Info("no manually curated representatives found, using clustering result",
		zap.String("path", repSeq))
	return repSeq
}

// IndexGenome builds a miniprot index for a genome and returns its path.
func (p *Pipeline) IndexGenome(ctx context.Context, genome, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create index directory: %w", err)
	}

	index := filepath.Join(outDir, GenomeName(genome)+".mpi")
	if p.skip(index) {
		return index, nil
	}

	if err := p.run(ctx, p.Miniprot, indexArgs(genome, index, p.Threads)); err != nil {
		return "", fmt.Errorf("miniprot indexing: %w", err)
	}

	return index, nil
}

// Align aligns the query proteins against an indexed genome and returns the
// GFF output path.
func (p *Pipeline) Align(ctx context.Context, index, query, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create alignment directory: %w", err)
	}

	gffPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(index), ".mpi")+".gff")
	if p.skip(gffPath) {
		return gffPath, nil
	}

	out, err := os.Create(gffPath + ".tmp")
	if err != nil {
		return "", fmt.Errorf("create alignment output: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Miniprot, alignArgs(index, query, p.Threads)...)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	start := time.Now()
	p.logger.Info("running command", zap.String("cmd", cmdString(cmd)))
	err = cmd.Run()
	out.Close()
	if err != nil {
		os.Remove(gffPath + ".tmp")
		return "", fmt.Errorf("miniprot alignment: %w", err)
	}

	if err := os.Rename(gffPath+".tmp", gffPath); err != nil {
		return "", fmt.Errorf("rename alignment output: %w", err)
	}

	p.logger.Info("alignment completed",
		zap.String("output", gffPath),
		zap.Duration("elapsed", time.Since(start)))

	return gffPath, nil
}

// run executes an external command with logging and timing.
func (p *Pipeline) run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	start := time.Now()
	p.logger.Info("running command", zap.String("cmd", cmdString(cmd)))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	p.logger.Info("command completed",
		zap.String("cmd", name),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// skip reports whether a step's output already exists and may be reused.
func (p *Pipeline) skip(output string) bool {
	if p.Force {
		return false
	}
	if _, err := os.Stat(output); err == nil {
		p.logger.Info("output exists, skipping step", zap.String("path", output))
		return true
	}
	return false
}

// clusterArgs builds the mmseqs easy-cluster argument list.
// min-seq-id 0.9 with coverage 0.8 in cov-mode 1 collapses near-identical
// database entries while keeping distinct spidroin variants.
func clusterArgs(fasta, prefix, tmpDir string) []string {
	return []string{
		"easy-cluster", fasta, prefix, tmpDir,
		"--min-seq-id", "0.9",
		"-c", "0.8",
		"--cov-mode", "1",
	}
}

// indexArgs builds the miniprot indexing argument list.
func indexArgs(genome, index string, threads int) []string {
	return []string{
		fmt.Sprintf("-t%d", threads),
		"-d", index,
		genome,
	}
}

// alignArgs builds the miniprot alignment argument list. -I caps intron
// length from the query length; --gff selects GFF3 output.
func alignArgs(index, query string, threads int) []string {
	return []string{
		"-t", fmt.Sprintf("%d", threads),
		"-I",
		"--gff",
		index,
		query,
	}
}

// GenomeName derives the genome name from its FASTA filename.
func GenomeName(genome string) string {
	name := filepath.Base(genome)
	for _, suffix := range []string{".fa.gz", ".fasta.gz", ".fa", ".fasta"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

func baseName(path string) string {
	name := filepath.Base(path)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

func cmdString(cmd *exec.Cmd) string {
	return strings.Join(append([]string{cmd.Path}, cmd.Args[1:]...), " ")
}
