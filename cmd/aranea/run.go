package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/silkome/aranea/internal/pipeline"
	"github.com/silkome/aranea/internal/predict"
)

func newRunCmd() *cobra.Command {
	var (
		genomeDir string
		fasta     string
		outDir    string
		threads   int
		workers   int
		force     bool
		storePath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full curation pipeline over a directory of genomes",
		Long: `Run clusters the spidroin protein database with mmseqs, aligns the
representative sequences to each genome with miniprot, extracts the mRNA
alignment rows, and predicts spidroin genes per genome. Steps with existing
output files are skipped unless --force is given.

Requires mmseqs and miniprot on PATH.`,
		Example: `  aranea run --genomes data/spider_genomes --spidroin-fasta spidroins.fasta
  aranea run --genomes genomes/ --spidroin-fasta spidroins.fasta --out results/ --threads 16`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindThresholdFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(genomeDir, fasta, outDir, storePath, threads, workers, force)
		},
	}

	cmd.Flags().StringVar(&genomeDir, "genomes", "", "directory of genome FASTA files (.fa.gz)")
	cmd.Flags().StringVar(&fasta, "spidroin-fasta", "", "spidroin protein database FASTA (default: downloaded database)")
	cmd.Flags().StringVar(&outDir, "out", "aranea-out", "output directory")
	cmd.Flags().IntVar(&threads, "threads", runtime.NumCPU(), "threads for external tools")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent genome predictions (0 = all CPUs)")
	cmd.Flags().BoolVar(&force, "force", false, "re-run steps even when output files exist")
	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB store to record predictions in")

	_ = cmd.MarkFlagRequired("genomes")

	addThresholdFlags(cmd)

	return cmd
}

func runPipeline(genomeDir, fasta, outDir, storePath string, threads, workers int, force bool) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	if fasta == "" {
		fasta = DefaultDatabasePath()
		if _, err := os.Stat(fasta); err != nil {
			return fmt.Errorf("no spidroin database found; run 'aranea download' or pass --spidroin-fasta")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe := pipeline.New(threads)
	pipe.Force = force
	pipe.SetLogger(logger)

	// Step 1: cluster the spidroin database
	repSeq, err := pipe.ClusterSpidroins(ctx, fasta, filepath.Join(outDir, "mmseqs"))
	if err != nil {
		return err
	}
	query := pipe.RepresentativeFasta(repSeq)

	// Step 2: align to each genome and extract mRNA rows
	genomes, err := listGenomes(genomeDir)
	if err != nil {
		return err
	}
	if len(genomes) == 0 {
		return fmt.Errorf("no genome FASTA files found in %s", genomeDir)
	}
	logger.Info("processing genomes", zap.Int("count", len(genomes)))

	items := make(chan predict.WorkItem, len(genomes))
	seq := 0
	for _, genome := range genomes {
		name := pipeline.GenomeName(genome)

		index, err := pipe.IndexGenome(ctx, genome, filepath.Join(outDir, "genome_mpi"))
		if err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}

		gffPath, err := pipe.Align(ctx, index, query, filepath.Join(outDir, "miniprot", name))
		if err != nil {
			return fmt.Errorf("align %s: %w", name, err)
		}

		mrnaPath, err := pipe.ExtractMRNA(gffPath)
		if err != nil {
			return fmt.Errorf("extract mRNA %s: %w", name, err)
		}

		items <- predict.WorkItem{Seq: seq, Genome: name, GFFPath: mrnaPath}
		seq++
	}
	close(items)

	// Step 3: predict genes per genome
	pred := predict.NewPredictor(optionsFromConfig())
	pred.SetLogger(logger)

	finalDir := filepath.Join(outDir, "predictions")
	if err := os.MkdirAll(finalDir, 0755); err != nil {
		return fmt.Errorf("create predictions directory: %w", err)
	}

	results := pred.ParallelPredict(items, workers)
	return predict.OrderedCollect(results, func(r predict.WorkResult) error {
		if r.Err != nil {
			// Per-genome failures do not abort the batch.
			logger.Error("genome prediction failed",
				zap.String("genome", r.Genome),
				zap.Error(r.Err))
			return nil
		}

		gffOut := filepath.Join(finalDir, r.Genome+".gff")
		csvOut := filepath.Join(finalDir, r.Genome+".csv")
		if err := writeGeneSet(r.Genes, gffOut, csvOut); err != nil {
			return err
		}

		logger.Info("genome predicted",
			zap.String("genome", r.Genome),
			zap.Int("genes", len(r.Genes.Genes)),
			zap.Int("rejected", len(r.Genes.Rejected)))

		if storePath != "" {
			mrnaPath := filepath.Join(outDir, "miniprot", r.Genome, r.Genome+".mRNA.gff")
			if err := storeGeneSet(storePath, r.Genome, mrnaPath, r.Genes); err != nil {
				return err
			}
		}
		return nil
	})
}

// listGenomes returns the genome FASTA files in a directory.
func listGenomes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read genome directory: %w", err)
	}

	var genomes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".fa.gz") || strings.HasSuffix(name, ".fasta.gz") ||
			strings.HasSuffix(name, ".fa") || strings.HasSuffix(name, ".fasta") {
			genomes = append(genomes, filepath.Join(dir, name))
		}
	}
	return genomes, nil
}
