package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/silkome/aranea/internal/duckdb"
	"github.com/silkome/aranea/internal/output"
	"github.com/silkome/aranea/internal/predict"
)

func newPredictCmd() *cobra.Command {
	var (
		gffOut    string
		csvOut    string
		storePath string
		genome    string
	)

	cmd := &cobra.Command{
		Use:   "predict <alignment.gff>",
		Short: "Predict spidroin genes from a miniprot alignment GFF",
		Long: `Predict reads miniprot mRNA alignment records tagged with spidroin
terminal domains, infers candidate gene spans, validates them, and writes
the combined gene set as GFF3 and a CSV summary including rejections.`,
		Example: `  aranea predict genome1.mRNA.gff
  aranea predict --gff out.gff --csv out.csv genome1.mRNA.gff
  aranea predict --store ~/.aranea/predictions.duckdb genome1.mRNA.gff`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindThresholdFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(args[0], genome, gffOut, csvOut, storePath)
		},
	}

	cmd.Flags().StringVar(&gffOut, "gff", "", "GFF3 output file (default: <input>.combined.gff)")
	cmd.Flags().StringVar(&csvOut, "csv", "", "CSV summary output file (default: <input>.csv)")
	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB store to record predictions in")
	cmd.Flags().StringVar(&genome, "genome", "", "genome name for the store (default: derived from input filename)")

	addThresholdFlags(cmd)

	return cmd
}

// addThresholdFlags registers the inference threshold flags.
func addThresholdFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("min-length", 1000, "minimum accepted gene length (bp)")
	cmd.Flags().Int64("max-length", 100000, "maximum accepted gene length (bp)")
	cmd.Flags().Int64("extension-length", 10000, "extension past single-ended anchors (bp)")
	cmd.Flags().Float64("positive-threshold", 0.75, "minimum alignment positive score")
}

// bindThresholdFlags binds the running command's threshold flags to the
// config keys, so flag > config file > default. Binding happens at PreRun
// time because several commands share the same keys.
func bindThresholdFlags(cmd *cobra.Command) error {
	for key, flag := range map[string]string{
		"min_length":         "min-length",
		"max_length":         "max-length",
		"extension_length":   "extension-length",
		"positive_threshold": "positive-threshold",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func runPredict(inputPath, genome, gffOut, csvOut, storePath string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	pred := predict.NewPredictor(optionsFromConfig())
	pred.SetLogger(logger)

	genes, err := pred.PredictFile(inputPath)
	if err != nil {
		return err
	}

	if gffOut == "" {
		gffOut = strings.TrimSuffix(inputPath, ".gff") + ".combined.gff"
	}
	if csvOut == "" {
		csvOut = strings.TrimSuffix(inputPath, ".gff") + ".csv"
	}

	if err := writeGeneSet(genes, gffOut, csvOut); err != nil {
		return err
	}

	logger.Info("prediction complete",
		zap.String("gff", gffOut),
		zap.String("csv", csvOut),
		zap.Int("genes", len(genes.Genes)),
		zap.Int("rejected", len(genes.Rejected)))

	if storePath != "" {
		if genome == "" {
			genome = genomeFromPath(inputPath)
		}
		if err := storeGeneSet(storePath, genome, inputPath, genes); err != nil {
			return err
		}
		logger.Info("predictions stored",
			zap.String("store", storePath),
			zap.String("genome", genome))
	}

	return nil
}

// writeGeneSet writes the GFF3 and CSV outputs for one gene set.
func writeGeneSet(genes *predict.GeneSet, gffOut, csvOut string) error {
	gffFile, err := os.Create(gffOut)
	if err != nil {
		return fmt.Errorf("create gff output: %w", err)
	}
	defer gffFile.Close()

	if err := output.NewGFFWriter(gffFile).WriteGeneSet(genes); err != nil {
		return fmt.Errorf("write gff output: %w", err)
	}

	csvFile, err := os.Create(csvOut)
	if err != nil {
		return fmt.Errorf("create csv output: %w", err)
	}
	defer csvFile.Close()

	if err := output.NewCSVWriter(csvFile).WriteGeneSet(genes); err != nil {
		return fmt.Errorf("write csv output: %w", err)
	}

	return nil
}

// storeGeneSet records a gene set and its provenance in the DuckDB store.
func storeGeneSet(storePath, genome, inputPath string, genes *predict.GeneSet) error {
	store, err := duckdb.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteGeneSet(genome, genes); err != nil {
		return err
	}

	fp, err := duckdb.StatFile(inputPath)
	if err != nil {
		return fmt.Errorf("stat alignment file: %w", err)
	}
	return store.RecordRun(genome, fp, len(genes.Genes), len(genes.Rejected))
}

// genomeFromPath derives a genome name from an alignment filename.
func genomeFromPath(path string) string {
	name := path
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
