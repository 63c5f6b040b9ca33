package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/silkome/aranea/internal/duckdb"
)

func newQueryCmd() *cobra.Command {
	var (
		storePath  string
		spidroin   string
		genome     string
		region     string
		rejections bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query stored gene predictions",
		Long: `Query searches the DuckDB prediction store written by 'predict --store'
or 'run --store'. Predictions can be filtered by spidroin type across all
genomes, or by genome and genomic region.`,
		Example: `  aranea query --store predictions.duckdb --spidroin MaSp1
  aranea query --store predictions.duckdb --genome Tclavata --region Chr3:1000000-2000000
  aranea query --store predictions.duckdb --genome Tclavata --rejections`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(storePath, spidroin, genome, region, rejections)
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB store path")
	cmd.Flags().StringVar(&spidroin, "spidroin", "", "filter by spidroin type")
	cmd.Flags().StringVar(&genome, "genome", "", "filter by genome name")
	cmd.Flags().StringVar(&region, "region", "", "filter by region (chrom:start-end, requires --genome)")
	cmd.Flags().BoolVar(&rejections, "rejections", false, "show rejection records instead of genes")

	_ = cmd.MarkFlagRequired("store")

	return cmd
}

func runQuery(storePath, spidroin, genome, region string, rejections bool) error {
	store, err := duckdb.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if rejections {
		if genome == "" {
			return fmt.Errorf("--rejections requires --genome")
		}
		return printRejections(store, genome)
	}

	var records []duckdb.GeneRecord
	switch {
	case region != "":
		if genome == "" {
			return fmt.Errorf("--region requires --genome")
		}
		chrom, start, end, err := parseRegion(region)
		if err != nil {
			return err
		}
		records, err = store.SearchByRegion(genome, chrom, start, end)
		if err != nil {
			return err
		}
	case spidroin != "":
		records, err = store.SearchBySpidroin(spidroin)
		if err != nil {
			return err
		}
	case genome != "":
		records, err = store.GenomeGenes(genome)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("specify --spidroin, --genome, or --region")
	}

	return printGeneRecords(records)
}

func printGeneRecords(records []duckdb.GeneRecord) error {
	if len(records) == 0 {
		fmt.Println("No predictions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GENOME\tGENE\tCHROM\tSTRAND\tSTART\tEND\tSPIDROIN\tSUPPORT")
	for _, r := range records {
		g := r.Gene
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%d/%d\n",
			r.Genome, g.ID, g.Chrom, g.Strand.String(),
			g.Start, g.End, g.Spidroin, g.StartSupport, g.EndSupport)
	}
	return w.Flush()
}

func printRejections(store *duckdb.Store, genome string) error {
	rejections, err := store.GenomeRejections(genome)
	if err != nil {
		return err
	}
	if len(rejections) == 0 {
		fmt.Println("No rejections recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GENOME\tCHROM\tSTRAND\tSTART\tEND\tSPIDROIN\tREASON")
	for _, r := range rejections {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Genome, r.Chrom, r.Strand, r.Start, r.End, r.Spidroin, r.Reason)
	}
	return w.Flush()
}

// parseRegion parses a "chrom:start-end" region string.
func parseRegion(region string) (string, int64, int64, error) {
	idx := strings.LastIndex(region, ":")
	if idx == -1 {
		return "", 0, 0, fmt.Errorf("invalid region %q, expected chrom:start-end", region)
	}
	chrom := region[:idx]

	parts := strings.SplitN(region[idx+1:], "-", 2)
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("invalid region %q, expected chrom:start-end", region)
	}

	start, err := strconv.ParseInt(strings.ReplaceAll(parts[0], ",", ""), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid region start: %s", parts[0])
	}
	end, err := strconv.ParseInt(strings.ReplaceAll(parts[1], ",", ""), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid region end: %s", parts[1])
	}
	if start > end {
		return "", 0, 0, fmt.Errorf("invalid region: start %d after end %d", start, end)
	}

	return chrom, start, end, nil
}
