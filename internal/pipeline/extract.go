package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// mrnaLine is one retained alignment row with its sort keys.
type mrnaLine struct {
	chrom string
	start int64
	text  string
}

// ExtractMRNA filters a miniprot GFF file down to its mRNA rows, sorted by
// chromosome and start, and writes them next to the input with a
// ".mRNA.gff" suffix. The mRNA rows carry the alignment-level metadata
// (rank, identity, positive score, target descriptor) that boundary
// inference needs; CDS and intron rows are dropped.
func (p *Pipeline) ExtractMRNA(gffPath string) (string, error) {
	outPath := strings.TrimSuffix(gffPath, ".gff") + ".mRNA.gff"
	if p.skip(outPath) {
		return outPath, nil
	}

	in, err := os.Open(gffPath)
	if err != nil {
		return "", fmt.Errorf("open alignment gff: %w", err)
	}
	defer in.Close()

	var lines []mrnaLine

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 5 || fields[2] != "mRNA" {
			continue
		}

		start, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}

		lines = append(lines, mrnaLine{chrom: fields[0], start: start, text: line})
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan alignment gff: %w", err)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].chrom != lines[j].chrom {
			return lines[i].chrom < lines[j].chrom
		}
		return lines[i].start < lines[j].start
	})

	out, err := os.Create(outPath + ".tmp")
	if err != nil {
		return "", fmt.Errorf("create mRNA gff: %w", err)
	}

	w := bufio.NewWriter(out)
	for _, l := range lines {
		if _, err := w.WriteString(l.text + "\n"); err != nil {
			out.Close()
			os.Remove(outPath + ".tmp")
			return "", fmt.Errorf("write mRNA gff: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(outPath + ".tmp")
		return "", fmt.Errorf("flush mRNA gff: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close mRNA gff: %w", err)
	}

	if err := os.Rename(outPath+".tmp", outPath); err != nil {
		return "", fmt.Errorf("rename mRNA gff: %w", err)
	}

	p.logger.Info("extracted mRNA rows",
		zap.String("output", outPath),
		zap.Int("rows", len(lines)))

	return outPath, nil
}
