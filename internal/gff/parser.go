package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parser reads alignment records from a miniprot GFF3 file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a new GFF parser for the given file.
// Supports both plain and gzipped (.gff.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gff file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read gff header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek gff file: %w", err)
	}

	// Gzip magic number (0x1f, 0x8b)
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g. stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next alignment record from the file.
// Comment lines are skipped. Returns nil, nil when there are no more records.
// Malformed rows return a *ParseError; callers may skip them and continue.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if line == "" {
					return nil, nil
				}
				// Final line without trailing newline
			} else {
				return nil, fmt.Errorf("read gff line: %w", err)
			}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single GFF3 data line into a Record.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected 9 columns, found %d", len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid start: %s", fields[3]),
		}
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid end: %s", fields[4]),
		}
	}

	if start <= 0 || end <= 0 || start > end {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid coordinates %d-%d", start, end),
		}
	}

	strand, err := ParseStrand(fields[6])
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: err.Error(),
		}
	}

	score := 0.0
	if fields[5] != "." {
		score, _ = strconv.ParseFloat(fields[5], 64)
	}

	attrs, err := parseAttributes(fields[8])
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: err.Error(),
		}
	}

	return &Record{
		Chrom:  fields[0],
		Source: fields[1],
		Type:   fields[2],
		Start:  start,
		End:    end,
		Score:  score,
		Strand: strand,
		Frame:  fields[7],
		Attrs:  attrs,
	}, nil
}

// parseAttributes parses the GFF3 attribute column.
// Format: ID=value;Rank=value;...;Target=value
func parseAttributes(attrStr string) (Attributes, error) {
	kv := make(map[string]string)
	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, "=")
		if idx == -1 {
			continue
		}
		kv[part[:idx]] = part[idx+1:]
	}

	attrs := Attributes{ID: kv["ID"]}
	if attrs.ID == "" {
		return attrs, fmt.Errorf("missing ID attribute")
	}

	if v, ok := kv["Rank"]; ok {
		rank, err := strconv.Atoi(v)
		if err != nil {
			return attrs, fmt.Errorf("invalid Rank: %s", v)
		}
		attrs.Rank = rank
	}

	if v, ok := kv["Identity"]; ok {
		identity, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return attrs, fmt.Errorf("invalid Identity: %s", v)
		}
		attrs.Identity = identity
	}

	if v, ok := kv["Positive"]; ok {
		positive, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return attrs, fmt.Errorf("invalid Positive: %s", v)
		}
		attrs.Positive = positive
	}

	if v, ok := kv["Target"]; ok {
		attrs.Target = strings.Split(v, "|")
	}

	return attrs, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during GFF parsing with line context.
// Rows that fail to parse are recoverable: the caller can report the row
// and continue with the next one.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gff parse error at line %d: %s", e.Line, e.Message)
}
