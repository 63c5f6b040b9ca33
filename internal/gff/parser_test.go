package gff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureGFF = `##gff-version 3
##PAF	silkome-123	129	0	129	+	Chr1	100000	12344	13000
Chr1	miniprot	mRNA	12345	13000	610	+	.	ID=MP000001;Rank=1;Identity=0.9812;Positive=0.9900;Target=silkome-123|Trichonephila_clavata|MaSp1|NTD 1 129
Chr1	miniprot	CDS	12345	13000	610	+	0	ID=MP000001.cds;Parent=MP000001
Chr1	miniprot	mRNA	67500	67890	598	+	.	ID=MP000002;Rank=1;Identity=0.9710;Positive=0.9850;Target=silkome-456|Trichonephila_clavata|MaSp1|CTD 1 110
Chr2	miniprot	mRNA	5000	5400	320	-	.	ID=MP000003;Rank=2;Identity=0.8100;Positive=0.8600;Target=silkome-789|Araneus_ventricosus|MiSp|NTD 3 120
`

func TestParserNext(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(fixtureGFF))

	var records []*Record
	for {
		r, err := p.Next()
		require.NoError(t, err)
		if r == nil {
			break
		}
		records = append(records, r)
	}

	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, "Chr1", first.Chrom)
	assert.Equal(t, "miniprot", first.Source)
	assert.Equal(t, "mRNA", first.Type)
	assert.Equal(t, int64(12345), first.Start)
	assert.Equal(t, int64(13000), first.End)
	assert.Equal(t, StrandPlus, first.Strand)
	assert.Equal(t, "MP000001", first.Attrs.ID)
	assert.Equal(t, 1, first.Attrs.Rank)
	assert.InDelta(t, 0.9812, first.Attrs.Identity, 1e-9)
	assert.InDelta(t, 0.99, first.Attrs.Positive, 1e-9)
	assert.Equal(t, "MaSp1", first.Spidroin())

	d, err := first.Domain()
	require.NoError(t, err)
	assert.Equal(t, DomainNTD, d)

	// CDS row is returned too; filtering is the caller's concern
	assert.Equal(t, "CDS", records[1].Type)

	minus := records[3]
	assert.Equal(t, StrandMinus, minus.Strand)
	assert.Equal(t, "MiSp", minus.Spidroin())
}

func TestParserMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{
			name: "too few columns",
			line: "Chr1\tminiprot\tmRNA\t100\t200",
		},
		{
			name: "bad start",
			line: "Chr1\tminiprot\tmRNA\txyz\t200\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2",
		},
		{
			name: "bad end",
			line: "Chr1\tminiprot\tmRNA\t100\txyz\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2",
		},
		{
			name: "zero start",
			line: "Chr1\tminiprot\tmRNA\t0\t200\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2",
		},
		{
			name: "start after end",
			line: "Chr1\tminiprot\tmRNA\t300\t200\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2",
		},
		{
			name: "unknown strand",
			line: "Chr1\tminiprot\tmRNA\t100\t200\t.\t?\t.\tID=MP1;Target=a|b|NTD 1 2",
		},
		{
			name: "missing ID",
			line: "Chr1\tminiprot\tmRNA\t100\t200\t.\t+\t.\tRank=1;Target=a|b|NTD 1 2",
		},
		{
			name: "bad rank",
			line: "Chr1\tminiprot\tmRNA\t100\t200\t.\t+\t.\tID=MP1;Rank=one;Target=a|b|NTD 1 2",
		},
		{
			name: "bad positive",
			line: "Chr1\tminiprot\tmRNA\t100\t200\t.\t+\t.\tID=MP1;Positive=high;Target=a|b|NTD 1 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParserFromReader(strings.NewReader(tt.line + "\n"))
			_, err := p.Next()
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 1, perr.Line)
		})
	}
}

func TestParserRecoversAfterMalformedLine(t *testing.T) {
	content := "Chr1\tminiprot\tmRNA\tbad\t200\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2\n" +
		"Chr1\tminiprot\tmRNA\t100\t200\t.\t+\t.\tID=MP2;Target=a|b|NTD 1 2\n"

	p := NewParserFromReader(strings.NewReader(content))

	_, err := p.Next()
	require.Error(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "MP2", r.Attrs.ID)

	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParserNoTrailingNewline(t *testing.T) {
	content := "Chr1\tminiprot\tmRNA\t100\t200\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2"

	p := NewParserFromReader(strings.NewReader(content))

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "MP1", r.Attrs.ID)

	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParserEmptyInput(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(""))
	r, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)

	p = NewParserFromReader(strings.NewReader("# only comments\n\n"))
	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParseAttributes(t *testing.T) {
	attrs, err := parseAttributes("ID=MP000001;Rank=1;Identity=0.9812;Positive=0.9900;Target=a|Species|MaSp1|NTD 1 129")
	require.NoError(t, err)

	assert.Equal(t, "MP000001", attrs.ID)
	assert.Equal(t, 1, attrs.Rank)
	assert.InDelta(t, 0.9812, attrs.Identity, 1e-9)
	assert.InDelta(t, 0.99, attrs.Positive, 1e-9)
	assert.Equal(t, []string{"a", "Species", "MaSp1", "NTD 1 129"}, attrs.Target)
}
