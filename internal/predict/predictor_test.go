package predict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silkome/aranea/internal/gff"
)

const fixtureAlignments = `##gff-version 3
Chr1	miniprot	mRNA	12345	13000	610	+	.	ID=MP000001;Rank=1;Identity=0.9812;Positive=0.9900;Target=silkome-123|Trichonephila_clavata|MaSp1|NTD 1 129
Chr1	miniprot	CDS	12345	13000	610	+	0	ID=MP000001.cds;Parent=MP000001
Chr1	miniprot	mRNA	12345	12980	602	+	.	ID=MP000002;Rank=1;Identity=0.9650;Positive=0.9800;Target=silkome-124|Trichonephila_clavatoides|MaSp1|NTD 1 129
Chr1	miniprot	mRNA	67500	67890	598	+	.	ID=MP000003;Rank=1;Identity=0.9710;Positive=0.9850;Target=silkome-456|Trichonephila_clavata|MaSp1|CTD 1 110
Chr1	miniprot	mRNA	40000	40400	120	+	.	ID=MP000004;Rank=3;Identity=0.5100;Positive=0.6200;Target=silkome-999|Araneus_ventricosus|MaSp1|NTD 4 110
Chr2	miniprot	mRNA	5000	5400	320	-	.	ID=MP000005;Rank=1;Identity=0.9100;Positive=0.9300;Target=silkome-789|Araneus_ventricosus|MiSp|CTD 3 120
Chr2	miniprot	mRNA	52000	52400	330	-	.	ID=MP000006;Rank=1;Identity=0.9200;Positive=0.9400;Target=silkome-790|Araneus_ventricosus|MiSp|NTD 1 120
`

func collectFixture(t *testing.T, p *Predictor, content string) map[string][]*gff.Record {
	t.Helper()
	parser := gff.NewParserFromReader(strings.NewReader(content))
	byType, err := p.Collect(parser)
	require.NoError(t, err)
	return byType
}

func TestPredictorCollect(t *testing.T) {
	p := NewPredictor(DefaultOptions())
	byType := collectFixture(t, p, fixtureAlignments)

	// Grouped by spidroin type; CDS rows are dropped
	require.Len(t, byType, 2)
	assert.Len(t, byType["MaSp1"], 4)
	assert.Len(t, byType["MiSp"], 2)
}

func TestPredictorCollectSkipsMalformed(t *testing.T) {
	content := "Chr1\tminiprot\tmRNA\tbad\t200\t.\t+\t.\tID=MP1;Target=a|b|NTD 1 2\n" +
		"Chr1\tminiprot\tmRNA\t100\t200\t.\t+\t.\tID=MP2;Positive=0.99;Target=a|sp|MaSp1|NTD 1 2\n"

	p := NewPredictor(DefaultOptions())
	byType := collectFixture(t, p, content)

	require.Len(t, byType["MaSp1"], 1)
	assert.Equal(t, "MP2", byType["MaSp1"][0].Attrs.ID)
}

func TestPredictorCandidatesQualityFilter(t *testing.T) {
	p := NewPredictor(DefaultOptions())
	byType := collectFixture(t, p, fixtureAlignments)

	candidates := p.Candidates(byType["MaSp1"], "MaSp1")
	require.Len(t, candidates, 1)

	// The Positive=0.62 hit at 40000 is below the 0.75 threshold; had it
	// survived it would sit inside the span and flag a conflict.
	c := candidates[0]
	assert.Equal(t, int64(12345), c.Start)
	assert.Equal(t, int64(67890), c.End)
	assert.Equal(t, 2, c.StartSupport)
	assert.Equal(t, 1, c.EndSupport)
	assert.True(t, c.Valid)
}

func TestPredictorPredict(t *testing.T) {
	p := NewPredictor(DefaultOptions())
	byType := collectFixture(t, p, fixtureAlignments)

	gs := p.Predict(byType)
	require.Len(t, gs.Genes, 2)

	first := gs.Genes[0]
	assert.Equal(t, "gene_001", first.ID)
	assert.Equal(t, "Chr1", first.Chrom)
	assert.Equal(t, "MaSp1", first.Spidroin)
	assert.Equal(t, int64(12345), first.Start)
	assert.Equal(t, int64(67890), first.End)
	assert.Equal(t, int64(55546), first.Length())

	// On the minus strand the CTD anchors the low boundary and the NTD
	// the high one.
	second := gs.Genes[1]
	assert.Equal(t, "gene_002", second.ID)
	assert.Equal(t, "Chr2", second.Chrom)
	assert.Equal(t, "MiSp", second.Spidroin)
	assert.Equal(t, gff.StrandMinus, second.Strand)
	assert.Equal(t, int64(5000), second.Start)
	assert.Equal(t, int64(52400), second.End)
}

func TestPredictorPredictEmpty(t *testing.T) {
	p := NewPredictor(DefaultOptions())

	gs := p.Predict(nil)
	require.NotNil(t, gs)
	assert.Empty(t, gs.Genes)
	assert.Empty(t, gs.Rejected)
}

func TestPredictorRejectedKept(t *testing.T) {
	// A lone start anchor yields an extended span shorter than min length
	content := "Chr1\tminiprot\tmRNA\t100\t400\t50\t+\t.\tID=MP1;Positive=0.99;Target=a|sp|AgSp|NTD 1 2\n"

	p := NewPredictor(Options{
		MinLength:         50000,
		MaxLength:         100000,
		ExtensionLength:   10000,
		PositiveThreshold: 0.75,
	})
	byType := collectFixture(t, p, content)

	gs := p.Predict(byType)
	assert.Empty(t, gs.Genes)
	require.Len(t, gs.Rejected, 1)
	assert.Equal(t, ReasonTooShort, gs.Rejected[0].Reason)
}
