package feature

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGFF = `##gff-version 3
#!genome-build ASM584v2
NC_000913.3	RefSeq	region	1	4641652	.	+	.	ID=NC_000913.3:1..4641652;Name=ANONYMOUS
NC_000913.3	RefSeq	gene	190	255	.	+	.	ID=gene-b0001;Name=thrL;gene=thrL;locus_tag=b0001
NC_000913.3	RefSeq	CDS	190	255	.	+	0	ID=cds-NP_414542.1;Parent=gene-b0001;gene=thrL;locus_tag=b0001;product=thrL%3Bleader
NC_000913.3	RefSeq	CDS	337	2799	.	+	0	ID=cds-NP_414543.1;gene=thrA;locus_tag=b0002
NC_000913.3	RefSeq	CDS	5683	6459	.	-	0	ID=cds-NP_414547.1;gene=yaaA;locus_tag=b0006
NC_000913.3	RefSeq	tRNA	8000	8076	.	-	.	ID=rna-b0007;locus_tag=b0007
NC_000913.2	RefSeq	CDS	100	200	.	+	0	ID=other;gene=other
##FASTA
>NC_000913.3
ACGT
`

func writeGFF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gff")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGFFLoader_Load(t *testing.T) {
	loader := NewGFFLoader(writeGFF(t, testGFF))
	s := NewStore()
	require.NoError(t, loader.Load(s))

	assert.Equal(t, "NC_000913.3", loader.SeqID(), "first sequence is used by default")
	require.Equal(t, 4, s.Len(), "gene and region are not default types")

	thrL := s.Get(0)
	assert.Equal(t, "CDS", thrL.Type)
	assert.Equal(t, "RefSeq", thrL.Source)
	assert.Equal(t, 190, thrL.Start)
	assert.Equal(t, 255, thrL.End)
	assert.Equal(t, Plus, thrL.Strand)
	assert.Nil(t, thrL.Score)
	assert.Equal(t, "0", thrL.Phase)
	assert.Equal(t, "thrL", thrL.Attr("gene"))
	assert.Equal(t, "b0001", thrL.Attr("locus_tag"))
	assert.Equal(t, "thrL;leader", thrL.Attr("product"), "values are unescaped")

	yaaA := s.Get(2)
	assert.Equal(t, Minus, yaaA.Strand)

	trna := s.Get(3)
	assert.Equal(t, "tRNA", trna.Type)
	assert.Equal(t, ".", trna.Phase)
}

func TestGFFLoader_SeqIDAndRegion(t *testing.T) {
	loader := NewGFFLoader(writeGFF(t, testGFF))
	loader.SetSeqID("NC_000913.3")
	loader.SetRegion(Region{Start: 300, End: 6000})

	s := NewStore()
	require.NoError(t, loader.Load(s))

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "thrA", s.Get(0).Attr("gene"))
	assert.Equal(t, "yaaA", s.Get(1).Attr("gene"))
}

func TestGFFLoader_AllTypes(t *testing.T) {
	loader := NewGFFLoader(writeGFF(t, testGFF))
	loader.SetTypes(nil)

	s := NewStore()
	require.NoError(t, loader.Load(s))
	assert.Equal(t, 6, s.Len())
}

func TestGFFLoader_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gff.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testGFF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	s := NewStore()
	require.NoError(t, NewGFFLoader(path).Load(s))
	assert.Equal(t, 4, s.Len())
}

func TestGFFLoader_MissingFile(t *testing.T) {
	err := NewGFFLoader(filepath.Join(t.TempDir(), "missing.gff")).Load(NewStore())
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err) || strings.Contains(err.Error(), "open GFF file"))
}

func TestFeatureLines_StopsAtFASTA(t *testing.T) {
	r, attrs, err := featureLines(strings.NewReader(testGFF))
	require.NoError(t, err)
	assert.Len(t, attrs, 7)

	body := readAll(t, r)
	assert.NotContains(t, body, "##")
	assert.NotContains(t, body, "ACGT")
	assert.Equal(t, 7, strings.Count(body, "\n"))
}

func TestGFFLoader_LoadAll(t *testing.T) {
	loader := NewGFFLoader(writeGFF(t, testGFF))
	loader.SetSeqID("NC_000913.3")

	features, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, features, 5)
	assert.Equal(t, "NC_000913.2", features[4].SeqID)
}

func TestGFFLoader_GFF3Attributes(t *testing.T) {
	const gff3 = "##gff-version 3\n" +
		"chr1\tRefSeq\tCDS\t190\t255\t.\t+\t0\tID=cds1;gene=thrL;product=DNA pol III%3B alpha subunit;Note=a%2Cb\n" +
		"chr1\tRefSeq\trepeat_region\t300\t400\t.\t.\t.\t.\n"

	s := NewStore()
	require.NoError(t, NewGFFLoader(writeGFF(t, gff3)).Load(s))
	require.Equal(t, 2, s.Len())

	f := s.Get(0)
	assert.Equal(t, "thrL", f.Attr("gene"))
	assert.Equal(t, "DNA pol III; alpha subunit", f.Attr("product"))
	assert.Equal(t, "a,b", f.Attr("Note"))
	assert.Equal(t, "cds1", f.Attr("ID"))
	assert.Equal(t, 190, f.Start)
	assert.Equal(t, "0", f.Phase)

	assert.Empty(t, s.Get(1).Attributes)
}

func TestGFFLoader_GTFAttributes(t *testing.T) {
	const gtf = "chr1\tsrc\tCDS\t10\t90\t.\t-\t0\tgene_id \"thrL\"; product \"DNA pol III\";\n"

	s := NewStore()
	require.NoError(t, NewGFFLoader(writeGFF(t, gtf)).Load(s))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "thrL", s.Get(0).Attr("gene_id"))
	assert.Equal(t, "DNA pol III", s.Get(0).Attr("product"))
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		col  string
		want map[string]string
	}{
		{"ID=x;gene=thrL", map[string]string{"ID": "x", "gene": "thrL"}},
		{"product=thr operon%3Bleader;", map[string]string{"product": "thr operon;leader"}},
		{`gene_id "g1"; gene_name "A B"`, map[string]string{"gene_id": "g1", "gene_name": "A B"}},
		{".", map[string]string{}},
		{"", map[string]string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAttributes(tt.col), tt.col)
	}
}
