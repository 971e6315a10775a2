package featuredb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const importGFF = `##gff-version 3
chr1	RefSeq	gene	190	255	.	+	.	ID=gene-b0001;gene=thrL
chr1	RefSeq	CDS	190	255	.	+	0	ID=cds-1;gene=thrL;locus_tag=b0001
chr1	RefSeq	CDS	337	2799	.	+	0	ID=cds-2;gene=thrA;locus_tag=b0002
chr2	RefSeq	tRNA	10	80	.	-	.	ID=rna-1;locus_tag=t1
`

const importFASTA = `>chr1
ACGTACGTACGT
>chr2
GGGGCCCC
`

func writeInputs(t *testing.T) (gffPath, fastaPath string) {
	t.Helper()
	dir := t.TempDir()
	gffPath = filepath.Join(dir, "genome.gff")
	fastaPath = filepath.Join(dir, "genome.fa")
	require.NoError(t, os.WriteFile(gffPath, []byte(importGFF), 0644))
	require.NoError(t, os.WriteFile(fastaPath, []byte(importFASTA), 0644))
	return gffPath, fastaPath
}

func TestImport(t *testing.T) {
	s := openInMemory(t)
	gffPath, fastaPath := writeInputs(t)

	stats, err := s.Import(ImportOptions{GFFPath: gffPath, FASTAPath: fastaPath}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Features)
	assert.Equal(t, 2, stats.Sequences)
	assert.Empty(t, stats.Skipped)

	got, err := s.Features(Query{SeqID: "chr1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "thrA", got[1].Attr("gene"))

	seq, err := s.Sequence("chr2", feature.Region{})
	require.NoError(t, err)
	assert.Equal(t, "GGGGCCCC", seq)
}

func TestImport_SkipsUnchanged(t *testing.T) {
	s := openInMemory(t)
	gffPath, fastaPath := writeInputs(t)
	opts := ImportOptions{GFFPath: gffPath, FASTAPath: fastaPath}

	_, err := s.Import(opts, nil)
	require.NoError(t, err)

	stats, err := s.Import(opts, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{SourceGFF, SourceFASTA}, stats.Skipped)
	assert.Equal(t, 0, stats.Features)

	opts.Force = true
	stats, err = s.Import(opts, nil)
	require.NoError(t, err)
	assert.Empty(t, stats.Skipped)
	assert.Equal(t, 3, stats.Features)
}

func TestImport_AllTypes(t *testing.T) {
	s := openInMemory(t)
	gffPath, _ := writeInputs(t)

	stats, err := s.Import(ImportOptions{GFFPath: gffPath, Types: []string{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Features)
}

func TestImport_MissingFile(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Import(ImportOptions{GFFPath: filepath.Join(t.TempDir(), "nope.gff")}, nil)
	assert.Error(t, err)
}
