package common_test

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	common "seq2img/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStreamFastaMultiLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta")
	writeFile(t, path, ">MN908947.3 |2020-01-05|Alpha\nacgt\nACNN\n>second|x|Beta\nTTTT\n")

	records, err := common.ReadFasta(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "MN908947.3", records[0].ID)
	require.Equal(t, "ACGTACNN", string(records[0].Seq))
	require.Equal(t, 0, records[0].Index)
	require.Equal(t, "Alpha", common.ParseHeader(records[0].Header).Field(common.ClassField))

	require.Equal(t, "TTTT", string(records[1].Seq))
	require.Equal(t, 1, records[1].Index)
}

func TestStreamFastaDropsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta")
	writeFile(t, path, ">a|d|X\r\nAC GT\r\nN\tN \r\n")

	records, err := common.ReadFasta(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "ACGTNN", string(records[0].Seq))
}

func TestStreamFastaGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(">a\nACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := common.ReadFasta(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "ACGT", string(records[0].Seq))
}

func TestStreamFastaEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fasta")
	writeFile(t, path, "")
	records, err := common.ReadFasta(path)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestStreamFastaMissingFile(t *testing.T) {
	_, err := common.ReadFasta(filepath.Join(t.TempDir(), "nope.fasta"))
	require.Error(t, err)
}

func TestParseHeader(t *testing.T) {
	h := common.ParseHeader(">OQ123456.1 | 2021-03-01 | Delta | extra")
	require.Equal(t, "OQ123456.1", h.Accession(common.AccessionField))
	require.Equal(t, "Delta", h.Field(common.ClassField))
	require.Equal(t, "", h.Field(9))
	require.Equal(t, "", h.Field(-1))

	bare := common.ParseHeader("seq1 some description")
	require.Equal(t, "seq1", bare.Accession(common.AccessionField))
	require.Equal(t, "", bare.Field(common.ClassField))
}

func TestSafeAccession(t *testing.T) {
	require.Equal(t, "MN908947_3", common.SafeAccession("MN908947.3"))
	require.Equal(t, "a_b_c", common.SafeAccession("a/b\\c"))
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, common.WriteFileAtomic(path, []byte("first")))
	require.NoError(t, common.WriteFileAtomic(path, []byte("2nd")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "2nd", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, common.EnsureDir(dir))
	require.NoError(t, common.EnsureDir(dir))
}

func TestWrapFasta(t *testing.T) {
	require.Equal(t, "ACG\nTA\n", common.WrapFasta("ACGTA", 3))
	require.Equal(t, "", common.WrapFasta("", 3))
}
