package etl

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReaderPlainUTF8(t *testing.T) {
	path := writeFile(t, "plain.csv", []byte("Student ID,Family Name\n1234567,Ngata\n"))

	r, err := Open(path, false, "")
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"student_id", "family_name"}, r.Headers())

	row, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "1234567", row["student_id"])
	require.Equal(t, "Ngata", row["family_name"])

	_, err = r.Next()
	require.Equal(t, io.EOF, err)
}

func TestReaderStripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", []byte("\ufeffStudent ID\n1234567\n"))

	r, err := Open(path, false, "")
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"student_id"}, r.Headers())
}

func TestReaderGzipLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	// "Familienäme" with a Latin-1 a-umlaut byte (0xE4).
	_, err = gz.Write([]byte("name\nM\xe4ori Studies\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := Open(path, true, "ISO-8859-1")
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "Mäori Studies", row["name"])
}

func TestReaderPadsShortRows(t *testing.T) {
	path := writeFile(t, "short.csv", []byte("a,b,c\n1,2\n"))

	r, err := Open(path, false, "")
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "1", row["a"])
	require.Equal(t, "2", row["b"])
	require.Equal(t, "", row["c"])
}

func TestReaderUnknownEncoding(t *testing.T) {
	path := writeFile(t, "x.csv", []byte("a\n1\n"))

	_, err := Open(path, false, "no-such-charset")
	require.Error(t, err)
}
