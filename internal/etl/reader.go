package etl

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Reader streams rows out of a delimited extract file, transparently
// decompressing and transcoding, with header names normalized for
// alias lookup. Files run to hundreds of thousands of rows, so rows
// are surfaced one at a time rather than slurped.
type Reader struct {
	file    *os.File
	gz      *gzip.Reader
	csv     *csv.Reader
	headers []string
}

// Open prepares an extract file for row-by-row reading. The encoding
// name is resolved through the IANA registry (the upstream systems
// mostly export a Latin-1 variant); blank means UTF-8.
func Open(path string, gzipped bool, encodingName string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := &Reader{file: f}
	var raw io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		r.gz = gz
		raw = gz
	}

	enc, err := resolveEncoding(encodingName)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	r.csv = csv.NewReader(enc.NewDecoder().Reader(raw))
	// Some extract versions pad trailing columns inconsistently.
	r.csv.FieldsPerRecord = -1

	headers, err := r.csv.Read()
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	r.headers = make([]string, len(headers))
	for i, h := range headers {
		r.headers[i] = NormalizeHeader(strings.TrimPrefix(h, "\ufeff"))
	}

	return r, nil
}

// Headers returns the normalized column names.
func (r *Reader) Headers() []string {
	return r.headers
}

// Next returns the next row, or io.EOF when the file is exhausted.
// Rows shorter than the header are padded with blanks; longer rows
// drop the unnamed overflow.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	row := make(Row, len(r.headers))
	for i, name := range r.headers {
		if i < len(record) {
			row[name] = record[i]
		} else {
			row[name] = ""
		}
	}
	return row, nil
}

// Close releases the underlying file handles.
func (r *Reader) Close() error {
	var firstErr error
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			firstErr = err
		}
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func resolveEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
