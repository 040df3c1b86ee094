// Package csvfile reads and writes crash datasets as CSV files with a header row.
package csvfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/crash-map-etl/internal/domain"
)

// nullTokens are read as empty (null) fields.
var nullTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NULL": {}, "null": {}, "NaN": {}, "nan": {},
	"-NaN": {}, "-nan": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#N/A N/A": {},
	"#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "1.#IND": {}, "1.#QNAN": {},
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode parses CSV data into a Dataset. The first row is the header; a leading
// UTF-8 byte-order mark is skipped. Duplicate header names are suffixed ".1",
// ".2", ...; short rows are padded with nulls; rows longer than the header are
// an error. A bare quote inside an unquoted field is kept as text.
// Missing-value spellings such as "NA" or "NaN" become empty fields.
func Decode(r io.Reader) (*domain.Dataset, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && bytes.Equal(b, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty input, header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	columns := dedupeHeader(header)

	ds := &domain.Dataset{Columns: columns}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", ds.Len()+1, err)
		}
		if len(row) > len(columns) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csv: line %d: expected %d fields, saw %d", line, len(columns), len(row))
		}
		rec := make(domain.Record, len(columns))
		for i, c := range columns {
			if i < len(row) {
				rec[c] = normalizeNull(row[i])
			} else {
				rec[c] = ""
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// Encode writes the Dataset as CSV with a header row, in schema order.
func Encode(w io.Writer, ds *domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i, r := range ds.Records {
		if err := cw.Write(ds.Row(r)); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read loads the CSV file at path.
func Read(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Write creates (or truncates) the file at path and writes the Dataset to it.
// Intermediate directories are created automatically.
func Write(path string, ds *domain.Dataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	if err := Encode(f, ds); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Source extracts a Dataset from a CSV file.
type Source struct {
	Path string
}

// Extract reads the file at s.Path.
func (s Source) Extract(_ context.Context) (*domain.Dataset, error) {
	return Read(s.Path)
}

// Sink loads a Dataset into a CSV file.
type Sink struct {
	Path string
}

// Load writes ds to s.Path.
func (s Sink) Load(_ context.Context, ds *domain.Dataset) error {
	return Write(s.Path, ds)
}

func (s Sink) String() string { return "csv:" + s.Path }

func normalizeNull(v string) string {
	t := strings.TrimSpace(v)
	if t == "" {
		return ""
	}
	if _, ok := nullTokens[t]; ok {
		return ""
	}
	return v
}

func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}
	for i, h := range header {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			out[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
