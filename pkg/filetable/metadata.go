package filetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// FieldType is the target scalar type of an extracted metadata field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
)

// FieldSpec declares one metadata field to extract from tabular side-files.
// Specs are evaluated in a fixed priority order; for each spec the first
// source column whose lower-cased header contains Match and whose cell coerces
// to a value wins.
type FieldSpec struct {
	Name  string // output column name
	Match string // substring matched against lower-cased source headers
	Type  FieldType
}

// Record maps output field names to scalars: string, float64 or nil.
type Record map[string]any

// outcome classifies a single field extraction attempt. A null outcome means
// the cell was present but empty; a skip means it could not be coerced and the
// next candidate column should be tried.
type outcome int

const (
	outcomeValue outcome = iota
	outcomeNull
	outcomeSkip
)

func coerce(raw string, typ FieldType) (any, outcome) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "n/a", "na", "nan", "null":
		return nil, outcomeNull
	}
	if typ == FieldNumeric {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, outcomeSkip
		}
		return f, outcomeValue
	}
	return raw, outcomeValue
}

// ReadSidecarFields extracts the declared fields from the tabular side-files
// found under dir. Every *.csv and *.tsv in the subtree is visited in sorted
// order and its first data row inspected. Unmatched fields resolve to nil.
//
// A corrupt or unreadable side-file never aborts extraction: it is logged at
// debug level and the remaining files are still processed.
func ReadSidecarFields(fsys fs.FS, dir string, specs []FieldSpec) Record {
	rec := make(Record, len(specs))
	for _, spec := range specs {
		rec[spec.Name] = nil
	}

	dir = path.Clean(dir)
	if info, err := fs.Stat(fsys, dir); err != nil || !info.IsDir() {
		return rec
	}

	var files []string
	fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch path.Ext(p) {
		case ".csv", ".tsv":
			files = append(files, p)
		}
		return nil
	})
	sort.Strings(files)

	for _, file := range files {
		headers, row, err := readFirstRow(fsys, file)
		if err != nil {
			log.Debugf("reading side-file %s: %s", file, err)
			continue
		}
		for _, spec := range specs {
			if rec[spec.Name] != nil {
				continue
			}
			for i, header := range headers {
				if i >= len(row) || !strings.Contains(strings.ToLower(header), spec.Match) {
					continue
				}
				if v, out := coerce(row[i], spec.Type); out == outcomeValue {
					rec[spec.Name] = v
					break
				}
			}
		}
	}
	return rec
}

// readFirstRow parses the header and first data row of a delimited file.
func readFirstRow(fsys fs.FS, name string) ([]string, []string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if path.Ext(name) == ".tsv" {
		r.Comma = '\t'
	}

	headers, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	row, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("no data rows")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading first row: %w", err)
	}
	return headers, row, nil
}
