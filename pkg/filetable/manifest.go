package filetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
)

// Manifest is a parsed tab-separated metadata index (e.g. participants.tsv).
// Rows are keyed by the first column and sorted by it on ingest, so table
// builds driven by a manifest enumerate units in a stable, reproducible order.
type Manifest struct {
	columns []string
	rows    []map[string]string
}

// ReadManifest parses the tab-separated file at name. A missing file is a
// structural error (the dataset is not the expected dataset at all) and is
// reported as ErrManifestNotFound.
func ReadManifest(fsys fs.FS, name string) (*Manifest, error) {
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrManifestNotFound{Path: name}
	}
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	columns, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading manifest header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest row: %w", err)
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	key := columns[0]
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][key] < rows[j][key]
	})

	return &Manifest{columns: columns, rows: rows}, nil
}

// Len returns the number of data rows.
func (m *Manifest) Len() int {
	return len(m.rows)
}

// Columns returns the header in file order.
func (m *Manifest) Columns() []string {
	return m.columns
}

// Rows returns the data rows sorted by the key column.
func (m *Manifest) Rows() []map[string]string {
	return m.rows
}

// TextCell returns the named cell as a string, or nil when the cell is absent
// or empty.
func TextCell(row map[string]string, col string) any {
	v, out := coerce(row[col], FieldText)
	if out != outcomeValue {
		return nil
	}
	return v
}

// NumericCell returns the named cell as a float64. Absent, empty and
// unparsable cells all resolve to nil; a bad value never aborts a build.
func NumericCell(row map[string]string, col string) any {
	v, out := coerce(row[col], FieldNumeric)
	if out != outcomeValue {
		return nil
	}
	return v
}
