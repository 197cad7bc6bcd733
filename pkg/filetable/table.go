package filetable

import (
	"fmt"
	"slices"
)

// Kind is the semantic type of a schema column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindBlob // a resolved file reference to a binary imaging artifact
)

// Column declares one schema column.
type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered target column set a file table must conform to.
type Schema []Column

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// BlobColumns returns the names of the binary-reference columns.
func (s Schema) BlobColumns() []string {
	var names []string
	for _, col := range s {
		if col.Kind == KindBlob {
			names = append(names, col.Name)
		}
	}
	return names
}

// Row maps column names to scalars: string, float64 or nil.
type Row map[string]any

// Table holds one row per Logical Unit with a fixed column order. It is built
// fresh on every invocation from a live directory scan; nothing is cached
// across runs.
type Table struct {
	columns []string
	rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{columns: columns}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.columns
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in build order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Append adds a row.
func (t *Table) Append(row Row) {
	t.rows = append(t.rows, row)
}

// Populated counts the non-nil values in the named column.
func (t *Table) Populated(col string) int {
	n := 0
	for _, row := range t.rows {
		if row[col] != nil {
			n++
		}
	}
	return n
}

// Conform projects the table onto the schema's column set and order. Every
// schema column must be present in the table; extra table columns are dropped,
// never the reverse.
func (t *Table) Conform(schema Schema) (*Table, error) {
	for _, col := range schema {
		if !slices.Contains(t.columns, col.Name) {
			return nil, fmt.Errorf("schema column %q not present in table", col.Name)
		}
	}

	out := New(schema.Names()...)
	for _, row := range t.rows {
		projected := make(Row, len(schema))
		for _, col := range schema {
			projected[col.Name] = row[col.Name]
		}
		out.Append(projected)
	}
	return out, nil
}
