package core

import (
	"sort"
	"strconv"
	"strings"
)

// ConnConfig holds connection parameters for a database target.
type ConnConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// Column describes a single column of a table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
	Position   int    `json:"position"`
}

// TableDescriptor describes a table: its location, its columns in ordinal
// order, and which of those columns form the primary key.
type TableDescriptor struct {
	Schema  string   `json:"schema"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// ColumnNames returns the column names in ordinal order.
func (d *TableDescriptor) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// PrimaryKey returns the names of the primary-key columns in ordinal order.
// The result is empty for tables without a primary key.
func (d *TableDescriptor) PrimaryKey() []string {
	var keys []Column
	for _, col := range d.Columns {
		if col.PrimaryKey {
			keys = append(keys, col)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Position < keys[j].Position })
	names := make([]string, 0, len(keys))
	for _, col := range keys {
		names = append(names, col.Name)
	}
	return names
}

// HasPrimaryKey reports whether the table has at least one primary-key column.
func (d *TableDescriptor) HasPrimaryKey() bool {
	for _, col := range d.Columns {
		if col.PrimaryKey {
			return true
		}
	}
	return false
}

// QualifiedName returns the schema-qualified table name, unquoted.
func (d *TableDescriptor) QualifiedName() string {
	if d.Schema == "" {
		return d.Name
	}
	return d.Schema + "." + d.Name
}

// Row maps column names to scalar values as returned by the database.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Page is one window of rows fetched from a table. Index is 0-based.
// Row order is whatever the engine produced for this fetch; it is only
// stable across reads if the table is not concurrently mutated.
type Page struct {
	Descriptor *TableDescriptor `json:"descriptor"`
	Index      int              `json:"index"`
	Size       int              `json:"size"`
	Rows       []Row            `json:"rows"`
}

// RowDelta is one changed row within an edit set. Keys holds the primary-key
// values captured from the original row, never the edited one, so the update
// target does not depend on what the edit surface did to key columns.
type RowDelta struct {
	Index  int
	Keys   Row
	Values Row
}

// String renders the delta target for diagnostics, e.g. "row 3 (id=7)".
func (d RowDelta) String() string {
	var b strings.Builder
	names := make([]string, 0, len(d.Keys))
	for name := range d.Keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(formatScalar(d.Keys[name]))
	}
	return "row " + strconv.Itoa(d.Index) + " (" + b.String() + ")"
}
