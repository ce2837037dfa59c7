// Package export flattens schema metadata into display and JSON
// representations. Exports are read-only and never abort on a single bad
// table: a table whose reflection fails is skipped and reported as a
// diagnostic alongside the rest of the result.
package export

import (
	"context"
	"log/slog"

	"github.com/dbdeck-io/dbdeck/internal/catalog"
	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// Formatter produces schema exports from catalog metadata.
type Formatter struct {
	cat    *catalog.Inspector
	logger *slog.Logger
}

// NewFormatter creates a formatter. A nil logger means discard.
func NewFormatter(cat *catalog.Inspector, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Formatter{cat: cat, logger: logger}
}

// ColumnExport is one column in a descriptor export.
type ColumnExport struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableExport is one table's descriptor in a schema export.
type TableExport struct {
	Table   string         `json:"table"`
	Columns []ColumnExport `json:"columns"`
}

// SchemaExport is the full descriptor export of a schema, tables in
// lexicographic order.
type SchemaExport struct {
	Schema string        `json:"schema"`
	Tables []TableExport `json:"tables"`
}

// Schema exports every table of schemaName with column names and types.
// Tables that fail to reflect are skipped and recorded as diagnostics.
func (f *Formatter) Schema(ctx context.Context, schemaName string) (*SchemaExport, []core.Diagnostic) {
	out := &SchemaExport{Schema: schemaName, Tables: []TableExport{}}

	tables, diags := f.listTables(ctx, schemaName)
	for _, table := range tables {
		desc, err := f.cat.Describe(ctx, schemaName, table)
		if err != nil {
			f.logger.Warn("skipping table in export", "table", table, "error", err)
			diags = append(diags, core.DiagnosticFrom(err))
			continue
		}

		cols := make([]ColumnExport, len(desc.Columns))
		for i, col := range desc.Columns {
			cols[i] = ColumnExport{Name: col.Name, Type: col.Type}
		}
		out.Tables = append(out.Tables, TableExport{Table: table, Columns: cols})
	}
	return out, diags
}

// SchemaJSON exports schemaName as a mapping of table name to column names.
// Narrower than Schema on purpose: no types. encoding/json marshals the map
// with sorted keys, so the output is deterministic.
func (f *Formatter) SchemaJSON(ctx context.Context, schemaName string) (map[string][]string, []core.Diagnostic) {
	out := make(map[string][]string)

	tables, diags := f.listTables(ctx, schemaName)
	for _, table := range tables {
		desc, err := f.cat.Describe(ctx, schemaName, table)
		if err != nil {
			f.logger.Warn("skipping table in export", "table", table, "error", err)
			diags = append(diags, core.DiagnosticFrom(err))
			continue
		}
		out[table] = desc.ColumnNames()
	}
	return out, diags
}

// listTables degrades a failed table enumeration to an empty result with a
// diagnostic, matching the catalog's own enumeration policy.
func (f *Formatter) listTables(ctx context.Context, schemaName string) ([]string, []core.Diagnostic) {
	tables, err := f.cat.Tables(ctx, schemaName)
	if err != nil {
		f.logger.Error("table enumeration failed", "schema", schemaName, "error", err)
		return nil, []core.Diagnostic{core.DiagnosticFrom(err)}
	}
	return tables, nil
}
