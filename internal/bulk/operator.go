// Package bulk implements the destructive schema-wide operations: truncating
// every table except an exclusion set, and dropping every table.
//
// Neither operation is transactional across tables. Each statement stands
// alone; a failure partway leaves earlier tables changed and is reported in
// the per-table outcome list rather than rolled back.
package bulk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dbdeck-io/dbdeck/internal/catalog"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Operator runs bulk operations over a schema's tables.
type Operator struct {
	drv    driver.Driver
	cat    *catalog.Inspector
	logger *slog.Logger
}

// NewOperator creates a bulk operator. A nil logger means discard.
func NewOperator(drv driver.Driver, cat *catalog.Inspector, logger *slog.Logger) *Operator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Operator{drv: drv, cat: cat, logger: logger}
}

// Outcome records the result of one table's statement.
type Outcome struct {
	Table string
	Err   error
}

// Report lists per-table outcomes of a bulk run, in execution order.
type Report struct {
	Outcomes []Outcome
}

// Succeeded counts the tables whose statement completed without error.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// TruncateExcept truncates every table in schema whose name is not in
// excluded. The table list is read fresh, not from cache, and all catalog
// caches are invalidated afterwards.
func (o *Operator) TruncateExcept(ctx context.Context, schema string, excluded map[string]struct{}) (*Report, error) {
	tables, err := o.cat.TablesFresh(ctx, schema)
	if err != nil {
		return nil, err
	}
	defer o.cat.Invalidate()

	report := &Report{}
	for _, table := range tables {
		if _, skip := excluded[table]; skip {
			continue
		}
		stmt := fmt.Sprintf("TRUNCATE TABLE %s", o.qualify(schema, table))
		err := o.exec(ctx, stmt)
		if err != nil {
			o.logger.Error("truncate failed", "table", table, "error", err)
		}
		report.Outcomes = append(report.Outcomes, Outcome{Table: table, Err: err})
	}

	o.logger.Info("truncate finished",
		"schema", schema, "truncated", report.Succeeded(), "total", len(report.Outcomes))
	return report, nil
}

// DropAll drops every table in schema with DROP TABLE IF EXISTS, so running
// it twice is not an error.
func (o *Operator) DropAll(ctx context.Context, schema string) (*Report, error) {
	tables, err := o.cat.TablesFresh(ctx, schema)
	if err != nil {
		return nil, err
	}
	defer o.cat.Invalidate()

	report := &Report{}
	for _, table := range tables {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", o.qualify(schema, table))
		err := o.exec(ctx, stmt)
		if err != nil {
			o.logger.Error("drop failed", "table", table, "error", err)
		}
		report.Outcomes = append(report.Outcomes, Outcome{Table: table, Err: err})
	}

	o.logger.Info("drop finished",
		"schema", schema, "dropped", report.Succeeded(), "total", len(report.Outcomes))
	return report, nil
}

func (o *Operator) exec(ctx context.Context, stmt string) error {
	_, err := o.drv.Pool().ExecContext(ctx, stmt)
	return err
}

func (o *Operator) qualify(schema, table string) string {
	if schema == "" {
		return o.drv.QuoteIdent(table)
	}
	return o.drv.QuoteIdent(schema) + "." + o.drv.QuoteIdent(table)
}
