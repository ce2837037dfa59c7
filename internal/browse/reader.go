// Package browse implements the paginated read/edit/write pipeline: fetching
// one page of rows at a time and reconciling edited pages back into the
// database as targeted, transactional updates.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Reader fetches row counts and pages of rows for a described table.
type Reader struct {
	drv    driver.Driver
	logger *slog.Logger
}

// NewReader creates a reader over drv. A nil logger means discard.
func NewReader(drv driver.Driver, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{drv: drv, logger: logger}
}

// CountRows returns the total row count of the described table.
func (r *Reader) CountRows(ctx context.Context, desc *core.TableDescriptor) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.qualify(desc))

	var count int64
	if err := r.drv.Pool().QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, core.Wrap(core.KindQuery, err, "count rows in %s", desc.QualifiedName())
	}
	return count, nil
}

// PageCount derives the number of pages needed for totalRows at pageSize.
// Zero rows means zero pages.
func PageCount(totalRows int64, pageSize int) int {
	if totalRows <= 0 || pageSize < 1 {
		return 0
	}
	return int((totalRows + int64(pageSize) - 1) / int64(pageSize))
}

// FetchPage fetches the 0-based pageIndex-th window of pageSize rows.
// An index past the last page yields a page with no rows, not an error.
//
// When the table has a primary key the rows are ordered by it, so paging is
// deterministic. Without one the engine's scan order applies, and page
// contents are only well-defined against a static table.
func (r *Reader) FetchPage(ctx context.Context, desc *core.TableDescriptor, pageIndex, pageSize int) (*core.Page, error) {
	if pageIndex < 0 {
		return nil, core.Errorf(core.KindInvalidInput, "page index must be >= 0, got %d", pageIndex)
	}
	if pageSize < 1 {
		return nil, core.Errorf(core.KindInvalidInput, "page size must be >= 1, got %d", pageSize)
	}

	cols := make([]string, len(desc.Columns))
	for i, col := range desc.Columns {
		cols[i] = r.drv.QuoteIdent(col.Name)
	}

	var order string
	if keys := desc.PrimaryKey(); len(keys) > 0 {
		quoted := make([]string, len(keys))
		for i, k := range keys {
			quoted[i] = r.drv.QuoteIdent(k)
		}
		order = " ORDER BY " + strings.Join(quoted, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT %d OFFSET %d",
		strings.Join(cols, ", "), r.qualify(desc), order, pageSize, pageIndex*pageSize)

	r.logger.Debug("fetching page",
		"table", desc.QualifiedName(), "page", pageIndex, "page_size", pageSize)

	rows, err := r.drv.Pool().QueryContext(ctx, query)
	if err != nil {
		return nil, core.Wrap(core.KindQuery, err, "fetch page %d of %s", pageIndex, desc.QualifiedName())
	}
	defer func() { _ = rows.Close() }()

	page := &core.Page{Descriptor: desc, Index: pageIndex, Size: pageSize, Rows: []core.Row{}}
	names := desc.ColumnNames()
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, core.Wrap(core.KindQuery, err, "scan row from %s", desc.QualifiedName())
		}

		row := make(core.Row, len(names))
		for i, name := range names {
			row[name] = core.NormalizeValue(values[i])
		}
		page.Rows = append(page.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Wrap(core.KindQuery, err, "iterate rows of %s", desc.QualifiedName())
	}
	return page, nil
}

func (r *Reader) qualify(desc *core.TableDescriptor) string {
	if desc.Schema == "" {
		return r.drv.QuoteIdent(desc.Name)
	}
	return r.drv.QuoteIdent(desc.Schema) + "." + r.drv.QuoteIdent(desc.Name)
}
