package driver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// Base provides the database/sql plumbing shared by every driver. Embed it
// in concrete implementations to get Pool, Close, and the common
// information_schema introspection queries.
type Base struct {
	DB     *sql.DB
	Cfg    core.ConnConfig
	Logger *slog.Logger
}

// Pool returns the underlying connection pool, nil before Connect.
func (b *Base) Pool() *sql.DB { return b.DB }

// Close closes the connection pool.
func (b *Base) Close() error {
	if b.DB == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing connection pool")
	}
	return b.DB.Close()
}

// QuoteIdent quotes an identifier with double quotes, doubling any embedded
// quote. MySQL overrides this with backtick quoting.
func (b *Base) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QueryStrings runs a query whose result set is a single string column.
func (b *Base) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("connection not established")
	}
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ColumnsFromInformationSchema loads the column list of a table from the
// standard information_schema.columns view. placeholder renders the dialect's
// 1-based statement placeholders. Primary-key flags are left unset; drivers
// resolve them with their own catalog queries afterwards.
func (b *Base) ColumnsFromInformationSchema(ctx context.Context, schema, table string, placeholder func(int) string) ([]core.Column, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("connection not established")
	}

	// Placeholders come from the dialect, not from user input.
	query := fmt.Sprintf(`
		SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position`,
		placeholder(1), placeholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("scan column metadata: %w", err)
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column metadata: %w", err)
	}
	return columns, nil
}

// MarkPrimaryKeys flags the named columns as primary-key members in place.
func MarkPrimaryKeys(columns []core.Column, keyNames []string) {
	for _, name := range keyNames {
		for i := range columns {
			if columns[i].Name == name {
				columns[i].PrimaryKey = true
			}
		}
	}
}
