// Package sqlite provides the SQLite driver for dbdeck, backed by the
// cgo-free modernc.org port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite" // sqlite database/sql driver

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Driver implements driver.Driver for SQLite.
type Driver struct {
	driver.Base
}

// New creates a SQLite driver. A nil logger means discard.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{Base: driver.Base{Logger: logger}}
}

// Name returns the registry name of the driver.
func (d *Driver) Name() string { return "sqlite" }

// Placeholder renders every placeholder as ?.
func (d *Driver) Placeholder(int) string { return "?" }

// Connect opens the database file, or an in-memory database when the path
// is empty or ":memory:".
func (d *Driver) Connect(ctx context.Context, cfg core.ConnConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// ListSchemas enumerates attached databases via PRAGMA database_list.
// A plain file yields just "main".
func (d *Driver) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := d.DB.QueryContext(ctx, `PRAGMA database_list`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var schemas []string
	for rows.Next() {
		var seq int
		var name, file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, err
		}
		if name.Valid {
			schemas = append(schemas, name.String)
		}
	}
	return schemas, rows.Err()
}

// ListTables enumerates user tables from sqlite_master, excluding the
// sqlite_ internals.
func (d *Driver) ListTables(ctx context.Context, schema string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT name FROM %s.sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
		ORDER BY name`, d.QuoteIdent(schemaOrMain(schema)))
	return d.QueryStrings(ctx, query)
}

// Describe resolves columns and primary-key flags via PRAGMA table_info.
func (d *Driver) Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	query := fmt.Sprintf("PRAGMA %s.table_info(%s)",
		d.QuoteIdent(schemaOrMain(schema)), quoteLiteral(table))

	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query table_info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info: %w", err)
		}
		columns = append(columns, core.Column{
			Name:       name,
			Type:       ctype,
			Nullable:   notnull == 0,
			PrimaryKey: pk != 0,
			Position:   cid + 1,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schemaOrMain(schema), table)
	}

	return &core.TableDescriptor{Schema: schemaOrMain(schema), Name: table, Columns: columns}, nil
}

func schemaOrMain(schema string) string {
	if schema == "" {
		return "main"
	}
	return schema
}

// quoteLiteral single-quotes a string literal for the table_info pragma,
// which does not accept bound parameters.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var _ driver.Driver = (*Driver)(nil)

func init() {
	driver.Register("sqlite", func(logger *slog.Logger) driver.Driver { return New(logger) })
	driver.Register("sqlite3", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
