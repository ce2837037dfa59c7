// Package duckdb provides the DuckDB driver for dbdeck.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb database/sql driver

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Driver implements driver.Driver for DuckDB.
type Driver struct {
	driver.Base
}

// New creates a DuckDB driver. A nil logger means discard.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{Base: driver.Base{Logger: logger}}
}

// Name returns the registry name of the driver.
func (d *Driver) Name() string { return "duckdb" }

// Placeholder renders every placeholder as ?.
func (d *Driver) Placeholder(int) string { return "?" }

// Connect opens the database file, or an in-memory database when the path
// is empty or ":memory:".
func (d *Driver) Connect(ctx context.Context, cfg core.ConnConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("open duckdb database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping duckdb: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// ListSchemas enumerates schema names from information_schema.schemata.
func (d *Driver) ListSchemas(ctx context.Context) ([]string, error) {
	return d.QueryStrings(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		ORDER BY schema_name`)
}

// ListTables enumerates base tables owned by schema.
func (d *Driver) ListTables(ctx context.Context, schema string) ([]string, error) {
	return d.QueryStrings(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
}

// Describe resolves columns via information_schema and the primary-key set
// via the duckdb_constraints() table function.
func (d *Driver) Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	columns, err := d.ColumnsFromInformationSchema(ctx, schema, table, d.Placeholder)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}

	keys, err := d.QueryStrings(ctx, `
		SELECT unnest(constraint_column_names)
		FROM duckdb_constraints()
		WHERE schema_name = ? AND table_name = ? AND constraint_type = 'PRIMARY KEY'`,
		schema, table)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	driver.MarkPrimaryKeys(columns, keys)

	return &core.TableDescriptor{Schema: schema, Name: table, Columns: columns}, nil
}

var _ driver.Driver = (*Driver)(nil)

func init() {
	driver.Register("duckdb", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
