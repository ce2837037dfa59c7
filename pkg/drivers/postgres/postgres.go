// Package postgres provides the PostgreSQL driver for dbdeck.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Driver implements driver.Driver for PostgreSQL.
type Driver struct {
	driver.Base
}

// New creates a PostgreSQL driver. A nil logger means discard.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{Base: driver.Base{Logger: logger}}
}

// Name returns the registry name of the driver.
func (d *Driver) Name() string { return "postgres" }

// Placeholder renders the 1-based nth placeholder as $n.
func (d *Driver) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// Connect opens a connection pool and verifies it with a ping.
func (d *Driver) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := buildDSN(cfg)

	d.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	d.DB = db
	d.Cfg = cfg
	return nil
}

// buildDSN constructs a key=value PostgreSQL connection string.
func buildDSN(cfg core.ConnConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, cfg.Database, sslmode)
	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
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
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
}

// Describe resolves columns via information_schema and the primary-key set
// via pg_index, which also covers keys added by ALTER TABLE.
func (d *Driver) Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	columns, err := d.ColumnsFromInformationSchema(ctx, schema, table, d.Placeholder)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}

	keys, err := d.QueryStrings(ctx, `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_class c ON i.indrelid = c.oid
		JOIN pg_namespace ns ON c.relnamespace = ns.oid
		JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = ANY(i.indkey)
		WHERE ns.nspname = $1 AND c.relname = $2 AND i.indisprimary`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	driver.MarkPrimaryKeys(columns, keys)

	return &core.TableDescriptor{Schema: schema, Name: table, Columns: columns}, nil
}

var _ driver.Driver = (*Driver)(nil)

func init() {
	driver.Register("postgres", func(logger *slog.Logger) driver.Driver { return New(logger) })
	driver.Register("postgresql", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
