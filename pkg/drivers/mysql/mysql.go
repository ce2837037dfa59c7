// Package mysql provides the MySQL/MariaDB driver for dbdeck.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Driver implements driver.Driver for MySQL and MariaDB.
type Driver struct {
	driver.Base
}

// New creates a MySQL driver. A nil logger means discard.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{Base: driver.Base{Logger: logger}}
}

// Name returns the registry name of the driver.
func (d *Driver) Name() string { return "mysql" }

// Placeholder renders every placeholder as ?.
func (d *Driver) Placeholder(int) string { return "?" }

// QuoteIdent quotes an identifier with backticks.
func (d *Driver) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// buildDSN assembles the DSN through the driver's own config type so that
// credentials containing DSN metacharacters survive intact.
func buildDSN(cfg core.ConnConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := gomysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.DBName = cfg.Database
	// parseTime makes DATETIME columns scan as time.Time instead of []byte.
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Connect opens a connection pool and verifies it with a ping.
func (d *Driver) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := buildDSN(cfg)

	d.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping mysql: %w", err)
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
// via key_column_usage joined to table_constraints.
func (d *Driver) Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	columns, err := d.ColumnsFromInformationSchema(ctx, schema, table, d.Placeholder)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}

	keys, err := d.QueryStrings(ctx, `
		SELECT k.column_name
		FROM information_schema.key_column_usage k
		JOIN information_schema.table_constraints tc
		  ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND k.table_schema = ? AND k.table_name = ?
		ORDER BY k.ordinal_position`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	driver.MarkPrimaryKeys(columns, keys)

	return &core.TableDescriptor{Schema: schema, Name: table, Columns: columns}, nil
}

var _ driver.Driver = (*Driver)(nil)

func init() {
	driver.Register("mysql", func(logger *slog.Logger) driver.Driver { return New(logger) })
	driver.Register("mariadb", func(logger *slog.Logger) driver.Driver { return New(logger) })
}
