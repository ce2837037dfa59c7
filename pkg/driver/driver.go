// Package driver defines the contract between dbdeck's operations and the
// database vendors they run against.
//
// Concrete implementations live in pkg/drivers subdirectories and register
// themselves via init(); import them with a blank identifier:
//
//	import _ "github.com/dbdeck-io/dbdeck/pkg/drivers/postgres"
package driver

import (
	"context"
	"database/sql"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// Driver is the vendor-specific surface dbdeck needs: a pooled connection,
// metadata introspection, and the two pieces of SQL dialect (identifier
// quoting and statement placeholders) the generic operations cannot guess.
type Driver interface {
	// Connect establishes the connection pool. It must be called before any
	// other method and pings the target before returning.
	Connect(ctx context.Context, cfg core.ConnConfig) error

	// Close tears down the connection pool.
	Close() error

	// Pool returns the underlying pool. Operations borrow connections from
	// it per statement or per transaction and never hold them longer.
	Pool() *sql.DB

	// ListSchemas enumerates schema names from the system catalog.
	ListSchemas(ctx context.Context) ([]string, error)

	// ListTables enumerates base tables owned by schema, sorted ascending.
	ListTables(ctx context.Context, schema string) ([]string, error)

	// Describe resolves the column list and primary-key set of a table.
	Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error)

	// QuoteIdent quotes a schema, table, or column identifier.
	QuoteIdent(ident string) string

	// Placeholder renders the 1-based nth statement placeholder ("?" or "$n").
	Placeholder(n int) string

	// Name returns the registry name of the driver ("postgres", "mysql", ...).
	Name() string
}
