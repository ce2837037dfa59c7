// Package admin wires the dbdeck operations behind one service: a lazily
// connected driver, the metadata catalog, and the reader, reconciler, bulk,
// and export components built on top of it.
//
// Every method takes its schema and table as explicit parameters. The
// service holds no selection state; sessions live entirely at the caller.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dbdeck-io/dbdeck/internal/browse"
	"github.com/dbdeck-io/dbdeck/internal/bulk"
	"github.com/dbdeck-io/dbdeck/internal/catalog"
	"github.com/dbdeck-io/dbdeck/internal/export"
	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Service exposes the full administration surface over one database target.
type Service struct {
	cfg    core.ConnConfig
	logger *slog.Logger

	// Driver is connected on first use.
	mu        sync.Mutex
	drv       driver.Driver
	connected bool

	cat        *catalog.Inspector
	reader     *browse.Reader
	reconciler *browse.Reconciler
	operator   *bulk.Operator
	formatter  *export.Formatter
}

// New creates a service for cfg without connecting. A nil logger means
// discard. The connection is established on the first operation.
func New(cfg core.ConnConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{cfg: cfg, logger: logger}
}

// ensureConnected lazily builds the driver and the components on top of it.
func (s *Service) ensureConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	s.logger.Debug("connecting", "driver", s.cfg.Type)

	drv, err := driver.New(s.cfg, s.logger)
	if err != nil {
		return core.Wrap(core.KindConnectivity, err, "create driver")
	}
	if err := drv.Connect(ctx, s.cfg); err != nil {
		return core.Wrap(core.KindConnectivity, err, "connect to %s", s.cfg.Type)
	}

	s.drv = drv
	s.cat = catalog.NewInspector(drv, s.logger)
	s.reader = browse.NewReader(drv, s.logger)
	s.reconciler = browse.NewReconciler(drv, s.logger)
	s.operator = bulk.NewOperator(drv, s.cat, s.logger)
	s.formatter = export.NewFormatter(s.cat, s.logger)
	s.connected = true
	return nil
}

// Close tears down the connection pool.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.drv.Close()
}

// DriverName returns the connected driver's registry name, or the configured
// type before the first connection.
func (s *Service) DriverName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return s.drv.Name()
	}
	return s.cfg.Type
}

// ListSchemas enumerates schemas. Enumeration failures degrade to an empty
// list with diagnostics; only a failed connection is an error.
func (s *Service) ListSchemas(ctx context.Context) ([]string, []core.Diagnostic, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, nil, err
	}
	schemas := s.cat.Schemas(ctx)
	return schemas, s.cat.Diagnostics(), nil
}

// RefreshCatalog drops every cached schema list, table list, and descriptor.
func (s *Service) RefreshCatalog() {
	s.mu.Lock()
	cat := s.cat
	s.mu.Unlock()
	if cat != nil {
		cat.Invalidate()
	}
}

// ListTables enumerates the base tables of schema, sorted ascending.
func (s *Service) ListTables(ctx context.Context, schema string) ([]string, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return s.cat.Tables(ctx, schema)
}

// Describe resolves the descriptor of schema.table.
func (s *Service) Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return s.cat.Describe(ctx, schema, table)
}

// PageView is one fetched page together with the table's totals.
type PageView struct {
	Page      *core.Page `json:"page"`
	TotalRows int64      `json:"total_rows"`
	PageCount int        `json:"page_count"`
}

// FetchPage fetches one page of rows plus the total row and page counts.
func (s *Service) FetchPage(ctx context.Context, schema, table string, pageIndex, pageSize int) (*PageView, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	desc, err := s.cat.Describe(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	total, err := s.reader.CountRows(ctx, desc)
	if err != nil {
		return nil, err
	}
	page, err := s.reader.FetchPage(ctx, desc, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}
	return &PageView{Page: page, TotalRows: total, PageCount: browse.PageCount(total, pageSize)}, nil
}

// CountRows returns the total row count of schema.table.
func (s *Service) CountRows(ctx context.Context, schema, table string) (int64, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return 0, err
	}
	desc, err := s.cat.Describe(ctx, schema, table)
	if err != nil {
		return 0, err
	}
	return s.reader.CountRows(ctx, desc)
}

// Reconcile diffs edited against original for schema.table and commits the
// changed rows in one transaction. The descriptor is resolved fresh so that
// the primary-key set reflects the live table.
func (s *Service) Reconcile(ctx context.Context, schema, table string, original, edited *core.Page) (*browse.Result, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	desc, err := s.cat.DescribeFresh(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Reconcile(ctx, desc, original, edited)
}

// TruncateExcept truncates every table of schema not named in excluded.
func (s *Service) TruncateExcept(ctx context.Context, schema string, excluded []string) (*bulk.Report, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		set[name] = struct{}{}
	}
	return s.operator.TruncateExcept(ctx, schema, set)
}

// DropAll drops every table of schema.
func (s *Service) DropAll(ctx context.Context, schema string) (*bulk.Report, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return s.operator.DropAll(ctx, schema)
}

// ExportSchema flattens schema metadata to table and column descriptors.
func (s *Service) ExportSchema(ctx context.Context, schema string) (*export.SchemaExport, []core.Diagnostic, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, nil, err
	}
	out, diags := s.formatter.Schema(ctx, schema)
	return out, diags, nil
}

// ExportSchemaJSON flattens schema metadata to a table -> column-names map.
func (s *Service) ExportSchemaJSON(ctx context.Context, schema string) (map[string][]string, []core.Diagnostic, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, nil, err
	}
	out, diags := s.formatter.SchemaJSON(ctx, schema)
	return out, diags, nil
}

// Ping verifies the target is reachable, connecting if necessary.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.ensureConnected(ctx); err != nil {
		return err
	}
	if err := s.drv.Pool().PingContext(ctx); err != nil {
		return core.Wrap(core.KindConnectivity, err, "ping %s", s.cfg.Type)
	}
	return nil
}

// String describes the target for logs and errors, without credentials.
func (s *Service) String() string {
	if s.cfg.Path != "" {
		return fmt.Sprintf("%s:%s", s.cfg.Type, s.cfg.Path)
	}
	return fmt.Sprintf("%s://%s:%d/%s", s.cfg.Type, s.cfg.Host, s.cfg.Port, s.cfg.Database)
}
