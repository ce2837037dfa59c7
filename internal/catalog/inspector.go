// Package catalog resolves and caches database metadata: schema names,
// table names, and table descriptors.
//
// Every cache in this package is explicit and invalidatable. Nothing expires
// on its own; callers that mutate the database (the bulk operator) call
// Invalidate, and callers that need freshness use the Fresh variants.
package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Inspector enumerates schemas and tables through a driver, caching results
// for the life of the process until explicitly invalidated.
type Inspector struct {
	drv    driver.Driver
	logger *slog.Logger

	mu            sync.RWMutex
	schemas       []string
	schemasLoaded bool
	tables        map[string][]string
	descriptors   map[string]*core.TableDescriptor
	diags         []core.Diagnostic

	// Collapses concurrent loads of the same cache key.
	group singleflight.Group
}

// NewInspector creates an inspector over drv. A nil logger means discard.
func NewInspector(drv driver.Driver, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{
		drv:         drv,
		logger:      logger,
		tables:      make(map[string][]string),
		descriptors: make(map[string]*core.TableDescriptor),
	}
}

// Schemas returns the schema names of the target, cached until Invalidate.
// A catalog query failure degrades to an empty result with a recorded
// diagnostic; it is never surfaced as an error.
func (c *Inspector) Schemas(ctx context.Context) []string {
	c.mu.RLock()
	if c.schemasLoaded {
		cached := c.schemas
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("schemas", func() (any, error) {
		names, err := c.drv.ListSchemas(ctx)
		if err != nil {
			return nil, core.Wrap(core.KindQuery, err, "list schemas")
		}
		c.mu.Lock()
		c.schemas = names
		c.schemasLoaded = true
		c.mu.Unlock()
		return names, nil
	})
	if err != nil {
		c.logger.Error("schema enumeration failed", "error", err)
		c.record(core.DiagnosticFrom(err))
		return nil
	}
	names, _ := v.([]string)
	return names
}

// Tables returns the base tables of schema, lexicographically sorted and
// cached per schema name until Invalidate. Use TablesFresh to bypass the
// cache and refresh the entry.
func (c *Inspector) Tables(ctx context.Context, schema string) ([]string, error) {
	c.mu.RLock()
	cached, ok := c.tables[schema]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}
	return c.loadTables(ctx, schema)
}

// TablesFresh re-issues the table enumeration for schema and replaces the
// cache entry with the result.
func (c *Inspector) TablesFresh(ctx context.Context, schema string) ([]string, error) {
	c.mu.Lock()
	delete(c.tables, schema)
	c.mu.Unlock()
	return c.loadTables(ctx, schema)
}

func (c *Inspector) loadTables(ctx context.Context, schema string) ([]string, error) {
	v, err, _ := c.group.Do("tables:"+schema, func() (any, error) {
		names, err := c.drv.ListTables(ctx, schema)
		if err != nil {
			return nil, core.Wrap(core.KindQuery, err, "list tables in %q", schema)
		}
		sort.Strings(names)
		c.mu.Lock()
		c.tables[schema] = names
		c.mu.Unlock()
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	names, _ := v.([]string)
	return names, nil
}

// Invalidate drops every cached schema list, table list, and descriptor.
func (c *Inspector) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schemas = nil
	c.schemasLoaded = false
	c.tables = make(map[string][]string)
	c.descriptors = make(map[string]*core.TableDescriptor)
}

// Diagnostics drains and returns the diagnostics recorded by degraded
// enumeration calls since the last drain.
func (c *Inspector) Diagnostics() []core.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.diags
	c.diags = nil
	return out
}

func (c *Inspector) record(d core.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}
