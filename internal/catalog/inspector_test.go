package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// fakeDriver is a programmable in-memory driver for catalog tests.
type fakeDriver struct {
	schemas     []string
	tables      map[string][]string
	descs       map[string]*core.TableDescriptor
	schemasErr  error
	tablesErr   error
	describeErr error

	schemaCalls   int
	tableCalls    int
	describeCalls int
}

func (d *fakeDriver) Connect(context.Context, core.ConnConfig) error { return nil }
func (d *fakeDriver) Close() error                                   { return nil }
func (d *fakeDriver) Pool() *sql.DB                                  { return nil }
func (d *fakeDriver) QuoteIdent(ident string) string                 { return `"` + ident + `"` }
func (d *fakeDriver) Placeholder(n int) string                       { return fmt.Sprintf("$%d", n) }
func (d *fakeDriver) Name() string                                   { return "fake" }

func (d *fakeDriver) ListSchemas(context.Context) ([]string, error) {
	d.schemaCalls++
	return d.schemas, d.schemasErr
}

func (d *fakeDriver) ListTables(_ context.Context, schema string) ([]string, error) {
	d.tableCalls++
	if d.tablesErr != nil {
		return nil, d.tablesErr
	}
	return d.tables[schema], nil
}

func (d *fakeDriver) Describe(_ context.Context, schema, table string) (*core.TableDescriptor, error) {
	d.describeCalls++
	if d.describeErr != nil {
		return nil, d.describeErr
	}
	desc, ok := d.descs[schema+"."+table]
	if !ok {
		return nil, errors.New("no such table")
	}
	return desc, nil
}

func TestInspector_Schemas_Caching(t *testing.T) {
	drv := &fakeDriver{schemas: []string{"public", "audit"}}
	c := NewInspector(drv, nil)

	assert.Equal(t, []string{"public", "audit"}, c.Schemas(context.Background()))
	assert.Equal(t, []string{"public", "audit"}, c.Schemas(context.Background()))
	assert.Equal(t, 1, drv.schemaCalls, "second call must hit the cache")

	c.Invalidate()
	_ = c.Schemas(context.Background())
	assert.Equal(t, 2, drv.schemaCalls)
}

func TestInspector_Schemas_DegradesOnFailure(t *testing.T) {
	drv := &fakeDriver{schemasErr: errors.New("catalog unavailable")}
	c := NewInspector(drv, nil)

	assert.Empty(t, c.Schemas(context.Background()))

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, core.KindQuery, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "catalog unavailable")

	// Drained.
	assert.Empty(t, c.Diagnostics())
}

func TestInspector_Tables(t *testing.T) {
	drv := &fakeDriver{tables: map[string][]string{
		"public": {"users", "orders", "logs"},
	}}
	c := NewInspector(drv, nil)

	tables, err := c.Tables(context.Background(), "public")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs", "orders", "users"}, tables, "tables are sorted")

	_, err = c.Tables(context.Background(), "public")
	require.NoError(t, err)
	assert.Equal(t, 1, drv.tableCalls)

	// Fresh bypasses the cache entry.
	drv.tables["public"] = []string{"users"}
	tables, err = c.TablesFresh(context.Background(), "public")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)
	assert.Equal(t, 2, drv.tableCalls)
}

func TestInspector_Tables_Error(t *testing.T) {
	drv := &fakeDriver{tablesErr: errors.New("boom")}
	c := NewInspector(drv, nil)

	_, err := c.Tables(context.Background(), "public")
	require.Error(t, err)
	assert.Equal(t, core.KindQuery, core.KindOf(err))
}

func TestInspector_Describe(t *testing.T) {
	desc := &core.TableDescriptor{Schema: "public", Name: "users", Columns: []core.Column{
		{Name: "id", Type: "integer", Position: 1, PrimaryKey: true},
	}}
	drv := &fakeDriver{descs: map[string]*core.TableDescriptor{"public.users": desc}}
	c := NewInspector(drv, nil)

	got, err := c.Describe(context.Background(), "public", "users")
	require.NoError(t, err)
	assert.Same(t, desc, got)

	_, err = c.Describe(context.Background(), "public", "users")
	require.NoError(t, err)
	assert.Equal(t, 1, drv.describeCalls, "descriptor is memoized")

	_, err = c.DescribeFresh(context.Background(), "public", "users")
	require.NoError(t, err)
	assert.Equal(t, 2, drv.describeCalls)
}

func TestInspector_Describe_Error(t *testing.T) {
	drv := &fakeDriver{}
	c := NewInspector(drv, nil)

	_, err := c.Describe(context.Background(), "public", "ghost")
	require.Error(t, err)
	assert.Equal(t, core.KindReflection, core.KindOf(err))
}
