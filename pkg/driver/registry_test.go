package driver

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// stubDriver satisfies Driver for registry tests.
type stubDriver struct {
	Base
	logger *slog.Logger
}

func (d *stubDriver) Connect(context.Context, core.ConnConfig) error { return nil }
func (d *stubDriver) ListSchemas(context.Context) ([]string, error)  { return nil, nil }
func (d *stubDriver) ListTables(context.Context, string) ([]string, error) {
	return nil, nil
}
func (d *stubDriver) Describe(context.Context, string, string) (*core.TableDescriptor, error) {
	return nil, nil
}
func (d *stubDriver) Placeholder(int) string { return "?" }
func (d *stubDriver) Name() string           { return "stub" }
func (d *stubDriver) Pool() *sql.DB          { return nil }

func TestRegistry(t *testing.T) {
	Register("stub", func(logger *slog.Logger) Driver {
		return &stubDriver{logger: logger}
	})

	assert.True(t, IsRegistered("stub"))
	assert.Contains(t, List(), "stub")

	drv, err := New(core.ConnConfig{Type: "stub"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stub", drv.Name())

	// The nil logger is replaced before the factory runs.
	assert.NotNil(t, drv.(*stubDriver).logger)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(core.ConnConfig{Type: "oracle"}, nil)
	require.Error(t, err)

	var unknown *UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
}

func TestNew_MissingType(t *testing.T) {
	_, err := New(core.ConnConfig{}, nil)
	assert.Error(t, err)
}
