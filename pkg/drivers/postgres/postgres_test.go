package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  core.ConnConfig
		want string
	}{
		{
			name: "defaults",
			cfg:  core.ConnConfig{Database: "app"},
			want: "host=localhost port=5432 dbname=app sslmode=disable",
		},
		{
			name: "full credentials",
			cfg: core.ConnConfig{
				Host: "db.internal", Port: 5433, Database: "app",
				Username: "admin", Password: "secret",
			},
			want: "host=db.internal port=5433 dbname=app sslmode=disable user=admin password=secret",
		},
		{
			name: "sslmode from options",
			cfg: core.ConnConfig{
				Database: "app",
				Options:  map[string]string{"sslmode": "require"},
			},
			want: "host=localhost port=5432 dbname=app sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestDialect(t *testing.T) {
	d := New(nil)
	assert.Equal(t, "$1", d.Placeholder(1))
	assert.Equal(t, "$12", d.Placeholder(12))
	assert.Equal(t, `"users"`, d.QuoteIdent("users"))
	assert.Equal(t, "postgres", d.Name())
}

func TestRegistration(t *testing.T) {
	assert.True(t, driver.IsRegistered("postgres"))
	assert.True(t, driver.IsRegistered("postgresql"))
}
