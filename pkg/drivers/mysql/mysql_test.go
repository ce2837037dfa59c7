package mysql

import (
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
			want: "tcp(localhost:3306)/app?parseTime=true",
		},
		{
			name: "full credentials",
			cfg: core.ConnConfig{
				Host: "db.internal", Port: 3307, Database: "app",
				Username: "admin", Password: "secret",
			},
			want: "admin:secret@tcp(db.internal:3307)/app?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestBuildDSNPasswordMetacharacters(t *testing.T) {
	dsn := buildDSN(core.ConnConfig{
		Host: "db.internal", Database: "app",
		Username: "admin", Password: "p@ss/w:rd",
	})

	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "admin", parsed.User)
	assert.Equal(t, "p@ss/w:rd", parsed.Passwd)
	assert.Equal(t, "db.internal:3306", parsed.Addr)
	assert.Equal(t, "app", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestDialect(t *testing.T) {
	d := New(nil)
	assert.Equal(t, "?", d.Placeholder(5))
	assert.Equal(t, "`users`", d.QuoteIdent("users"))
	assert.Equal(t, "`we``ird`", d.QuoteIdent("we`ird"))
	assert.Equal(t, "mysql", d.Name())
}

func TestRegistration(t *testing.T) {
	assert.True(t, driver.IsRegistered("mysql"))
	assert.True(t, driver.IsRegistered("mariadb"))
}
