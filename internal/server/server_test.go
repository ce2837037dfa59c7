package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbdeck-io/dbdeck/internal/admin"
	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// testDriver serves canned metadata over a sqlmock pool so handler tests can
// run the full service stack without a database.
type testDriver struct {
	db      *sql.DB
	schemas []string
	tables  []string
	descs   map[string]*core.TableDescriptor
}

func (d *testDriver) Connect(context.Context, core.ConnConfig) error { return nil }
func (d *testDriver) Close() error                                   { return d.db.Close() }
func (d *testDriver) Pool() *sql.DB                                  { return d.db }
func (d *testDriver) ListSchemas(context.Context) ([]string, error)  { return d.schemas, nil }
func (d *testDriver) ListTables(context.Context, string) ([]string, error) {
	return d.tables, nil
}
func (d *testDriver) Describe(_ context.Context, schema, table string) (*core.TableDescriptor, error) {
	desc, ok := d.descs[table]
	if !ok {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}
	return desc, nil
}
func (d *testDriver) QuoteIdent(ident string) string { return `"` + ident + `"` }
func (d *testDriver) Placeholder(n int) string       { return fmt.Sprintf("$%d", n) }
func (d *testDriver) Name() string                   { return "testdrv" }

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	drv := &testDriver{
		db:      db,
		schemas: []string{"public"},
		tables:  []string{"logs", "users"},
		descs: map[string]*core.TableDescriptor{
			"users": {Schema: "public", Name: "users", Columns: []core.Column{
				{Name: "id", Type: "integer", Position: 1, PrimaryKey: true},
				{Name: "name", Type: "text", Position: 2},
			}},
			"logs": {Schema: "public", Name: "logs", Columns: []core.Column{
				{Name: "message", Type: "text", Position: 1},
			}},
		},
	}
	driver.Register("testdrv", func(*slog.Logger) driver.Driver { return drv })

	svc := admin.New(core.ConnConfig{Type: "testdrv"}, slog.New(slog.DiscardHandler))
	return New(Config{Service: svc, Addr: ":0"}), mock
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_Schemas(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Schemas []string `json:"schemas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"public"}, body.Schemas)
}

func TestServer_Tables(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas/public/tables", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tables []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"logs", "users"}, body.Tables)
}

func TestServer_Describe(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas/public/tables/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var desc core.TableDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &desc))
	assert.Equal(t, "users", desc.Name)
	assert.Len(t, desc.Columns, 2)
}

func TestServer_Describe_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas/public/tables/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_FetchPage(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT COUNT(*) FROM "public"."users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT "id", "name" FROM "public"."users" ORDER BY "id" LIMIT 2 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "alice").
			AddRow(int64(2), "bob"))

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas/public/tables/users/rows?page=0&page_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view admin.PageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(3), view.TotalRows)
	assert.Equal(t, 2, view.PageCount)
	assert.Len(t, view.Page.Rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_FetchPage_BadParams(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas/public/tables/users/rows?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Reconcile_MissingBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/schemas/public/tables/users/rows",
		`{"page_index":0,"page_size":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Reconcile_NoPrimaryKey(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/schemas/public/tables/logs/rows",
		`{"page_index":0,"page_size":10,"original":[{"message":"a"}],"edited":[{"message":"b"}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Reconcile(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "public"."users" SET "id" = $1, "name" = $2 WHERE "id" = $3`).
		WithArgs(float64(1), "alicia", float64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := doRequest(t, srv, http.MethodPost, "/api/schemas/public/tables/users/rows",
		`{"page_index":0,"page_size":10,
		  "original":[{"id":1,"name":"alice"}],
		  "edited":[{"id":1,"name":"alicia"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		RowsUpdated int `json:"rows_updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.RowsUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_Export(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/schemas/public/export.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Export map[string][]string `json:"export"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"id", "name"}, body.Export["users"])
	assert.Equal(t, []string{"message"}, body.Export["logs"])
}

func TestServer_Truncate_TwoStep(t *testing.T) {
	srv, mock := newTestServer(t)

	// First call requests confirmation; nothing executes.
	rec := doRequest(t, srv, http.MethodPost, "/api/schemas/public/truncate",
		`{"exclude":["users"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var confirm confirmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirm))
	require.NotEmpty(t, confirm.ConfirmToken)

	// Second call with the token executes.
	mock.ExpectExec(`TRUNCATE TABLE "public"."logs"`).WillReturnResult(sqlmock.NewResult(0, 0))

	rec = doRequest(t, srv, http.MethodPost, "/api/schemas/public/truncate",
		fmt.Sprintf(`{"exclude":["users"],"confirm":%q}`, confirm.ConfirmToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body bulkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Succeeded)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The token does not work twice.
	rec = doRequest(t, srv, http.MethodPost, "/api/schemas/public/truncate",
		fmt.Sprintf(`{"confirm":%q}`, confirm.ConfirmToken))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Drop_TokenScope(t *testing.T) {
	srv, _ := newTestServer(t)

	// A truncate token must not authorize a drop.
	rec := doRequest(t, srv, http.MethodPost, "/api/schemas/public/truncate", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var confirm confirmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirm))

	rec = doRequest(t, srv, http.MethodPost, "/api/schemas/public/drop",
		fmt.Sprintf(`{"confirm":%q}`, confirm.ConfirmToken))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Drop_InvalidToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/schemas/public/drop",
		`{"confirm":"not-a-token"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
