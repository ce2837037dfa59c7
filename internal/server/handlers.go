package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbdeck-io/dbdeck/internal/bulk"
	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// defaultPageSize matches the CLI default.
const defaultPageSize = 50

func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, diags, err := s.svc.ListSchemas(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"schemas":     emptyIfNil(schemas),
		"diagnostics": diags,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	s.svc.RefreshCatalog()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	tables, err := s.svc.ListTables(r.Context(), schema)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": emptyIfNil(tables)})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	table := chi.URLParam(r, "table")

	desc, err := s.svc.Describe(r.Context(), schema, table)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

func (s *Server) handleFetchPage(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	table := chi.URLParam(r, "table")

	pageIndex, err := queryInt(r, "page", 0)
	if err != nil {
		badRequest(w, "page must be an integer")
		return
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		badRequest(w, "page_size must be an integer")
		return
	}

	view, err := s.svc.FetchPage(r.Context(), schema, table, pageIndex, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// reconcileRequest carries a page snapshot and its edited counterpart.
// Rows are paired by position.
type reconcileRequest struct {
	PageIndex int        `json:"page_index"`
	PageSize  int        `json:"page_size"`
	Original  []core.Row `json:"original"`
	Edited    []core.Row `json:"edited"`
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	table := chi.URLParam(r, "table")

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Original == nil || req.Edited == nil {
		badRequest(w, "both original and edited row sets are required")
		return
	}

	original := &core.Page{Index: req.PageIndex, Size: req.PageSize, Rows: req.Original}
	edited := &core.Page{Index: req.PageIndex, Size: req.PageSize, Rows: req.Edited}

	result, err := s.svc.Reconcile(r.Context(), schema, table, original, edited)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	out, diags, err := s.svc.ExportSchema(r.Context(), schema)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"export": out, "diagnostics": diags})
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")
	out, diags, err := s.svc.ExportSchemaJSON(r.Context(), schema)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"export": out, "diagnostics": diags})
}

// bulkRequest is the body of the destructive endpoints. Without Confirm the
// call only requests a confirmation token; with a valid one it executes.
type bulkRequest struct {
	Exclude []string `json:"exclude,omitempty"`
	Confirm string   `json:"confirm,omitempty"`
}

type confirmResponse struct {
	ConfirmToken string    `json:"confirm_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Message      string    `json:"message"`
}

type bulkOutcome struct {
	Table string `json:"table"`
	Error string `json:"error,omitempty"`
}

type bulkResponse struct {
	Succeeded int           `json:"succeeded"`
	Outcomes  []bulkOutcome `json:"outcomes"`
}

func (s *Server) handleTruncate(w http.ResponseWriter, r *http.Request) {
	s.handleBulk(w, r, "truncate", func(r *http.Request, req bulkRequest) (*bulk.Report, error) {
		return s.svc.TruncateExcept(r.Context(), chi.URLParam(r, "schema"), req.Exclude)
	})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	s.handleBulk(w, r, "drop", func(r *http.Request, req bulkRequest) (*bulk.Report, error) {
		return s.svc.DropAll(r.Context(), chi.URLParam(r, "schema"))
	})
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request, op string, run func(*http.Request, bulkRequest) (*bulk.Report, error)) {
	schema := chi.URLParam(r, "schema")

	var req bulkRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body: "+err.Error())
			return
		}
	}

	if req.Confirm == "" {
		token, expires := s.confirms.issue(op, schema)
		writeJSON(w, http.StatusAccepted, confirmResponse{
			ConfirmToken: token,
			ExpiresAt:    expires,
			Message:      "destructive operation; repeat the request with this confirm token to execute",
		})
		return
	}

	if !s.confirms.redeem(req.Confirm, op, schema) {
		writeJSON(w, http.StatusConflict, errorBody{Error: core.Diagnostic{
			Kind:    core.KindInvalidInput,
			Message: "confirm token is unknown, expired, or scoped to a different operation",
		}})
		return
	}

	report, err := run(r, req)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := bulkResponse{Succeeded: report.Succeeded(), Outcomes: []bulkOutcome{}}
	for _, o := range report.Outcomes {
		out := bulkOutcome{Table: o.Table}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
