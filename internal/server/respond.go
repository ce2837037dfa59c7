package server

import (
	"encoding/json"
	"net/http"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

type errorBody struct {
	Error core.Diagnostic `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error's kind to an HTTP status and renders it as a
// structured diagnostic.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch core.KindOf(err) {
	case core.KindInvalidInput:
		status = http.StatusBadRequest
	case core.KindReflection:
		status = http.StatusNotFound
	case core.KindAmbiguousTarget:
		status = http.StatusConflict
	case core.KindQuery, core.KindUpdate:
		status = http.StatusBadGateway
	case core.KindConnectivity:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: core.DiagnosticFrom(err)})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error: core.Diagnostic{Kind: core.KindInvalidInput, Message: msg},
	})
}
