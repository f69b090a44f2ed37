package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oval-editor/internal/component"
	"oval-editor/internal/criteria"
	"oval-editor/internal/factory"
	"oval-editor/internal/models"
	"oval-editor/internal/session"
	"oval-editor/internal/store"
	"oval-editor/internal/validate"
	"oval-editor/internal/wrapper"
)

var (
	errBadRequest = errors.New("bad request")
	errNoDatabase = errors.New("snapshots are disabled: no database configured")
)

type errorResponse struct {
	Error  string          `json:"error"`
	Issues validate.Report `json:"issues,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var report validate.Report
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, criteria.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateID), errors.Is(err, store.ErrRevisionConflict):
		return http.StatusConflict
	case errors.Is(err, criteria.ErrRootNotRemovable), errors.Is(err, component.ErrTooManyComponents),
		errors.As(err, &report):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, factory.ErrUnknownVariant), errors.Is(err, factory.ErrKindMismatch),
		errors.Is(err, factory.ErrMissingInput), errors.Is(err, factory.ErrInvalidInput),
		errors.Is(err, component.ErrUnknownFunction), errors.Is(err, component.ErrUnknownComponent),
		errors.Is(err, component.ErrInvalidAttribute),
		errors.Is(err, criteria.ErrNotCriteria), errors.Is(err, criteria.ErrCycle), errors.Is(err, criteria.ErrInvalidNode),
		errors.Is(err, wrapper.ErrInvalidMask), errors.Is(err, store.ErrEmptySnapshot):
		return http.StatusBadRequest
	case errors.Is(err, errNoDatabase):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	resp := errorResponse{Error: err.Error()}
	if report, ok := validate.AsReport(err); ok {
		resp.Issues = report
	}
	writeJSON(w, status, resp)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// withDocument resolves {docID} and runs fn holding the document lock.
func withDocument(d *Deps, w http.ResponseWriter, r *http.Request, fn func(s *session.Session, doc *models.Document) error) {
	s, err := d.Sessions.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Do(func(doc *models.Document) error { return fn(s, doc) }); err != nil {
		writeError(w, r, err)
	}
}
