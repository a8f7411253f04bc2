/*
handlers.go - HTTP API handlers for the PVF calculator

PURPOSE:
  Exposes the roster service over REST. Handles HTTP request/response and
  JSON/CSV serialization, and delegates to roster.Service.

ENDPOINTS:
  Employees:
    GET    /api/employees              Derived records of the latest run
    GET    /api/employees?format=csv   Same, as CSV
    GET    /api/employees/{id}         One employee's derived record

  Roster:
    GET    /api/roster                 Cached feed records
    GET    /api/roster/{id}            One cached feed record

  Calculation:
    POST   /api/calculate              Transform a posted JSON array, not cached
    POST   /api/refresh                Re-fetch the feed and record a run

  Runs:
    GET    /api/runs                   Run history, newest first
    GET    /api/summary                Totals of the latest run
    POST   /api/reset                  Drop the cache and run history

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad id, body or as_of)
  - 404: Unknown employee, or no run yet (code NO_RUN)
  - 502: Feed fetch failed during refresh
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/pvf-engine/config"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
	"github.com/warp/pvf-engine/source"
)

// RunIDHeader carries the id of the run a response was computed from.
const RunIDHeader = "X-PVF-Run-ID"

// maxCalculateBody bounds the posted roster.
const maxCalculateBody = 8 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *roster.Service
}

// NewHandler creates a new handler for svc.
func NewHandler(svc *roster.Service) *Handler {
	return &Handler{Service: svc}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the derived records of the latest run.
// GET /api/employees[?format=csv]
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	run, derived, err := h.Service.Latest(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set(RunIDHeader, run.ID)

	switch r.URL.Query().Get("format") {
	case "", config.FormatJSON:
		writeJSON(w, http.StatusOK, derived)
	case config.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="pvf.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := source.EncodeCSV(w, derived); err != nil {
			h.Service.Log.Error().Err(err).Msg("write csv")
		}
	default:
		writeErrorCode(w, http.StatusBadRequest, CodeInvalidInput, "Unknown format (use json or csv)", nil)
	}
}

// GetEmployee returns one employee's derived record from the latest run.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	d, err := h.Service.Employee(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if d == nil {
		writeErrorCode(w, http.StatusNotFound, CodeNotFound, "Employee not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// ListRoster returns the cached feed records.
// GET /api/roster
func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list roster", err)
		return
	}
	if records == nil {
		records = []pvf.EmployeeRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetRosterEntry returns one cached feed record.
// GET /api/roster/{id}
func (h *Handler) GetRosterEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.RosterEntry(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get roster entry", err)
		return
	}
	if rec == nil {
		writeErrorCode(w, http.StatusNotFound, CodeNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeErrorCode(w, http.StatusBadRequest, CodeInvalidInput, "Invalid employee id", err)
		return 0, false
	}
	return id, true
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate transforms the posted records without caching them.
// Output is positional: a record without an id yields {}.
// POST /api/calculate[?as_of=YYYY-MM-DD]
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		t, err := time.Parse(config.AsOfLayout, raw)
		if err != nil {
			writeErrorCode(w, http.StatusBadRequest, CodeInvalidInput, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
		asOf = t
	}

	var records []pvf.EmployeeRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCalculateBody)).Decode(&records); err != nil {
		writeErrorCode(w, http.StatusBadRequest, CodeInvalidInput, "Invalid request body (want a JSON array of employees)", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Service.Calculate(records, asOf))
}

// Refresh re-fetches the feed and records a new run.
// POST /api/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.Refresh(r.Context())
	if err != nil {
		writeErrorCode(w, http.StatusBadGateway, CodeFeedFailed, "Failed to refresh roster", err)
		return
	}

	w.Header().Set(RunIDHeader, run.ID)
	writeJSON(w, http.StatusCreated, toRunDTO(*run))
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// ListRuns returns the run history, newest first.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Service.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the totals of the latest run.
// GET /api/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	run, derived, err := h.Service.Latest(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set(RunIDHeader, run.ID)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Run:     toRunDTO(*run),
		Summary: roster.Summarize(derived),
	})
}

// Reset drops the cached roster and run history.
// POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset cache", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness and the id of the latest run, if any.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if run, err := h.Service.Store.LatestRun(r.Context()); err == nil && run != nil {
		resp.LastRunID = run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeErrorCode(w, status, "", message, err)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps roster errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, roster.ErrNoRun) {
		writeErrorCode(w, http.StatusNotFound, CodeNoRun, "No calculation has run yet", nil)
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to read roster", err)
}
