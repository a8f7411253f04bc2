/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  JSON shapes that are not domain types. Derived records are served as
  pvf.DerivedRecord directly so the output keys match the feed.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Wrappers

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/pvf-engine/config"
	"github.com/warp/pvf-engine/roster"
)

// RunDTO is one calculation run.
type RunDTO struct {
	ID              string  `json:"id"`
	AsOf            string  `json:"as_of"`
	MinMonths       int     `json:"min_months"`
	BondRatePercent float64 `json:"bond_rate_percent"`
	Computed        int     `json:"computed"`
	Skipped         int     `json:"skipped"`
	Warnings        int     `json:"warnings"`
	CreatedAt       string  `json:"created_at"`
}

// SummaryResponse pairs a run with its totals.
type SummaryResponse struct {
	Run     RunDTO         `json:"run"`
	Summary roster.Summary `json:"summary"`
}

// HealthResponse is returned by /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	LastRunID string `json:"last_run_id,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error codes.
const (
	CodeNoRun        = "NO_RUN"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeFeedFailed   = "FEED_FAILED"
)

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toRunDTO(run roster.Run) RunDTO {
	return RunDTO{
		ID:              run.ID,
		AsOf:            run.AsOf.Format(config.AsOfLayout),
		MinMonths:       run.MinMonths,
		BondRatePercent: run.BondRatePercent,
		Computed:        run.Computed,
		Skipped:         run.Skipped,
		Warnings:        run.Warnings,
		CreatedAt:       run.CreatedAt.Format(time.RFC3339),
	}
}
