/*
Package source retrieves the employee feed.

PURPOSE:
  The calculator consumes a plain list of records. Where that list comes
  from is configuration: an HTTP endpoint serving a JSON array, a local JSON
  file, or a CSV export with the same column names.

SEMANTICS:
  One Fetch returns the whole list. No auth, pagination or retry; a failed
  fetch is reported to the caller, which decides whether to keep serving the
  previous roster.

SEE ALSO:
  - roster/service.go: calls Fetch on refresh
  - config/config.go:  selects the source
*/
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/pvf-engine/config"
	"github.com/warp/pvf-engine/pvf"
)

// Source yields the employee feed.
type Source interface {
	Fetch(ctx context.Context) ([]pvf.EmployeeRecord, error)
}

// ErrNoSource is returned by New when neither a URL nor a file is configured.
var ErrNoSource = errors.New("no employee source configured")

// New builds the Source selected by cfg. A URL takes precedence over a file.
func New(cfg config.Config) (Source, error) {
	switch {
	case cfg.SourceURL != "":
		return &HTTP{
			URL:    cfg.SourceURL,
			Client: &http.Client{Timeout: cfg.HTTPTimeout},
		}, nil
	case cfg.SourceFile == "":
		return nil, ErrNoSource
	case cfg.SourceFormat == config.FormatCSV:
		return &CSVFile{Path: cfg.SourceFile}, nil
	case cfg.SourceFormat == config.FormatJSON, cfg.SourceFormat == "":
		return &JSONFile{Path: cfg.SourceFile}, nil
	default:
		return nil, fmt.Errorf("unknown source format %q", cfg.SourceFormat)
	}
}

// Static serves a fixed list. Used by the calculate endpoint and tests.
type Static []pvf.EmployeeRecord

func (s Static) Fetch(_ context.Context) ([]pvf.EmployeeRecord, error) {
	out := make([]pvf.EmployeeRecord, len(s))
	copy(out, s)
	return out, nil
}

const defaultHTTPTimeout = 10 * time.Second
