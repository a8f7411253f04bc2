package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/warp/pvf-engine/pvf"
)

// maxFeedBytes bounds the response body read from the feed.
const maxFeedBytes = 32 << 20

// HTTP fetches a JSON array of records with a single GET.
type HTTP struct {
	URL    string
	Client *http.Client
}

// StatusError is returned for a non-2xx feed response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (h *HTTP) Fetch(ctx context.Context) ([]pvf.EmployeeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: h.URL, StatusCode: resp.StatusCode}
	}

	return decodeJSON(io.LimitReader(resp.Body, maxFeedBytes))
}

func decodeJSON(r io.Reader) ([]pvf.EmployeeRecord, error) {
	var records []pvf.EmployeeRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return records, nil
}
