package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrMalformedResponse is returned when the upstream body does not carry
// the expected top-level Countries field.
var ErrMalformedResponse = errors.New("malformed upstream response")

// UpstreamError reports an upstream HTTP failure. StatusCode is 0 when
// the request never completed (transport error or timeout).
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// CountryRecord is one per-country entry of the upstream summary feed.
// Pointer fields distinguish absent values from zero values.
type CountryRecord struct {
	Country        *string `json:"Country"`
	TotalConfirmed *int64  `json:"TotalConfirmed"`
	TotalDeaths    *int64  `json:"TotalDeaths"`
	TotalRecovered *int64  `json:"TotalRecovered"`
}

type summaryResponse struct {
	Countries []CountryRecord `json:"Countries"`
	// Distinguishes "Countries": [] from a body without the field
	hasCountries bool
}

func (s *summaryResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	countries, ok := raw["Countries"]
	if !ok {
		return nil
	}
	s.hasCountries = true
	return json.Unmarshal(countries, &s.Countries)
}

// Client pulls the external statistics feed
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new statistics feed client. The timeout bounds the
// whole request; a slow upstream surfaces as UpstreamError, it never
// blocks the caller indefinitely.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchSummary performs a single attempt against the upstream feed and
// returns its per-country records. No retries.
func (c *Client) FetchSummary(ctx context.Context) ([]CountryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upstream request failed", zap.String("url", c.url), zap.Error(err))
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Upstream returned non-2xx status", zap.String("url", c.url), zap.Int("status", resp.StatusCode))
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var summary summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !summary.hasCountries {
		return nil, ErrMalformedResponse
	}

	return summary.Countries, nil
}
