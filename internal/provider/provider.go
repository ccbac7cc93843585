// Package provider talks to the external trend-data service. The service
// exposes a single refresh call: given a keyword and region it scrapes
// the upstream source, persists the series on its side, and returns the
// current interest, sparkline, and derived score.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// TrendData is the provider's answer for one keyword.
type TrendData struct {
	Keyword         string    `json:"keyword"`
	KeywordID       string    `json:"keyword_id"`
	CurrentInterest int       `json:"current_interest"`
	TrendScore      float64   `json:"trend_score"`
	Sparkline       []int     `json:"sparkline"`
	DataPoints      int       `json:"data_points"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Provider is the refresh contract consumed by the orchestrator.
type Provider interface {
	Refresh(ctx context.Context, keyword, region string) (TrendData, error)
}

// Error is a failed provider call. StatusCode is 0 for transport-level
// failures.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient creates a client for the service at baseURL. The timeout
// bounds each request; the provider call is the only timeout layer the
// refresh pipeline has.
func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = 1
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	return &Client{baseURL: baseURL, http: rc}
}

type refreshRequest struct {
	Keyword string `json:"keyword"`
	Region  string `json:"region"`
}

// Refresh fetches fresh trend data for a single keyword. Non-2xx
// responses become an *Error carrying the status and, when the body is
// JSON with a "detail" field, the service's own message.
func (c *Client) Refresh(ctx context.Context, keyword, region string) (TrendData, error) {
	body, err := json.Marshal(refreshRequest{Keyword: keyword, Region: region})
	if err != nil {
		return TrendData{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/refresh-trend", bytes.NewReader(body))
	if err != nil {
		return TrendData{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return TrendData{}, &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return TrendData{}, &Error{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TrendData{}, &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	var data TrendData
	if err := json.Unmarshal(raw, &data); err != nil {
		return TrendData{}, &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return data, nil
}

// errorMessage pulls a human-readable message from an error body.
// The service reports failures as {"detail": "..."}; anything else falls
// back to the HTTP status line.
func errorMessage(body []byte, status string) string {
	if detail := gjson.GetBytes(body, "detail"); detail.Exists() {
		return detail.String()
	}
	return status
}
