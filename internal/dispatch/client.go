package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tagit-app/tagit-go/internal/models"
)

// ErrDispatch marks transient failures of the authority round-trip.
// Nothing is persisted when dispatch fails; callers may retry.
var ErrDispatch = errors.New("dispatch failed")

// Request is the wire payload of the dispatch endpoint.
type Request struct {
	Tag         models.Tag          `json:"tag"`
	Priority    models.Priority     `json:"priority"`
	Description string              `json:"description,omitempty"`
	Address     string              `json:"address,omitempty"`
	Pincode     string              `json:"pincode,omitempty"`
	Location    *models.Location    `json:"location,omitempty"`
	MediaName   string              `json:"mediaName,omitempty"`
	MediaData   string              `json:"mediaData,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	User        *models.UserProfile `json:"user,omitempty"`
}

type Response struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Authority models.AuthorityRecord `json:"authority"`
}

// Dispatcher resolves a report's authority. The production
// implementation is an HTTP round-trip to the dispatch endpoint.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (*Response, error)
}

type Client struct {
	url      string
	client   *http.Client
	attempts int
}

// NewClient builds a dispatch client with an explicit per-attempt
// timeout and a bounded number of attempts.
func NewClient(url string, timeout time.Duration, attempts int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		attempts: attempts,
	}
}

func (c *Client) Dispatch(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error encoding dispatch request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		resp, err := c.once(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		slog.Warn("dispatch attempt failed", "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("%w: %v", ErrDispatch, lastErr)
}

func (c *Client) once(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("dispatch endpoint rejected report: %s", out.Message)
	}

	return &out, nil
}
