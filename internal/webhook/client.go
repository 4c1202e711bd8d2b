// Package webhook is the HTTP/JSON client for the workflow engine that owns
// the security checklist.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"secboard/internal/checklist"
	"secboard/internal/logging"
)

const maxErrorBody = 512

// Client talks to the checklist webhooks.
type Client struct {
	baseURL    string
	endpoints  Endpoints
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit caps outbound requests per second. A non-positive rate
// disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the webhooks under baseURL.
func NewClient(baseURL string, endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints.withDefaults(),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchChecklist loads the full checklist snapshot.
func (c *Client) FetchChecklist(ctx context.Context) (checklist.Snapshot, error) {
	data, err := c.do(ctx, http.MethodGet, c.endpoints.Tasks, nil)
	if err != nil {
		return checklist.Snapshot{}, err
	}
	if err := ValidateChecklist(data); err != nil {
		return checklist.Snapshot{}, err
	}
	var snap checklist.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return checklist.Snapshot{}, fmt.Errorf("decode checklist: %w", err)
	}
	return snap, nil
}

// FetchProgress loads the overall progress counters.
func (c *Client) FetchProgress(ctx context.Context) (checklist.Progress, error) {
	var p checklist.Progress
	if err := c.doJSON(ctx, http.MethodGet, c.endpoints.Progress, nil, &p); err != nil {
		return checklist.Progress{}, err
	}
	return p, nil
}

// UpdateTask changes a task's completion and/or notes.
func (c *Client) UpdateTask(ctx context.Context, req UpdateTaskRequest) error {
	if req.TaskID.IsZero() {
		return fmt.Errorf("update task: missing task id")
	}
	_, err := c.do(ctx, http.MethodPost, c.endpoints.UpdateTask, req)
	return err
}

// Export asks the workflow engine for the ready-made CSV report.
func (c *Client) Export(ctx context.Context) (ExportResult, error) {
	var res ExportResult
	if err := c.doJSON(ctx, http.MethodGet, c.endpoints.Export, nil, &res); err != nil {
		return ExportResult{}, err
	}
	return res, nil
}

// MarkAll marks every task complete on the server.
func (c *Client) MarkAll(ctx context.Context, completedBy string) error {
	_, err := c.do(ctx, http.MethodPost, c.endpoints.MarkAll, markAllRequest{CompletedBy: completedBy})
	return err
}

// ResetWeek marks every task pending on the server.
func (c *Client) ResetWeek(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, c.endpoints.ResetWeek, struct{}{})
	return err
}

// AutomationStatus lists the state of each automation.
func (c *Client) AutomationStatus(ctx context.Context) ([]AutomationItem, error) {
	var items []AutomationItem
	if err := c.doJSON(ctx, http.MethodGet, c.endpoints.AutomationStatus, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	data, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: rate limit: %w", endpoint, err)
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("webhook request failed", "method", method, "endpoint", endpoint, "request_id", requestID, "err", err)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", endpoint, err)
	}
	c.logger.Debug("webhook request", "method", method, "endpoint", endpoint, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := truncateBody(strings.TrimSpace(string(data)), maxErrorBody)
		c.logger.Warn("webhook returned error status", "endpoint", endpoint, "status", resp.StatusCode, "request_id", requestID)
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: msg}
	}
	return data, nil
}

// truncateBody cuts s to at most n bytes on a rune boundary.
func truncateBody(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}
