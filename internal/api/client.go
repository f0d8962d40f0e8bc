package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hostwatch/internal/report"
)

// Client is a thin HTTP client for the controller endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for a controller at address:port.
func NewClient(address string, port int, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", address, port),
		token:   token,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the controller base URL, for logging.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ReportHealth POSTs one health report. The controller must answer with
// exactly 200; any other status or a transport failure is an error. The
// directive is decoded leniently: a body without a literal
// initiate_incident=true reads as "do nothing". The raw body is returned
// for the audit log.
func (c *Client) ReportHealth(ctx context.Context, h report.Health) (report.Directive, string, error) {
	body, status, err := c.post(ctx, "/health-check", h)
	if err != nil {
		return report.Directive{}, body, err
	}
	if status != http.StatusOK {
		return report.Directive{}, body, fmt.Errorf("health-check failed: status %d: %s", status, body)
	}

	var directive report.Directive
	if err := json.Unmarshal([]byte(body), &directive); err != nil {
		// Malformed directive bodies are treated as "false", not as errors.
		return report.Directive{}, body, nil
	}
	return directive, body, nil
}

// NotifyIncident POSTs the incident acknowledgment with an empty JSON
// body. The caller only logs the outcome.
func (c *Client) NotifyIncident(ctx context.Context) error {
	body, status, err := c.post(ctx, "/attack-initiated", struct{}{})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("attack-initiated failed: status %d: %s", status, body)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	return strings.TrimSpace(string(raw)), res.StatusCode, nil
}
