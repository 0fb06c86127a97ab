// Package directory is the adapter for the employee directory
// collaborator. The booking core does not authenticate anyone; it asks
// the directory for the display name, email and department attached to
// an authenticated identity.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/baazbike/turfbook/internal/config"
)

// Employee holds the identity fields the directory resolves
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Client handles interactions with the employee directory API
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a directory client from configuration. A nil client
// is returned when no directory is configured; callers must then supply
// complete organizer details themselves.
func NewClient(cfg config.DirectoryConfig) *Client {
	if !cfg.Enabled() {
		return nil
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LookupEmployee fetches the employee record for an email address
func (c *Client) LookupEmployee(ctx context.Context, email string) (*Employee, error) {
	lookupURL := fmt.Sprintf("%s/employees?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no employee with email %s", email)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory API error (status %d): %s", resp.StatusCode, string(body))
	}

	var employee Employee
	if err := json.Unmarshal(body, &employee); err != nil {
		return nil, fmt.Errorf("failed to parse employee response: %w", err)
	}

	return &employee, nil
}
