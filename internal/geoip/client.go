// Package geoip resolves a client address to a country name via the
// ipwho.is HTTP API. The lookup is best-effort: callers substitute a
// sentinel on any error and never retry.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://ipwho.is"

// Resolver is the country-lookup contract the click logger depends on.
type Resolver interface {
	Country(ctx context.Context, ip string) (string, error)
}

// Client calls the ipwho.is API with a short timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Second},
	}
}

type lookupResponse struct {
	Success bool   `json:"success"`
	Country string `json:"country"`
}

// Country returns the country name for ip. Transport errors, non-2xx
// statuses, malformed bodies, and inconclusive lookups all come back as
// errors; the caller decides what stands in for the answer.
func (c *Client) Country(ctx context.Context, ip string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+ip, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geoip lookup: unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("geoip lookup: %w", err)
	}
	if !body.Success || body.Country == "" {
		return "", fmt.Errorf("geoip lookup: no country for %s", ip)
	}
	return body.Country, nil
}
