package wtec

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/sensor"
)

type Client struct {
	httpClient *http.Client
	user       string
	password   string
}

// NewClient returns a reader for the WTEC gateway. The gateway lives
// on an isolated bridged segment and serves a self-signed cert, so
// certificate verification is disabled.
func NewClient(user, password string, timeout time.Duration) Client {
	return Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		},
		user:     user,
		password: password,
	}
}

// Read fetches one sensor snapshot from the given endpoint. There is
// no retry here; the poller tries again on its next cycle.
func (c Client) Read(ctx context.Context, url string) (sensor.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sensor.Document{}, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sensor.Document{}, fmt.Errorf("fetching sensor data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return sensor.Document{}, fmt.Errorf("fetching sensor data: unexpected status %d", resp.StatusCode)
	}

	var doc sensor.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return sensor.Document{}, fmt.Errorf("decoding sensor data: %w", err)
	}

	return doc, nil
}
