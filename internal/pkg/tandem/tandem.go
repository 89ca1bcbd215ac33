package tandem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/sensor"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) Client {
	return Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Push sends one normalized reading to a Tandem Connect ingestion
// endpoint. There is no retry here; the poller tries again on its
// next cycle.
func (c Client) Push(ctx context.Context, url string, reading sensor.Reading) error {
	body, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshalling reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushing to tandem: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushing to tandem: unexpected status %d", resp.StatusCode)
	}

	return nil
}
