package handsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Result of one submission.
const (
	resultAccepted  = "accepted"
	resultDuplicate = "duplicate"
	resultFailed    = "failed"
)

// submitSample posts one sample and classifies the response.
func submitSample(ctx context.Context, client *HTTPClient, url string, s Sample) string {
	resp, err := client.Post(ctx, url, s)
	if err != nil {
		return resultFailed
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return resultFailed
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return resultAccepted
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Status == AckDuplicate {
			return resultDuplicate
		}
		return resultAccepted
	default:
		return resultFailed
	}
}

// fetchScene reads the current scene summary.
func fetchScene(ctx context.Context, client *HTTPClient, baseURL string) (SceneSummary, error) {
	var out SceneSummary
	resp, err := client.Get(ctx, baseURL+"/api/scene?elements=false")
	if err != nil {
		return out, fmt.Errorf("failed to fetch scene: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return out, fmt.Errorf("failed to read scene: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return out, fmt.Errorf("scene request failed with status: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("failed to decode scene: %w", err)
	}
	return out, nil
}
