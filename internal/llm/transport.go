package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// endpoint is one provider's HTTP API: where to post, how to authenticate.
type endpoint struct {
	httpClient *http.Client
	headers    map[string]string
	provider   string
	url        string
}

func newEndpoint(provider, baseURL, path string, timeout time.Duration, headers map[string]string) endpoint {
	return endpoint{
		provider: provider,
		url:      baseURL + path,
		headers:  headers,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// post sends payload as JSON and decodes a 200 response into out. Failures
// come back as *Error with the matching ErrorKind.
func (e endpoint) post(ctx context.Context, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(e.provider, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return parseError(fmt.Errorf("failed to parse %s response: %w", e.provider, err))
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
