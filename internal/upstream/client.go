// Package upstream holds the HTTP clients for the external collaborators the
// session service depends on: the profile store and the AI scoring provider.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// httpDoer is the slice of *http.Client the clients use.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func defaultClient(client httpDoer) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// getJSON issues a GET and decodes a JSON body into out. Non-2xx statuses and
// transport failures are returned as errors for the caller to wrap.
func getJSON(ctx context.Context, client httpDoer, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

// postStatus issues a bodyless POST and checks only the status code.
func postStatus(ctx context.Context, client httpDoer, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, resp.Request.URL)
	}
	return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, resp.Request.URL, trimmed)
}
