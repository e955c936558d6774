// Where: internal/fetcher/fetcher.go
// What: Authenticated JSON fetch from the upstream API.
// Why: Classify upstream failures so the pipeline can react per kind.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantfeed/edgesync/internal/errs"
	"github.com/quantfeed/edgesync/internal/ui"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 10 * time.Second

// Client fetches JSON documents from one upstream API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Console    *ui.Console
}

// New creates a fetch client for the given API base URL and bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Fetch retrieves the JSON document at BaseURL+sourcePath. The two parts
// are concatenated verbatim; the caller supplies a well-formed pair.
// The returned bytes are the raw response body, validated as JSON so the
// upstream key order survives into the rendered module.
func (c *Client) Fetch(ctx context.Context, sourcePath string) (json.RawMessage, error) {
	if c.Token == "" {
		return nil, errs.New(errs.KindConfiguration, "upstream API token is not set")
	}

	url := c.BaseURL + sourcePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "build request for %s", url)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	c.console().Info(fmt.Sprintf("GET %s", url))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, err, "request %s failed", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, err, "read response from %s", url)
	}

	c.console().Item("Status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusOK:
		if !json.Valid(body) {
			return nil, errs.New(errs.KindUpstreamProtocol, "response from %s is not valid JSON", url)
		}
		return json.RawMessage(body), nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errs.WithStatus(errs.KindAuthentication, resp.StatusCode,
			"upstream rejected credentials: %s", upstreamDetail(body))
	default:
		return nil, errs.WithStatus(errs.KindUpstreamHTTP, resp.StatusCode,
			"upstream returned %d: %s", resp.StatusCode, upstreamDetail(body))
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Client) console() *ui.Console {
	if c.Console != nil {
		return c.Console
	}
	return ui.New(nil)
}

// upstreamDetail extracts the upstream-provided error string when the
// body carries one, falling back to the raw body.
func upstreamDetail(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if len(body) == 0 {
		return "(empty body)"
	}
	return string(body)
}
