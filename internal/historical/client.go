package historical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultBaseURL is F1's public static archive, the same host the
// original recorder downloads historical sessions from.
const DefaultBaseURL = "https://livetiming.formula1.com/static"

// requestTimeout bounds a single archive download; the schedule index and
// individual topic files are all small enough that a slow response is
// worth failing fast on rather than hanging the whole backfill.
const requestTimeout = 30 * time.Second

// Client downloads schedule and topic data from the historical archive.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client against baseURL, or DefaultBaseURL if empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) joinURL(parts ...string) string {
	u := strings.TrimRight(c.BaseURL, "/")
	for i, p := range parts {
		// A leading absolute URL (e.g. one returned by SessionURL) replaces
		// BaseURL instead of being appended to it.
		if i == 0 && (strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")) {
			u = strings.TrimRight(p, "/")
			continue
		}
		u += "/" + strings.TrimLeft(p, "/")
	}
	return u
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("historical: build request for %s: %w", rawURL, err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("historical: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("historical: read %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("historical: %s returned %d", rawURL, resp.StatusCode)
	}
	if strings.Contains(string(body), "<Error><Code>NoSuchKey</Code>") {
		return nil, fmt.Errorf("historical: no such key at %s", rawURL)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("historical: parse JSON from %s: %w", rawURL, err)
	}
	return nil
}

// validateURLPathSegment rejects a schedule-reported session path that
// could escape the archive host's directory tree once joined into a URL.
// Session.Path legitimately contains slashes (it's a directory prefix),
// so only ".." traversal and absolute-URL smuggling are disallowed.
func validateURLPathSegment(segment string) error {
	if segment == "" || strings.Contains(segment, "..") {
		return fmt.Errorf("historical: invalid path segment %q", segment)
	}
	parsed, err := url.Parse(segment)
	if err != nil {
		return fmt.Errorf("historical: invalid path segment %q: %w", segment, err)
	}
	if parsed.IsAbs() {
		return fmt.Errorf("historical: path segment %q must be relative", segment)
	}
	return nil
}
