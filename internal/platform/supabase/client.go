// Package supabase provides a thin HTTP client for the Supabase backend:
// the PostgREST data surface (/rest/v1) and the GoTrue auth surface
// (/auth/v1). The backend owns persistence, credentials, and row-level
// security; this package only shapes requests and decodes responses.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config configures a Client.
type Config struct {
	// ProjectURL is the base URL of the Supabase project,
	// e.g. https://abc123.supabase.co.
	ProjectURL string

	// APIKey is the key sent with every request: the anon key for
	// caller-scoped access, or the service-role key to bypass row-level
	// security.
	APIKey string

	// HTTPClient overrides the default HTTP client when set.
	HTTPClient *http.Client
}

// Client performs PostgREST calls against a Supabase project's /rest/v1
// surface. A Client is safe for concurrent use.
type Client struct {
	prefix string
	apiKey string
	http   *http.Client
}

// NewClient creates a REST client for the given project.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		prefix: strings.TrimRight(cfg.ProjectURL, "/") + "/rest/v1",
		apiKey: cfg.APIKey,
		http:   httpClient,
	}, nil
}

// Select performs a GET on a table with an already-encoded query string and
// decodes the JSON array result into dest.
func (c *Client) Select(ctx context.Context, table, query string, dest any) error {
	body, _, err := c.do(ctx, http.MethodGet, c.tableURL(table, query), nil, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

// SelectOne performs a Select and decodes the first row of the result into
// dest. Returns ErrNoRows when the result set is empty.
func (c *Client) SelectOne(ctx context.Context, table, query string, dest any) error {
	body, _, err := c.do(ctx, http.MethodGet, c.tableURL(table, query), nil, nil)
	if err != nil {
		return err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("supabase: decoding result set: %w", err)
	}
	if len(rows) == 0 {
		return ErrNoRows
	}
	return json.Unmarshal(rows[0], dest)
}

// Count returns the exact number of rows matching the query without
// transferring them, using PostgREST's count preference and the
// Content-Range response header.
func (c *Client) Count(ctx context.Context, table, query string) (int, error) {
	headers := map[string]string{
		"Prefer": "count=exact",
		"Range":  "0-0",
	}
	_, resp, err := c.do(ctx, http.MethodGet, c.tableURL(table, query), headers, nil)
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

// Insert performs a POST insert into a table. When dest is non-nil the
// inserted representation is requested back and decoded into it.
func (c *Client) Insert(ctx context.Context, table string, payload, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	if dest == nil {
		headers["Prefer"] = "return=minimal"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("supabase: encoding insert payload: %w", err)
	}

	respBody, _, err := c.do(ctx, http.MethodPost, c.tableURL(table, ""), headers, body)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return decodeFirstRow(respBody, dest)
}

// Update performs a PATCH on the rows matching the query. When dest is
// non-nil the updated representation is decoded into it; ErrNoRows is
// returned when no row matched.
func (c *Client) Update(ctx context.Context, table, query string, payload, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("supabase: encoding update payload: %w", err)
	}

	respBody, _, err := c.do(ctx, http.MethodPatch, c.tableURL(table, query), headers, body)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return decodeFirstRow(respBody, dest)
}

// Delete removes the rows matching the query.
func (c *Client) Delete(ctx context.Context, table, query string) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.tableURL(table, query), nil, nil)
	return err
}

func (c *Client) tableURL(table, query string) string {
	u := c.prefix + "/" + url.PathEscape(table)
	if query != "" {
		u += "?" + query
	}
	return u
}

// do performs a request with the API key attached and maps non-2xx
// responses to an *APIError.
func (c *Client) do(
	ctx context.Context,
	method, rawURL string,
	headers map[string]string,
	body []byte,
) ([]byte, *http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("supabase: building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("supabase: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("supabase: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp, parseAPIError(resp.StatusCode, respBody)
	}
	return respBody, resp, nil
}

// decodeFirstRow decodes the first element of a JSON array response into
// dest, or the whole body when the response is a single object.
func decodeFirstRow(body []byte, dest any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return fmt.Errorf("supabase: decoding result set: %w", err)
		}
		if len(rows) == 0 {
			return ErrNoRows
		}
		return json.Unmarshal(rows[0], dest)
	}
	return json.Unmarshal(trimmed, dest)
}

// parseContentRangeTotal extracts the total from a Content-Range header of
// the form "0-0/57" or "*/0".
func parseContentRangeTotal(header string) (int, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0, fmt.Errorf("supabase: missing count in Content-Range %q", header)
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("supabase: backend did not report an exact count")
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("supabase: invalid Content-Range %q", header)
	}
	return n, nil
}
