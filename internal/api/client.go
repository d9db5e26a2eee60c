// Package api implements the HTTP client for the storage-browser listing
// API: paginated object listings, bucket stats, metadata, deletion, and
// presigned downloads.
package api

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

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/dgview/dgview/internal/remote"
)

// Config holds HTTP-mode connection settings.
type Config struct {
	BaseURL     string
	AccessToken string
	MaxRetries  int
	Timeout     time.Duration
}

// Client talks to the listing API. It satisfies remote.Fetcher.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	token   string
}

// NewClient builds a client with retrying transport. Retries cover transient
// transport failures only; application-level errors surface to the caller.
func NewClient(cfg *Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil
	// Hand back the final 5xx response instead of a synthetic error so the
	// API error body still gets decoded.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		http:    rc,
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
	}
}

// FetchObjects implements remote.Fetcher against GET /api/objects/.
func (c *Client) FetchObjects(ctx context.Context, q remote.Query) (*remote.Page, error) {
	values := url.Values{}
	values.Set("bucket", q.Bucket)
	if q.Prefix != "" {
		values.Set("prefix", q.Prefix)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Cursor != "" {
		values.Set("cursor", q.Cursor)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Order != "" {
		values.Set("order", q.Order)
	}
	switch q.Compressed {
	case remote.CompressedOnly:
		values.Set("compressed", "true")
	case remote.CompressedNone:
		values.Set("compressed", "false")
	}
	values.Set("fetch_metadata", strconv.FormatBool(q.FetchMetadata))
	if q.BypassCache {
		values.Set("bypass_cache", "true")
	}

	var resp objectListResponse
	if err := c.get(ctx, "/api/objects/?"+values.Encode(), &resp); err != nil {
		return nil, err
	}

	page := &remote.Page{
		Objects:        resp.Objects,
		CommonPrefixes: resp.CommonPrefixes,
		Limited:        resp.Limited,
	}
	if resp.Cursor != nil {
		page.Cursor = *resp.Cursor
	}
	return page, nil
}

// ListBuckets returns all buckets with their stats.
func (c *Client) ListBuckets(ctx context.Context) ([]remote.BucketStats, error) {
	var resp bucketListResponse
	if err := c.get(ctx, "/api/buckets/", &resp); err != nil {
		return nil, err
	}
	return resp.Buckets, nil
}

// ObjectMetadata fetches the detail record for one object.
func (c *Client) ObjectMetadata(ctx context.Context, bucket, key string) (*remote.ObjectDetail, error) {
	path := fmt.Sprintf("/api/objects/%s/%s/metadata", url.PathEscape(bucket), escapeKeyPath(key))
	var meta remote.ObjectDetail
	if err := c.get(ctx, path, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// DeleteObject removes a single object.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	path := fmt.Sprintf("/api/objects/%s/%s", url.PathEscape(bucket), escapeKeyPath(key))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// BulkDelete removes multiple keys in one call. Per-key failures come back
// in the result, not as an error.
func (c *Client) BulkDelete(ctx context.Context, bucket string, keys []string) (*remote.BulkDeleteResult, error) {
	body := map[string]any{"bucket": bucket, "keys": keys}
	var result remote.BulkDeleteResult
	if err := c.do(ctx, http.MethodDelete, "/api/objects/bulk", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadURL asks the API for a presigned download link.
func (c *Client) DownloadURL(ctx context.Context, bucket, key string, expiresIn time.Duration) (*remote.PresignedURL, error) {
	body := map[string]any{
		"bucket":     bucket,
		"key":        key,
		"expires_in": int(expiresIn.Seconds()),
	}
	var result remote.PresignedURL
	if err := c.do(ctx, http.MethodPost, "/api/downloads/presigned-url", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			logrus.Debugf("api: undecodable error body for %s %s: %v", method, path, decodeErr)
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// escapeKeyPath escapes an object key for use as a path suffix while keeping
// its slashes as segment separators.
func escapeKeyPath(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
