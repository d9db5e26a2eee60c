package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgview/dgview/internal/remote"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	auth   string
	body   []byte
}

func newTestClient(t *testing.T, status int, responseBody string) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = map[string]string{}
		for name, values := range r.URL.Query() {
			rec.query[name] = values[0]
		}
		rec.auth = r.Header.Get("Authorization")
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, responseBody)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&Config{
		BaseURL:     srv.URL,
		AccessToken: "secret-token",
		MaxRetries:  0,
		Timeout:     5 * time.Second,
	})
	return client, rec
}

func TestFetchObjectsEncodesQuery(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `{"objects":[],"common_prefixes":[],"cursor":null,"limited":false}`)

	_, err := client.FetchObjects(context.Background(), remote.Query{
		Bucket:        "photos",
		Prefix:        "2024/",
		Search:        "vacation",
		Cursor:        "abc123",
		Limit:         500,
		Sort:          "modified",
		Order:         "desc",
		Compressed:    remote.CompressedOnly,
		FetchMetadata: true,
		BypassCache:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/objects/", rec.path)
	assert.Equal(t, "photos", rec.query["bucket"])
	assert.Equal(t, "2024/", rec.query["prefix"])
	assert.Equal(t, "vacation", rec.query["search"])
	assert.Equal(t, "abc123", rec.query["cursor"])
	assert.Equal(t, "500", rec.query["limit"])
	assert.Equal(t, "modified", rec.query["sort"])
	assert.Equal(t, "desc", rec.query["order"])
	assert.Equal(t, "true", rec.query["compressed"])
	assert.Equal(t, "true", rec.query["fetch_metadata"])
	assert.Equal(t, "true", rec.query["bypass_cache"])
	assert.Equal(t, "Bearer secret-token", rec.auth)
}

func TestFetchObjectsOmitsUnsetParams(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `{"objects":[],"common_prefixes":[],"cursor":null,"limited":false}`)

	_, err := client.FetchObjects(context.Background(), remote.Query{Bucket: "photos", Limit: 100})
	require.NoError(t, err)

	assert.Equal(t, "photos", rec.query["bucket"])
	assert.Equal(t, "100", rec.query["limit"])
	assert.Equal(t, "false", rec.query["fetch_metadata"], "fetch_metadata is always sent")
	assert.NotContains(t, rec.query, "compressed", "unfiltered queries omit the param")
	assert.NotContains(t, rec.query, "bypass_cache")
	assert.NotContains(t, rec.query, "prefix")
	assert.NotContains(t, rec.query, "cursor")
}

func TestFetchObjectsDecodesPage(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{
		"objects": [
			{"key": "a.bin", "original_bytes": 1000, "stored_bytes": 100, "compressed": true, "modified": "2024-01-15T10:00:00Z"}
		],
		"common_prefixes": ["docs/"],
		"cursor": "next-page",
		"limited": true
	}`)

	page, err := client.FetchObjects(context.Background(), remote.Query{Bucket: "photos"})
	require.NoError(t, err)

	require.Len(t, page.Objects, 1)
	assert.Equal(t, "a.bin", page.Objects[0].Key)
	assert.Equal(t, int64(1000), page.Objects[0].OriginalBytes)
	assert.True(t, page.Objects[0].Compressed)
	assert.Equal(t, []string{"docs/"}, page.CommonPrefixes)
	assert.Equal(t, "next-page", page.Cursor)
	assert.True(t, page.Limited)
}

func TestFetchObjectsNullCursor(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"objects":[],"common_prefixes":[],"cursor":null,"limited":false}`)

	page, err := client.FetchObjects(context.Background(), remote.Query{Bucket: "photos"})
	require.NoError(t, err)
	assert.Equal(t, "", page.Cursor)
}

func TestErrorResponseDecoded(t *testing.T) {
	client, _ := newTestClient(t, http.StatusNotFound, `{"code":"bucket_not_found","message":"no such bucket"}`)

	_, err := client.FetchObjects(context.Background(), remote.Query{Bucket: "missing"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "bucket_not_found", apiErr.Code)
	assert.Equal(t, "no such bucket", apiErr.Message)
}

func TestErrorResponseUndecodableBody(t *testing.T) {
	client, _ := newTestClient(t, http.StatusInternalServerError, `<html>gateway</html>`)

	_, err := client.FetchObjects(context.Background(), remote.Query{Bucket: "photos"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestListBuckets(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `{
		"buckets": [
			{"name": "photos", "object_count": 42, "original_bytes": 5000, "stored_bytes": 800, "savings_pct": 84.0, "pending": false}
		]
	}`)

	buckets, err := client.ListBuckets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/buckets/", rec.path)
	require.Len(t, buckets, 1)
	assert.Equal(t, "photos", buckets[0].Name)
	assert.Equal(t, int64(42), buckets[0].ObjectCount)
	assert.InDelta(t, 84.0, buckets[0].SavingsPct, 0.001)
	assert.False(t, buckets[0].Pending)
}

func TestObjectMetadataEscapesKey(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `{"key":"docs/report 2024.pdf","original_bytes":100,"stored_bytes":10,"compressed":true,"modified":"2024-01-15T10:00:00Z","content_type":"application/pdf"}`)

	detail, err := client.ObjectMetadata(context.Background(), "photos", "docs/report 2024.pdf")
	require.NoError(t, err)

	assert.Equal(t, "/api/objects/photos/docs/report 2024.pdf/metadata", rec.path,
		"slashes stay as segment separators, other characters are escaped")
	assert.Equal(t, "docs/report 2024.pdf", detail.Key)
	assert.Equal(t, "application/pdf", detail.ContentType)
}

func TestDeleteObject(t *testing.T) {
	client, rec := newTestClient(t, http.StatusNoContent, ``)

	err := client.DeleteObject(context.Background(), "photos", "a.bin")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/objects/photos/a.bin", rec.path)
}

func TestBulkDelete(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `{
		"deleted": ["a.bin", "b.bin"],
		"errors": ["c.bin: access denied"],
		"total_requested": 3,
		"total_deleted": 2,
		"total_errors": 1
	}`)

	result, err := client.BulkDelete(context.Background(), "photos", []string{"a.bin", "b.bin", "c.bin"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/objects/bulk", rec.path)

	var sent struct {
		Bucket string   `json:"bucket"`
		Keys   []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "photos", sent.Bucket)
	assert.Equal(t, []string{"a.bin", "b.bin", "c.bin"}, sent.Keys)

	assert.Equal(t, []string{"a.bin", "b.bin"}, result.Deleted)
	assert.Equal(t, 2, result.TotalDeleted)
	assert.Equal(t, 1, result.TotalErrors)
}

func TestDownloadURL(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `{
		"download_url": "https://storage.example.com/presigned?sig=abc",
		"expires_in": 900,
		"expires_at": 1705313700
	}`)

	result, err := client.DownloadURL(context.Background(), "photos", "a.bin", 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/downloads/presigned-url", rec.path)

	var sent struct {
		Bucket    string `json:"bucket"`
		Key       string `json:"key"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "photos", sent.Bucket)
	assert.Equal(t, "a.bin", sent.Key)
	assert.Equal(t, 900, sent.ExpiresIn)

	assert.Equal(t, "https://storage.example.com/presigned?sig=abc", result.DownloadURL)
	assert.Equal(t, 900, result.ExpiresIn)
}
