package listing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgview/dgview/internal/remote"
)

// scriptedFetcher replays canned pages and records every query it saw.
type scriptedFetcher struct {
	pages   []*remote.Page
	queries []remote.Query
	err     error
}

func (f *scriptedFetcher) FetchObjects(ctx context.Context, q remote.Query) (*remote.Page, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &remote.Page{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

// generatedFetcher serves an endless listing of total objects in fixed-size
// server pages, keys ascending.
type generatedFetcher struct {
	total   int
	queries []remote.Query
}

func (f *generatedFetcher) FetchObjects(ctx context.Context, q remote.Query) (*remote.Page, error) {
	f.queries = append(f.queries, q)

	start := 0
	if q.Cursor != "" {
		fmt.Sscanf(q.Cursor, "%d", &start)
	}
	end := start + q.Limit
	if end > f.total {
		end = f.total
	}

	page := &remote.Page{}
	for i := start; i < end; i++ {
		page.Objects = append(page.Objects, remote.ObjectItem{
			Key:           fmt.Sprintf("obj-%07d", i),
			OriginalBytes: 100,
			StoredBytes:   40,
			Compressed:    true,
			Modified:      time.Unix(int64(i), 0),
		})
	}
	if end < f.total {
		page.Cursor = fmt.Sprintf("%d", end)
	}
	return page, nil
}

func TestFetchAllSinglePage(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []*remote.Page{{
		Objects: []remote.ObjectItem{
			{Key: "docs/A.txt", OriginalBytes: 10, StoredBytes: 10},
			{Key: "docs/b.txt", OriginalBytes: 20, StoredBytes: 8, Compressed: true},
		},
		CommonPrefixes: []string{"docs/sub/"},
	}}}

	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{Bucket: "b", Prefix: "docs/"})
	require.NoError(t, err)

	assert.Equal(t, 2, cache.TotalObjects)
	assert.Equal(t, 1, cache.TotalDirectories)
	assert.False(t, cache.Limited)
	assert.Equal(t, "docs/a.txt", cache.Objects[0].KeyLower())
}

func TestFetchAllFollowsCursorAndReportsProgress(t *testing.T) {
	fetcher := &generatedFetcher{total: 1000}

	var progress []int
	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{
		Bucket:     "b",
		OnProgress: func(loaded int) { progress = append(progress, loaded) },
	})
	require.NoError(t, err)

	assert.Equal(t, []int{500, 1000}, progress)
	assert.Equal(t, 1000, cache.TotalObjects)
	assert.False(t, cache.Limited)
}

func TestFetchAllStopsAtObjectCeiling(t *testing.T) {
	fetcher := &generatedFetcher{total: MaxClientObjects + 700}

	var progress []int
	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{
		Bucket:     "b",
		OnProgress: func(loaded int) { progress = append(progress, loaded) },
	})
	require.NoError(t, err)

	assert.Equal(t, MaxClientObjects, cache.TotalObjects)
	assert.True(t, cache.Limited, "hitting the ceiling must mark the dataset truncated")
	for _, loaded := range progress {
		assert.LessOrEqual(t, loaded, MaxClientObjects, "progress must never report past the ceiling")
	}
	assert.Equal(t, MaxClientObjects, progress[len(progress)-1])
	// 15000 / 500 pages and not one more.
	assert.Len(t, fetcher.queries, MaxClientObjects/fullPageSize)
}

func TestFetchAllPreviewStage(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []*remote.Page{
		{
			Objects: []remote.ObjectItem{{Key: "a"}},
			Cursor:  "more",
		},
		{
			Objects: []remote.ObjectItem{{Key: "a"}, {Key: "b"}},
		},
	}}

	var preview *DirectoryCache
	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{
		Bucket:    "b",
		OnPreview: func(c *DirectoryCache) { preview = c },
	})
	require.NoError(t, err)

	require.NotNil(t, preview)
	assert.Equal(t, 1, preview.TotalObjects)
	assert.True(t, preview.Limited, "a remaining cursor makes the preview a truncated view")

	assert.Equal(t, 2, cache.TotalObjects)
	assert.False(t, cache.Limited)

	require.Len(t, fetcher.queries, 2)
	previewQuery := fetcher.queries[0]
	assert.Equal(t, 100, previewQuery.Limit)
	assert.False(t, previewQuery.FetchMetadata, "the preview page skips per-object metadata")
	fullQuery := fetcher.queries[1]
	assert.Equal(t, 500, fullQuery.Limit)
	assert.True(t, fullQuery.FetchMetadata)
}

func TestFetchAllBypassesCacheOnFirstFullPageOnly(t *testing.T) {
	fetcher := &generatedFetcher{total: 1200}

	_, err := NewLoader(fetcher).FetchAll(context.Background(), Params{
		Bucket:      "b",
		BypassCache: true,
	})
	require.NoError(t, err)

	require.Len(t, fetcher.queries, 3)
	assert.True(t, fetcher.queries[0].BypassCache)
	assert.False(t, fetcher.queries[1].BypassCache)
	assert.False(t, fetcher.queries[2].BypassCache)
}

func TestFetchAllDeduplicatesDirectoriesAcrossPages(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []*remote.Page{
		{
			Objects:        []remote.ObjectItem{{Key: "x"}},
			CommonPrefixes: []string{"zeta/", "alpha/"},
			Cursor:         "next",
		},
		{
			Objects:        []remote.ObjectItem{{Key: "y"}},
			CommonPrefixes: []string{"alpha/", "beta/"},
		},
	}}

	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{Bucket: "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha/", "beta/", "zeta/"}, cache.Directories)
}

func TestFetchAllPropagatesLimitedFlag(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []*remote.Page{
		{Objects: []remote.ObjectItem{{Key: "x"}}, Limited: true},
	}}

	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{Bucket: "b"})
	require.NoError(t, err)
	assert.True(t, cache.Limited)
}

func TestFetchAllReturnsFetchError(t *testing.T) {
	fetcher := &scriptedFetcher{err: fmt.Errorf("boom")}

	cache, err := NewLoader(fetcher).FetchAll(context.Background(), Params{Bucket: "b"})
	assert.Nil(t, cache)
	assert.EqualError(t, err, "boom")
}

func TestIndexedObjectDerivedFields(t *testing.T) {
	modified := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	indexed := indexObject(remote.ObjectItem{Key: "Docs/Report.PDF", Modified: modified})

	assert.Equal(t, "docs/report.pdf", indexed.KeyLower())
	assert.Equal(t, modified.UnixMilli(), indexed.ModifiedMs())
}
