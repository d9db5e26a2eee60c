package listing

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dgview/dgview/internal/remote"
)

const (
	// MaxClientObjects bounds how many objects one listing will hold in
	// memory, regardless of what the server reports.
	MaxClientObjects = 15000

	// previewPageSize is the size of the cheap first-glance page fetched
	// without per-object metadata.
	previewPageSize = 100

	// fullPageSize is the page size used while cursoring the full listing.
	fullPageSize = 500
)

// DirectoryCache is the complete (or preview) listing for one
// (bucket, prefix, search, compression) key. Limited means the dataset is a
// strict name-ascending prefix of the true listing, either because the
// server truncated or because MaxClientObjects was reached.
type DirectoryCache struct {
	Objects          []IndexedObject
	Directories      []string
	TotalObjects     int
	TotalDirectories int
	Limited          bool
}

// Params drives one FetchAll call. OnPreview, when set, receives an early
// cache built from the first page so the UI can render before the full
// dataset exists; it never feeds the final result. OnProgress fires after
// every full-stage page with the cumulative object count (the total is
// unknown until the last page).
type Params struct {
	Bucket      string
	Prefix      string
	Search      string
	Compressed  remote.CompressedFilter
	BypassCache bool
	OnProgress  func(loaded int)
	OnPreview   func(*DirectoryCache)
}

// Loader fetches and indexes full object listings from a remote collaborator.
type Loader struct {
	fetcher remote.Fetcher
}

// NewLoader returns a Loader backed by the given fetcher.
func NewLoader(fetcher remote.Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// FetchAll streams the complete listing for the given parameters: an
// optional metadata-free preview page, then 500-item pages following the
// server cursor until it runs out or MaxClientObjects is reached. Fetch
// errors propagate to the caller unretried; superseded calls are not
// cancelled here, so callers racing navigations must discard stale results
// themselves (the progress and preview callbacks exist so they can).
func (l *Loader) FetchAll(ctx context.Context, p Params) (*DirectoryCache, error) {
	base := remote.Query{
		Bucket:     p.Bucket,
		Prefix:     p.Prefix,
		Search:     p.Search,
		Compressed: p.Compressed,
		Sort:       "name",
		Order:      "asc",
	}

	if p.OnPreview != nil {
		q := base
		q.Limit = previewPageSize
		q.FetchMetadata = false
		q.BypassCache = p.BypassCache

		page, err := l.fetcher.FetchObjects(ctx, q)
		if err != nil {
			return nil, err
		}
		// A remaining cursor means the preview is a truncated view.
		preview := buildCache(
			indexObjects(page.Objects),
			dedupeDirectories(page.CommonPrefixes, nil),
			page.Limited || page.Cursor != "",
		)
		p.OnPreview(preview)
	}

	var (
		objects []IndexedObject
		dirs    = make(map[string]struct{})
		limited bool
		cursor  string
		first   = true
	)

	for {
		q := base
		q.Limit = fullPageSize
		q.FetchMetadata = true
		q.Cursor = cursor
		// Bypassing mid-cursor would miss the collaborator's own cache keys
		// and could reorder results, so only the first page bypasses.
		q.BypassCache = p.BypassCache && first

		page, err := l.fetcher.FetchObjects(ctx, q)
		if err != nil {
			return nil, err
		}
		first = false

		objects = append(objects, indexObjects(page.Objects)...)
		for _, dir := range page.CommonPrefixes {
			dirs[dir] = struct{}{}
		}
		if page.Limited {
			limited = true
		}

		ceilingHit := len(objects) >= MaxClientObjects
		if ceilingHit {
			objects = objects[:MaxClientObjects]
			limited = true
		}
		if p.OnProgress != nil {
			p.OnProgress(len(objects))
		}
		if ceilingHit || page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	result := buildCache(objects, dedupeDirectories(nil, dirs), limited)
	logrus.Debugf("listing %s/%s: %d objects, %d directories, limited=%t",
		p.Bucket, p.Prefix, result.TotalObjects, result.TotalDirectories, result.Limited)
	return result, nil
}

func buildCache(objects []IndexedObject, dirs []string, limited bool) *DirectoryCache {
	return &DirectoryCache{
		Objects:          objects,
		Directories:      dirs,
		TotalObjects:     len(objects),
		TotalDirectories: len(dirs),
		Limited:          limited,
	}
}

// dedupeDirectories merges prefixes from either a slice or an existing set.
// Directories may legitimately repeat across cursor pages. The result is
// name-ascending for determinism.
func dedupeDirectories(fromSlice []string, fromSet map[string]struct{}) []string {
	set := fromSet
	if set == nil {
		set = make(map[string]struct{}, len(fromSlice))
		for _, dir := range fromSlice {
			set[dir] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(set))
	for dir := range set {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
