package tui

import (
	"github.com/dgview/dgview/internal/listing"
	"github.com/dgview/dgview/internal/remote"
)

// Message types for tea.Cmd communication. Listing messages carry the load
// sequence number they belong to; the browser drops anything stale.

type previewLoadedMsg struct {
	seq   int
	cache *listing.DirectoryCache
}

type loadProgressMsg struct {
	seq    int
	loaded int
}

type listingLoadedMsg struct {
	seq   int
	cache *listing.DirectoryCache
	err   error
}

type bucketsLoadedMsg struct {
	buckets []remote.BucketStats
	err     error
}

type metadataLoadedMsg struct {
	key    string
	detail *remote.ObjectDetail
	err    error
}

type deleteCompletedMsg struct {
	result *remote.BulkDeleteResult
	err    error
}

type downloadURLMsg struct {
	key string
	url *remote.PresignedURL
	err error
}

type clipboardCopiedMsg struct {
	what string
	err  error
}
