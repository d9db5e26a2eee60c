package remote

import (
	"context"
	"time"
)

// CompressedFilter narrows a listing to compressed or uncompressed objects.
type CompressedFilter string

const (
	CompressedAny  CompressedFilter = "any"
	CompressedOnly CompressedFilter = "true"
	CompressedNone CompressedFilter = "false"
)

// ObjectItem is one object in a listing, with its delta-compression
// accounting as reported by the storage side.
type ObjectItem struct {
	Key           string    `json:"key"`
	OriginalBytes int64     `json:"original_bytes"`
	StoredBytes   int64     `json:"stored_bytes"`
	Compressed    bool      `json:"compressed"`
	Modified      time.Time `json:"modified"`
}

// SavingsBytes returns the storage saved by compression, never negative.
func (o ObjectItem) SavingsBytes() int64 {
	if s := o.OriginalBytes - o.StoredBytes; s > 0 {
		return s
	}
	return 0
}

// SavingsPct returns the savings as a percentage of the original size.
func (o ObjectItem) SavingsPct() float64 {
	if o.OriginalBytes == 0 {
		return 0
	}
	return float64(o.SavingsBytes()) / float64(o.OriginalBytes) * 100.0
}

// Query describes one page request against the listing collaborator.
// Sort and Order are always "name"/"asc" for cache fills; display-time
// sorting happens client side over the fetched dataset.
type Query struct {
	Bucket        string
	Prefix        string
	Search        string
	Cursor        string
	Limit         int
	Sort          string
	Order         string
	Compressed    CompressedFilter
	FetchMetadata bool
	BypassCache   bool
}

// Page is one page of listing results. Cursor is an opaque continuation
// token; empty means the listing is exhausted. Limited reports server-side
// truncation.
type Page struct {
	Objects        []ObjectItem
	CommonPrefixes []string
	Cursor         string
	Limited        bool
}

// Fetcher is the remote listing collaborator. Implementations must return
// pages in ascending name order and honor the cursor they issued.
type Fetcher interface {
	FetchObjects(ctx context.Context, q Query) (*Page, error)
}
