package tui

import (
	"context"
	"time"

	"github.com/dgview/dgview/internal/remote"
)

// Backend is everything the browser needs from a storage collaborator. Both
// the listing API client and the direct S3 fetcher satisfy it.
type Backend interface {
	remote.Fetcher
	ListBuckets(ctx context.Context) ([]remote.BucketStats, error)
	ObjectMetadata(ctx context.Context, bucket, key string) (*remote.ObjectDetail, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	BulkDelete(ctx context.Context, bucket string, keys []string) (*remote.BulkDeleteResult, error)
	DownloadURL(ctx context.Context, bucket, key string, expiresIn time.Duration) (*remote.PresignedURL, error)
}
