package remote

import "time"

// BucketStats is one bucket with its compression accounting.
type BucketStats struct {
	Name          string     `json:"name"`
	ObjectCount   int64      `json:"object_count"`
	OriginalBytes int64      `json:"original_bytes"`
	StoredBytes   int64      `json:"stored_bytes"`
	SavingsPct    float64    `json:"savings_pct"`
	Pending       bool       `json:"pending"`
	ComputedAt    *time.Time `json:"computed_at"`
}

// ObjectDetail is the metadata view of a single object.
type ObjectDetail struct {
	Key           string    `json:"key"`
	OriginalBytes int64     `json:"original_bytes"`
	StoredBytes   int64     `json:"stored_bytes"`
	Compressed    bool      `json:"compressed"`
	Modified      time.Time `json:"modified"`
	ContentType   string    `json:"content_type,omitempty"`
}

// BulkDeleteResult reports a bulk deletion outcome; per-key failures are
// data, not a transport error.
type BulkDeleteResult struct {
	Deleted        []string `json:"deleted"`
	Errors         []string `json:"errors"`
	TotalRequested int      `json:"total_requested"`
	TotalDeleted   int      `json:"total_deleted"`
	TotalErrors    int      `json:"total_errors"`
}

// PresignedURL is a time-limited download link.
type PresignedURL struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
}
