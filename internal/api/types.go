package api

import (
	"fmt"

	"github.com/dgview/dgview/internal/remote"
)

// objectListResponse is the wire shape of a listing page.
type objectListResponse struct {
	Objects        []remote.ObjectItem `json:"objects"`
	CommonPrefixes []string            `json:"common_prefixes"`
	Cursor         *string             `json:"cursor"`
	Limited        bool                `json:"limited"`
}

type bucketListResponse struct {
	Buckets []remote.BucketStats `json:"buckets"`
}

// Error is a non-2xx API response.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}
