package listing

import (
	"sort"
	"strings"
)

// SortKey selects which object attribute orders a listing.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortBySize     SortKey = "size"
	SortByModified SortKey = "modified"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortObjects reorders items in place by the given key and returns the same
// slice. Name comparison is ordinal on the precomputed lower-cased key, not
// locale-aware, so ordering is deterministic across environments. Callers
// needing immutability must copy first.
func SortObjects(items []IndexedObject, key SortKey, order SortOrder) []IndexedObject {
	less := objectLess(key)
	if order == OrderDesc {
		asc := less
		less = func(a, b IndexedObject) bool { return asc(b, a) }
	}
	sort.Slice(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	return items
}

func objectLess(key SortKey) func(a, b IndexedObject) bool {
	switch key {
	case SortBySize:
		return func(a, b IndexedObject) bool { return a.OriginalBytes < b.OriginalBytes }
	case SortByModified:
		return func(a, b IndexedObject) bool { return a.modifiedMs < b.modifiedMs }
	default:
		return func(a, b IndexedObject) bool { return strings.Compare(a.keyLower, b.keyLower) < 0 }
	}
}

// SortDirectories returns a new ordinally sorted slice; the input is left
// untouched.
func SortDirectories(dirs []string, order SortOrder) []string {
	sorted := make([]string, len(dirs))
	copy(sorted, dirs)
	sort.Slice(sorted, func(i, j int) bool {
		if order == OrderDesc {
			return strings.Compare(sorted[j], sorted[i]) < 0
		}
		return strings.Compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}
