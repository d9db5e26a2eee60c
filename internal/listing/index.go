package listing

import (
	"strings"

	"github.com/dgview/dgview/internal/remote"
)

// IndexedObject is an ObjectItem plus fields derived exactly once at fetch
// time so repeated sort and filter passes never recompute them. The derived
// fields are read-only and always consistent with their sources.
type IndexedObject struct {
	remote.ObjectItem

	keyLower   string
	modifiedMs int64
}

// KeyLower returns the lower-cased object key.
func (o IndexedObject) KeyLower() string { return o.keyLower }

// ModifiedMs returns the modification time in Unix milliseconds.
func (o IndexedObject) ModifiedMs() int64 { return o.modifiedMs }

func indexObject(item remote.ObjectItem) IndexedObject {
	return IndexedObject{
		ObjectItem: item,
		keyLower:   strings.ToLower(item.Key),
		modifiedMs: item.Modified.UnixMilli(),
	}
}

func indexObjects(items []remote.ObjectItem) []IndexedObject {
	indexed := make([]IndexedObject, len(items))
	for i, item := range items {
		indexed[i] = indexObject(item)
	}
	return indexed
}
