package nav

// ItemType distinguishes directory rows from object rows in the flattened
// traversal list.
type ItemType string

const (
	ItemDirectory ItemType = "directory"
	ItemObject    ItemType = "object"
)

// Item is one row of the flattened, order-preserving list used for keyboard
// traversal: directories first, then objects. Directory keys carry their
// trailing separator, so keys are unique within a listing. Items are
// recomputed per render pass and never mutated.
type Item struct {
	Key  string
	Type ItemType
}

// FindItemIndex returns the index of the item with the exact
// (case-sensitive) key, or -1 when key is empty or absent.
func FindItemIndex(items []Item, key string) int {
	if key == "" {
		return -1
	}
	for i, item := range items {
		if item.Key == key {
			return i
		}
	}
	return -1
}

// ValidateStoredKey returns storedKey if it still exists in items, else "".
// Used when restoring a remembered focus position after the list may have
// changed underneath it.
func ValidateStoredKey(items []Item, storedKey string) string {
	if FindItemIndex(items, storedKey) == -1 {
		return ""
	}
	return storedKey
}

// FindNearestNeighbor picks the replacement focus after deletedKey vanishes
// from items: the previous sibling, else the next, else "" when the list is
// empty. Focus is untouched (currentFocusedKey is returned) when the deleted
// item was not the focused one.
func FindNearestNeighbor(items []Item, deletedKey, currentFocusedKey string) string {
	if currentFocusedKey != deletedKey {
		return currentFocusedKey
	}
	idx := FindItemIndex(items, deletedKey)
	if idx == -1 {
		if len(items) == 0 {
			return ""
		}
		return currentFocusedKey
	}
	if idx > 0 {
		return items[idx-1].Key
	}
	if idx+1 < len(items) {
		return items[idx+1].Key
	}
	return ""
}

// VisualSelectionKey resolves which row to highlight: keyboard focus wins
// while keyboard mode is active and a focus exists, otherwise the
// URL-derived selection. Returning from a detail view must re-show the
// keyboard-focused row rather than silently lose highlighting.
func VisualSelectionKey(urlSelectedKey, keyboardFocusedKey string, keyboardActive bool) string {
	if keyboardActive && keyboardFocusedKey != "" {
		return keyboardFocusedKey
	}
	return urlSelectedKey
}

// ShouldShowSelection reports whether the row with itemKey is the visually
// selected one.
func ShouldShowSelection(itemKey, visualSelectionKey string) bool {
	return itemKey != "" && itemKey == visualSelectionKey
}

// KeyContext classifies where a keystroke landed so list navigation knows
// when to stand down.
type KeyContext struct {
	// TextEntry is true when a text-entry widget owns the keystroke.
	TextEntry bool
	// SearchField is true when that widget is the listing's search input.
	SearchField bool
	// Composing is true while an input-method composition is mid-flight.
	Composing bool
}

// searchPassthroughKeys are allowed through from the search input so a user
// can filter and immediately navigate the results without leaving the field.
var searchPassthroughKeys = map[string]struct{}{
	"up": {}, "down": {}, "enter": {}, " ": {}, "right": {},
}

// ShouldIgnoreKey reports whether list navigation must ignore the keystroke:
// always during IME composition, and while typing in a text-entry surface
// unless it is the search field sending a navigation key.
func ShouldIgnoreKey(key string, ctx KeyContext) bool {
	if ctx.Composing {
		return true
	}
	if !ctx.TextEntry {
		return false
	}
	if ctx.SearchField {
		_, allowed := searchPassthroughKeys[key]
		return !allowed
	}
	return true
}
