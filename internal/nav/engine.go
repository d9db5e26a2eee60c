package nav

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// FocusStore persists the last focused key per bucket so focus survives
// navigating away and back. Implementations may fail or return nothing; the
// engine degrades to "no restoration" either way.
type FocusStore interface {
	LastFocusedObject(bucket string) (string, bool)
	SetLastFocusedObject(bucket, key string) error
}

// Callbacks are the hosting view's reactions to key activation. They run
// synchronously from the key handler; any async behavior behind them is
// opaque to the engine.
type Callbacks struct {
	EnterDirectory    func(prefix string)
	OpenObject        func(key string)
	NavigateUp        func(parent string)
	NavigateToBuckets func()
}

// Engine drives keyboard focus over the flattened directory+object list.
// Focus is a key, never an index: indices are derived at read time, so focus
// survives list reordering as long as the key persists.
type Engine struct {
	items        []Item
	focusedKey   string
	keyboardMode bool
	bucket       string
	prefix       string

	store     FocusStore
	active    func() bool
	callbacks Callbacks
}

// NewEngine builds an engine. active gates whether the engine owns keyboard
// focus (typically a region check against the navigation machine); nil means
// always active. store may be nil.
func NewEngine(store FocusStore, active func() bool, callbacks Callbacks) *Engine {
	return &Engine{
		store:     store,
		active:    active,
		callbacks: callbacks,
	}
}

// SetListing installs the flattened items for a (bucket, prefix) listing.
// Entering a different prefix drops keyboard mode and tries to restore focus
// from the per-bucket store; a refresh of the same listing just revalidates
// the current focus against the new items.
func (e *Engine) SetListing(bucket, prefix string, items []Item) {
	changed := bucket != e.bucket || prefix != e.prefix
	e.bucket = bucket
	e.prefix = prefix
	e.items = items

	if changed {
		e.keyboardMode = false
		e.focusedKey = ""
		if e.store != nil {
			if stored, ok := e.store.LastFocusedObject(bucket); ok {
				e.focusedKey = ValidateStoredKey(items, stored)
			}
		}
		return
	}
	e.focusedKey = ValidateStoredKey(items, e.focusedKey)
}

// FocusedKey returns the focused item's key, or "".
func (e *Engine) FocusedKey() string {
	return e.focusedKey
}

// FocusedIndex derives the focused item's index, or -1.
func (e *Engine) FocusedIndex() int {
	return FindItemIndex(e.items, e.focusedKey)
}

// KeyboardMode reports whether the last interaction was keyboard-driven.
func (e *Engine) KeyboardMode() bool {
	return e.keyboardMode
}

// NotifyPointer records a mouse interaction, which ends keyboard mode.
func (e *Engine) NotifyPointer() {
	e.keyboardMode = false
}

// HandleDeletion moves focus to the nearest surviving neighbor after
// deletedKey is removed. Call before the item list is recomputed.
func (e *Engine) HandleDeletion(deletedKey string) {
	e.setFocus(FindNearestNeighbor(e.items, deletedKey, e.focusedKey))
}

// HandleKey interprets one keystroke and reports whether it was consumed.
// Keys are ignored while another region owns focus or while a text-entry
// widget does, except for the search-field passthrough set.
func (e *Engine) HandleKey(key string, ctx KeyContext) bool {
	if e.active != nil && !e.active() {
		return false
	}
	if ShouldIgnoreKey(key, ctx) {
		return false
	}

	switch key {
	case "down", "j":
		e.keyboardMode = true
		e.move(1)
		return true
	case "up", "k":
		e.keyboardMode = true
		e.move(-1)
		return true
	case "enter", " ", "right":
		e.keyboardMode = true
		e.activate()
		return true
	case "esc", "left":
		return e.goUp()
	}
	return false
}

// move shifts focus by delta with no wrap-around: at either boundary the
// press is a no-op. With no current focus the first item takes it.
func (e *Engine) move(delta int) {
	if len(e.items) == 0 {
		return
	}
	idx := FindItemIndex(e.items, e.focusedKey)
	if idx == -1 {
		e.setFocus(e.items[0].Key)
		return
	}
	next := idx + delta
	if next < 0 || next >= len(e.items) {
		return
	}
	e.setFocus(e.items[next].Key)
}

func (e *Engine) activate() {
	idx := FindItemIndex(e.items, e.focusedKey)
	if idx == -1 {
		return
	}
	item := e.items[idx]
	switch item.Type {
	case ItemDirectory:
		if e.callbacks.EnterDirectory != nil {
			e.callbacks.EnterDirectory(item.Key)
		}
	case ItemObject:
		if e.callbacks.OpenObject != nil {
			e.callbacks.OpenObject(item.Key)
		}
	}
}

// goUp navigates to the parent prefix, or to the buckets list when already
// at the root and that callback is supplied.
func (e *Engine) goUp() bool {
	if e.prefix != "" {
		if e.callbacks.NavigateUp != nil {
			e.callbacks.NavigateUp(ParentPrefix(e.prefix))
		}
		return true
	}
	if e.callbacks.NavigateToBuckets != nil {
		e.callbacks.NavigateToBuckets()
		return true
	}
	return false
}

func (e *Engine) setFocus(key string) {
	if key == e.focusedKey {
		return
	}
	e.focusedKey = key
	if e.store == nil || e.bucket == "" || key == "" {
		return
	}
	if err := e.store.SetLastFocusedObject(e.bucket, key); err != nil {
		// Navigation still works without cross-visit focus memory.
		logrus.Debugf("nav: persisting focus for %s failed: %v", e.bucket, err)
	}
}

// ParentPrefix strips the last path segment from a prefix: "a/b/" becomes
// "a/", "a/" becomes "".
func ParentPrefix(prefix string) string {
	trimmed := strings.TrimSuffix(prefix, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx == -1 {
		return ""
	}
	return trimmed[:idx+1]
}
