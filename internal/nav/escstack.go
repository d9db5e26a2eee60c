package nav

import "sync"

// EscapeHandler is a cancel callback for the Escape key. Returning true
// means the handler consumed the key and default Escape behavior must not
// run.
type EscapeHandler func() bool

type escapeEntry struct {
	id      uint64
	handler EscapeHandler
}

// EscapeStack is a LIFO registry of cancel handlers so nested overlays close
// strictly innermost-first. The attach/detach hooks model the single global
// key listener: attached on the first registration, detached when the stack
// empties. That invariant (hooked iff non-empty) must hold after every
// register/unregister pair, including duplicate unregisters.
type EscapeStack struct {
	mu       sync.Mutex
	entries  []escapeEntry
	nextID   uint64
	onAttach func()
	onDetach func()
}

// Escapes is the process-wide stack. Escape must have exactly one dispatch
// point no matter how many overlays are mounted, so this is an explicit,
// test-clearable singleton rather than per-view state.
var Escapes = &EscapeStack{}

// SetHooks installs the lazy listener hooks. Either may be nil.
func (s *EscapeStack) SetHooks(onAttach, onDetach func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAttach = onAttach
	s.onDetach = onDetach
}

// Register pushes a handler and returns its unregister closure. The closure
// removes exactly that registration and is a safe no-op when called again.
func (s *EscapeStack) Register(handler EscapeHandler) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	wasEmpty := len(s.entries) == 0
	s.entries = append(s.entries, escapeEntry{id: id, handler: handler})
	attach := s.onAttach
	s.mu.Unlock()

	if wasEmpty && attach != nil {
		attach()
	}

	return func() {
		s.mu.Lock()
		removed := false
		for i, e := range s.entries {
			if e.id == id {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				removed = true
				break
			}
		}
		nowEmpty := removed && len(s.entries) == 0
		detach := s.onDetach
		s.mu.Unlock()

		if nowEmpty && detach != nil {
			detach()
		}
	}
}

// Dispatch invokes only the topmost handler and reports whether it consumed
// the key. Lower handlers never run, even when the topmost returns false;
// nested overlays close one per keypress.
func (s *EscapeStack) Dispatch() bool {
	s.mu.Lock()
	var handler EscapeHandler
	if n := len(s.entries); n > 0 {
		handler = s.entries[n-1].handler
	}
	s.mu.Unlock()

	if handler == nil {
		return false
	}
	return handler()
}

// Len returns the current stack depth.
func (s *EscapeStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear forcibly empties the stack and detaches the listener. For teardown
// and tests.
func (s *EscapeStack) Clear() {
	s.mu.Lock()
	hadEntries := len(s.entries) > 0
	s.entries = nil
	detach := s.onDetach
	s.mu.Unlock()

	if hadEntries && detach != nil {
		detach()
	}
}
