package nav

import (
	"github.com/sirupsen/logrus"
)

// State is a UI region that can own keyboard focus. Exactly one is active at
// a time per screen.
type State string

const (
	StateBuckets   State = "buckets"
	StateObjects   State = "objects"
	StateFilePanel State = "file-panel"
	StateDropdown  State = "dropdown"
	StateModal     State = "modal"
)

// Event is a navigation trigger.
type Event string

const (
	EventNavigateToBuckets Event = "NAVIGATE_TO_BUCKETS"
	EventNavigateToObjects Event = "NAVIGATE_TO_OBJECTS"
	EventOpenFilePanel     Event = "OPEN_FILE_PANEL"
	EventCloseFilePanel    Event = "CLOSE_FILE_PANEL"
	EventOpenDropdown      Event = "OPEN_DROPDOWN"
	EventCloseDropdown     Event = "CLOSE_DROPDOWN"
	EventOpenModal         Event = "OPEN_MODAL"
	EventCloseModal        Event = "CLOSE_MODAL"
	EventEscapePressed     Event = "ESCAPE_PRESSED"
)

// Transition is one row of the machine's lookup table. Guard, when present,
// can veto the transition; Action runs exactly once, atomically with the
// state change.
type Transition struct {
	From   State
	Event  Event
	To     State
	Guard  func() bool
	Action func()
}

// Record is one history entry.
type Record struct {
	From  State
	To    State
	Event Event
}

// DefaultTransitions returns the authoritative region-ownership table.
func DefaultTransitions() []Transition {
	return []Transition{
		{From: StateBuckets, Event: EventNavigateToObjects, To: StateObjects},
		{From: StateObjects, Event: EventNavigateToBuckets, To: StateBuckets},
		{From: StateObjects, Event: EventOpenFilePanel, To: StateFilePanel},
		{From: StateFilePanel, Event: EventCloseFilePanel, To: StateObjects},
		{From: StateFilePanel, Event: EventEscapePressed, To: StateObjects},
		{From: StateFilePanel, Event: EventOpenDropdown, To: StateDropdown},
		{From: StateDropdown, Event: EventCloseDropdown, To: StateFilePanel},
		{From: StateDropdown, Event: EventEscapePressed, To: StateFilePanel},
		{From: StateBuckets, Event: EventOpenModal, To: StateModal},
		{From: StateObjects, Event: EventOpenModal, To: StateModal},
		{From: StateFilePanel, Event: EventOpenModal, To: StateModal},
		{From: StateDropdown, Event: EventOpenModal, To: StateModal},
		{From: StateModal, Event: EventCloseModal, To: StateObjects},
		{From: StateModal, Event: EventEscapePressed, To: StateObjects},
	}
}

// Machine is a table-driven finite state machine over UI regions.
// Centralizing region ownership in one machine keeps independently-coded
// overlays from reacting to the same key event.
type Machine struct {
	initial     State
	current     State
	transitions []Transition
	history     []Record

	// OnTransition fires after every successful transition.
	OnTransition func(from, to State, event Event)
	// OnInvalidTransition fires when no table entry matches; state is
	// unchanged. Invalid transitions are reports, not errors.
	OnInvalidTransition func(current State, event Event)
}

// NewMachine builds a machine over the given table, starting at initial.
func NewMachine(initial State, transitions []Transition) *Machine {
	return &Machine{
		initial:     initial,
		current:     initial,
		transitions: transitions,
	}
}

// Current returns the active state.
func (m *Machine) Current() State {
	return m.current
}

// Transition applies the first table entry matching the current state and
// event whose guard passes. It returns whether a transition happened.
func (m *Machine) Transition(event Event) bool {
	t := m.lookup(event)
	if t == nil {
		logrus.Debugf("nav: no transition for %s from %s", event, m.current)
		if m.OnInvalidTransition != nil {
			m.OnInvalidTransition(m.current, event)
		}
		return false
	}

	from := m.current
	m.current = t.To
	if t.Action != nil {
		t.Action()
	}
	if m.OnTransition != nil {
		m.OnTransition(from, t.To, event)
	}
	m.history = append(m.history, Record{From: from, To: t.To, Event: event})
	return true
}

// CanTransition performs the same lookup as Transition without mutating.
func (m *Machine) CanTransition(event Event) bool {
	return m.lookup(event) != nil
}

// ValidEvents lists every event satisfiable from the current state,
// respecting guards.
func (m *Machine) ValidEvents() []Event {
	seen := make(map[Event]struct{})
	var events []Event
	for _, t := range m.transitions {
		if t.From != m.current {
			continue
		}
		if t.Guard != nil && !t.Guard() {
			continue
		}
		if _, dup := seen[t.Event]; dup {
			continue
		}
		seen[t.Event] = struct{}{}
		events = append(events, t.Event)
	}
	return events
}

// Reset returns to the initial state and clears history.
func (m *Machine) Reset() {
	m.current = m.initial
	m.history = nil
}

// History returns the append-only transition log, for diagnostics only.
func (m *Machine) History() []Record {
	return m.history
}

func (m *Machine) lookup(event Event) *Transition {
	for i := range m.transitions {
		t := &m.transitions[i]
		if t.From != m.current || t.Event != event {
			continue
		}
		if t.Guard != nil && !t.Guard() {
			continue
		}
		return t
	}
	return nil
}
