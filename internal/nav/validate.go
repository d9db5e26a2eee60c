package nav

import (
	"fmt"
	"sort"
)

// Configuration-time checks for a transition table. These run when a table
// is declared, not per keystroke.

// ValidateCompleteness reports states that appear in the table but have no
// outgoing transition.
func ValidateCompleteness(transitions []Transition) []error {
	var errs []error
	outgoing := make(map[State]bool)
	for _, t := range transitions {
		outgoing[t.From] = true
	}
	for _, s := range tableStates(transitions) {
		if !outgoing[s] {
			errs = append(errs, fmt.Errorf("state %q has no outgoing transitions", s))
		}
	}
	return errs
}

// ValidateReachability reports states that cannot be reached from initial by
// following the table.
func ValidateReachability(transitions []Transition, initial State) []error {
	reached := map[State]bool{initial: true}
	for changed := true; changed; {
		changed = false
		for _, t := range transitions {
			if reached[t.From] && !reached[t.To] {
				reached[t.To] = true
				changed = true
			}
		}
	}

	var errs []error
	for _, s := range tableStates(transitions) {
		if !reached[s] {
			errs = append(errs, fmt.Errorf("state %q is unreachable from %q", s, initial))
		}
	}
	return errs
}

// ValidateUniqueness reports duplicate {from, event} pairs. Lookup takes the
// first match, so a duplicate would silently shadow the second entry.
func ValidateUniqueness(transitions []Transition) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, t := range transitions {
		key := string(t.From) + "\x00" + string(t.Event)
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate transition for state %q event %q", t.From, t.Event))
		}
		seen[key] = true
	}
	return errs
}

// MustValidate runs every table check and panics when any fails. A broken
// table is a programming error that should surface at startup, not at the
// keystroke that happens to hit the bad row.
func MustValidate(transitions []Transition, initial State) []Transition {
	if errs := ValidateAll(transitions, initial); len(errs) > 0 {
		panic(fmt.Sprintf("nav: invalid transition table: %v", errs))
	}
	return transitions
}

// ValidateAll runs every table check and returns the combined error list.
func ValidateAll(transitions []Transition, initial State) []error {
	var errs []error
	errs = append(errs, ValidateCompleteness(transitions)...)
	errs = append(errs, ValidateReachability(transitions, initial)...)
	errs = append(errs, ValidateUniqueness(transitions)...)
	return errs
}

func tableStates(transitions []Transition) []State {
	set := make(map[State]struct{})
	for _, t := range transitions {
		set[t.From] = struct{}{}
		set[t.To] = struct{}{}
	}
	states := make([]State, 0, len(set))
	for s := range set {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}
