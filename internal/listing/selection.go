package listing

// TargetType discriminates objects from directory prefixes so bulk actions
// can treat them differently.
type TargetType string

const (
	TargetObject TargetType = "object"
	TargetPrefix TargetType = "prefix"
)

// Target identifies one selectable row.
type Target struct {
	Type TargetType
	Key  string
}

func (t Target) id() string {
	return string(t.Type) + ":" + t.Key
}

// SelectionModel tracks multi-selected targets against the current page of a
// listing. Selection is scoped to a reset token (bucket/prefix/sort/order/
// compression plus an explicit reset counter); when the token changes all
// selection is cleared, since it is meaningless in a different listing
// context.
type SelectionModel struct {
	resetToken string
	selected   map[string]Target
	page       []Target
}

// NewSelectionModel returns an empty selection.
func NewSelectionModel() *SelectionModel {
	return &SelectionModel{selected: make(map[string]Target)}
}

// SetResetToken installs the current listing-context token, clearing all
// selection when it differs from the previous one.
func (s *SelectionModel) SetResetToken(token string) {
	if token != s.resetToken {
		s.resetToken = token
		s.ClearSelection()
	}
}

// SetPage installs the targets visible on the current page.
func (s *SelectionModel) SetPage(entries []Target) {
	s.page = entries
}

// IsSelected reports whether the target is selected.
func (s *SelectionModel) IsSelected(t Target) bool {
	_, ok := s.selected[t.id()]
	return ok
}

// ToggleSelection flips one target's selection.
func (s *SelectionModel) ToggleSelection(t Target) {
	id := t.id()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = t
}

// ToggleSelectAll selects every target on the current page, or deselects
// them all if every one is already selected. Targets on other pages are
// never affected.
func (s *SelectionModel) ToggleSelectAll() {
	if s.PageSelectedCount() == len(s.page) && len(s.page) > 0 {
		for _, t := range s.page {
			delete(s.selected, t.id())
		}
		return
	}
	for _, t := range s.page {
		s.selected[t.id()] = t
	}
}

// PageSelectableCount is how many targets the current page offers.
func (s *SelectionModel) PageSelectableCount() int {
	return len(s.page)
}

// PageSelectedCount is how many of the current page's targets are selected.
func (s *SelectionModel) PageSelectedCount() int {
	count := 0
	for _, t := range s.page {
		if s.IsSelected(t) {
			count++
		}
	}
	return count
}

// TotalSelectedCount counts selection across all pages.
func (s *SelectionModel) TotalSelectedCount() int {
	return len(s.selected)
}

// SelectedTargets returns the selected targets across all pages.
func (s *SelectionModel) SelectedTargets() []Target {
	targets := make([]Target, 0, len(s.selected))
	for _, t := range s.selected {
		targets = append(targets, t)
	}
	return targets
}

// ClearSelection drops all selection.
func (s *SelectionModel) ClearSelection() {
	s.selected = make(map[string]Target)
}
