package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgview/dgview/internal/listing"
	"github.com/dgview/dgview/internal/nav"
	"github.com/dgview/dgview/internal/remote"
	"github.com/dgview/dgview/internal/tui/messaging"
)

// presignExpiry is how long generated download links stay valid.
const presignExpiry = 15 * time.Minute

// filePanel is the object detail overlay plus its actions dropdown.
type filePanel struct {
	open          bool
	key           string
	loading       bool
	detail        *remote.ObjectDetail
	err           error
	downloadURL   string
	dropdownOpen  bool
	dropdownIndex int
	unhook        func()
	dropUnhook    func()
}

// dropdownActions are the file panel's action menu entries, in display order.
var dropdownActions = []string{
	"Copy download URL",
	"Copy object key",
	"Delete object",
}

// openFilePanel opens the detail panel for one object and starts the
// metadata fetch. Escape closes it through the stack, innermost-first.
func (m *BrowserModel) openFilePanel(objectKey string) {
	if !m.fsm.Transition(nav.EventOpenFilePanel) {
		return
	}
	m.panel = filePanel{open: true, key: objectKey, loading: true}
	m.lastOpenedKey = objectKey

	var unhook func()
	unhook = nav.Escapes.Register(func() bool {
		m.fsm.Transition(nav.EventEscapePressed)
		m.panel = filePanel{}
		unhook()
		return true
	})
	m.panel.unhook = unhook

	m.queue(m.loadMetadata(objectKey))
}

func (m *BrowserModel) closeFilePanel() {
	if m.panel.unhook != nil {
		m.panel.unhook()
	}
	m.fsm.Transition(nav.EventCloseFilePanel)
	m.panel = filePanel{}
}

func (m *BrowserModel) loadMetadata(objectKey string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.backend.ObjectMetadata(context.Background(), m.bucket, objectKey)
		return metadataLoadedMsg{key: objectKey, detail: detail, err: err}
	}
}

// handleFilePanelKey drives the detail panel region.
func (m *BrowserModel) handleFilePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Back):
		// Left arrow mirrors Escape here; the stack keeps close order
		// consistent either way.
		if nav.Escapes.Dispatch() {
			return m, m.flushQueued()
		}
		m.closeFilePanel()
		return m, nil

	case key.Matches(msg, m.keyMap.Open):
		m.openDropdown()
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		m.confirmDeleteKeys([]string{m.panel.key})
		return m, nil
	}
	return m, nil
}

// openDropdown opens the actions menu inside the file panel.
func (m *BrowserModel) openDropdown() {
	if !m.fsm.Transition(nav.EventOpenDropdown) {
		return
	}
	m.panel.dropdownOpen = true
	m.panel.dropdownIndex = 0

	var unhook func()
	unhook = nav.Escapes.Register(func() bool {
		m.fsm.Transition(nav.EventEscapePressed)
		m.panel.dropdownOpen = false
		m.panel.dropUnhook = nil
		unhook()
		return true
	})
	m.panel.dropUnhook = unhook
}

func (m *BrowserModel) closeDropdown() {
	if m.panel.dropUnhook != nil {
		m.panel.dropUnhook()
		m.panel.dropUnhook = nil
	}
	m.fsm.Transition(nav.EventCloseDropdown)
	m.panel.dropdownOpen = false
}

// handleDropdownKey drives the actions menu region.
func (m *BrowserModel) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Up):
		if m.panel.dropdownIndex > 0 {
			m.panel.dropdownIndex--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.panel.dropdownIndex < len(dropdownActions)-1 {
			m.panel.dropdownIndex++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Open):
		return m, m.runDropdownAction()
	}
	return m, nil
}

func (m *BrowserModel) runDropdownAction() tea.Cmd {
	objectKey := m.panel.key
	action := m.panel.dropdownIndex
	m.closeDropdown()

	switch action {
	case 0:
		return m.fetchDownloadURL(objectKey)
	case 1:
		return m.copyToClipboard("object key", objectKey)
	case 2:
		m.confirmDeleteKeys([]string{objectKey})
		return m.flushQueued()
	}
	return nil
}

func (m *BrowserModel) fetchDownloadURL(objectKey string) tea.Cmd {
	return func() tea.Msg {
		url, err := m.backend.DownloadURL(context.Background(), m.bucket, objectKey, presignExpiry)
		return downloadURLMsg{key: objectKey, url: url, err: err}
	}
}

// openDeleteConfirm opens the confirmation modal for the current selection,
// or for the focused object when nothing is selected.
func (m *BrowserModel) openDeleteConfirm() {
	keys := m.deletableKeys()
	if len(keys) == 0 {
		m.status.SetMessage("Nothing selected to delete", messaging.MessageWarning)
		return
	}
	m.confirmDeleteKeys(keys)
}

// deletableKeys resolves the modal's subject. Directory prefixes are
// skipped; deleting a prefix means deleting unknown many objects and the
// listing API offers no recursive delete.
func (m *BrowserModel) deletableKeys() []string {
	if m.selection.TotalSelectedCount() > 0 {
		var keys []string
		skipped := 0
		for _, t := range m.selection.SelectedTargets() {
			if t.Type != listing.TargetObject {
				skipped++
				continue
			}
			keys = append(keys, t.Key)
		}
		if skipped > 0 {
			m.status.SetMessage(fmt.Sprintf("Skipping %d selected directories", skipped), messaging.MessageWarning)
		}
		return keys
	}

	if target, ok := m.focusedTarget(); ok && target.Type == listing.TargetObject {
		return []string{target.Key}
	}
	return nil
}

// confirmDeleteKeys opens the modal region for a concrete key set. Any open
// panel or dropdown closes first; the machine owns the modal exclusively.
func (m *BrowserModel) confirmDeleteKeys(keys []string) {
	if len(keys) == 0 {
		return
	}
	if m.panel.dropUnhook != nil {
		m.panel.dropUnhook()
	}
	if m.panel.unhook != nil {
		m.panel.unhook()
	}
	m.panel = filePanel{}

	if !m.fsm.Transition(nav.EventOpenModal) {
		return
	}
	m.confirm = confirmState{active: true, keys: keys}

	var unhook func()
	unhook = nav.Escapes.Register(func() bool {
		m.fsm.Transition(nav.EventEscapePressed)
		m.confirm = confirmState{}
		unhook()
		return true
	})
	m.confirm.unhook = unhook
}

// handleConfirmKey drives the delete confirmation modal.
func (m *BrowserModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Confirm):
		keys := m.confirm.keys
		if m.confirm.unhook != nil {
			m.confirm.unhook()
		}
		m.confirm = confirmState{}
		m.fsm.Transition(nav.EventCloseModal)
		m.status.SetMessage(fmt.Sprintf("Deleting %d objects...", len(keys)), messaging.MessageInfo)
		return m, m.deleteKeys(keys)

	case key.Matches(msg, m.keyMap.Cancel):
		if m.confirm.unhook != nil {
			m.confirm.unhook()
		}
		m.confirm = confirmState{}
		m.fsm.Transition(nav.EventCloseModal)
		return m, nil
	}
	return m, nil
}

func (m *BrowserModel) deleteKeys(keys []string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.backend.BulkDelete(context.Background(), m.bucket, keys)
		return deleteCompletedMsg{result: result, err: err}
	}
}

// handleDeleteCompleted reports the outcome, moves focus off the deleted
// rows, and reloads the listing bypassing any server-side cache.
func (m *BrowserModel) handleDeleteCompleted(msg deleteCompletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status.SetMessage(fmt.Sprintf("Delete failed: %v", msg.err), messaging.MessageError)
		return m, nil
	}

	for _, deleted := range msg.result.Deleted {
		m.engine.HandleDeletion(deleted)
	}

	if msg.result.TotalErrors > 0 {
		m.status.SetMessage(fmt.Sprintf("Deleted %d objects, %d failed",
			msg.result.TotalDeleted, msg.result.TotalErrors), messaging.MessageWarning)
	} else {
		m.status.SetMessage(fmt.Sprintf("Deleted %d objects", msg.result.TotalDeleted), messaging.MessageSuccess)
	}

	m.resetCounter++
	m.updateResetToken()
	return m, m.loadListing(true)
}
