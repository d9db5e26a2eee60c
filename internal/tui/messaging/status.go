package messaging

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgview/dgview/internal/tui/theme"
)

// MessageType classifies a status line. Values index the theme's message
// color and icon tables.
type MessageType int

const (
	MessageError MessageType = iota
	MessageSuccess
	MessageWarning
	MessageInfo
)

// StatusManager holds the transient status line shown under the listing.
// A message stays up until it is cleared or replaced; navigation clears it.
type StatusManager struct {
	message string
	msgType MessageType
}

// NewStatusManager returns an empty status manager.
func NewStatusManager() *StatusManager {
	return &StatusManager{msgType: MessageInfo}
}

// SetMessage replaces the current status line.
func (sm *StatusManager) SetMessage(message string, msgType MessageType) {
	sm.message = message
	sm.msgType = msgType
}

// ClearMessage removes the status line.
func (sm *StatusManager) ClearMessage() {
	sm.message = ""
}

// Message returns the current message and its type.
func (sm *StatusManager) Message() (string, MessageType) {
	return sm.message, sm.msgType
}

// HasMessage reports whether a status line is up.
func (sm *StatusManager) HasMessage() bool {
	return sm.message != ""
}

// RenderMessage renders the status line with the icon and color of its type.
func (sm *StatusManager) RenderMessage() string {
	if !sm.HasMessage() {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetMessageColor(int(sm.msgType)))).
		Bold(true)

	return style.Render(fmt.Sprintf("%s %s", theme.GetMessageIcon(int(sm.msgType)), sm.message))
}
