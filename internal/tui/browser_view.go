package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dgview/dgview/internal/nav"
	"github.com/dgview/dgview/internal/tui/theme"
)

// View implements the bubbletea.Model interface
func (m *BrowserModel) View() string {
	if m.fsm.Current() == nav.StateBuckets {
		return m.renderBucketList()
	}

	header := m.renderHeader()

	if m.loading && m.cache == nil {
		loading := theme.CreateLoadingStyle().
			Render(fmt.Sprintf("%s Loading objects...", m.spinner.View()))
		return header + "\n" + loading
	}

	if m.loadErr != nil && m.cache == nil {
		return header + "\n" + theme.CreateErrorStyle().Render(fmt.Sprintf("Error: %v", m.loadErr))
	}

	body := m.renderListing()
	footer := m.renderFooter()
	baseView := header + "\n" + body + "\n" + footer

	if m.confirm.active {
		return m.renderFloatingDialog(m.renderDeleteConfirmation())
	}
	if m.panel.open {
		return m.renderFloatingDialog(m.renderFilePanel())
	}
	if m.showHelp {
		return m.renderFloatingDialog(m.renderHelpDialog())
	}

	return baseView
}

func (m *BrowserModel) renderHeader() string {
	location := m.bucket
	if m.prefix != "" {
		location += "/" + m.prefix
	}
	header := theme.CreateHeaderStyle().Render("dgview - " + location)

	if m.searchActive {
		header += "\n" + theme.CreateInfoTextStyle().Render("🔍 "+m.searchInput.View())
	}
	return header
}

func (m *BrowserModel) renderListing() string {
	if len(m.pageDirs) == 0 && len(m.pageObjs) == 0 {
		empty := "No objects found"
		if m.searchInput.Value() != "" {
			empty = "No objects match the filter"
		}
		return theme.CreateSecondaryTextStyle().
			Width(m.windowWidth).
			Align(lipgloss.Center).
			Render(empty)
	}

	view := m.objectTable.View()

	if m.loading && m.previewing {
		view += "\n" + theme.CreateLoadingStyle().
			Render(fmt.Sprintf("%s preview shown, loading full listing (%d objects)...",
				m.spinner.View(), m.progress))
	}
	return view
}

func (m *BrowserModel) renderFooter() string {
	info := m.paginationInfo()

	parts := []string{
		fmt.Sprintf("Page %d/%d", info.CurrentPage, max(info.TotalPages, 1)),
	}
	if m.cache != nil {
		counts := fmt.Sprintf("%d objects, %d directories", m.cache.TotalObjects, m.cache.TotalDirectories)
		if m.cache.Limited {
			counts += " (truncated)"
		}
		parts = append(parts, counts)
	}
	if selected := m.selection.TotalSelectedCount(); selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected (%d/%d on page)",
			selected, m.selection.PageSelectedCount(), m.selection.PageSelectableCount()))
	}
	if m.compressed != "" && m.compressed != "any" {
		parts = append(parts, fmt.Sprintf("compressed=%s", m.compressed))
	}
	parts = append(parts, fmt.Sprintf("sort %s/%s", m.sortField, m.sortOrder))

	statusLine := ""
	if m.status.HasMessage() {
		statusLine = m.status.RenderMessage() + "\n"
	}

	footer := theme.CreateFooterStyle().Render(strings.Join(parts, " • "))
	helpLine := theme.CreateFooterStyle().Render(m.help.ShortHelpView(m.keyMap.ShortHelp()))
	return statusLine + footer + "\n" + helpLine
}

// renderFloatingDialog centers a dialog within the window.
func (m *BrowserModel) renderFloatingDialog(dialog string) string {
	return lipgloss.Place(
		m.windowWidth,
		m.windowHeight,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

// renderFilePanel renders the object detail panel, with the actions dropdown
// layered inside when open.
func (m *BrowserModel) renderFilePanel() string {
	var b strings.Builder

	b.WriteString(theme.CreateSectionHeaderStyle().Render("Object Details"))
	b.WriteString("\n")

	info := theme.CreateInfoTextStyle()
	b.WriteString(info.Render("📄 Key: " + m.panel.key))
	b.WriteString("\n")

	switch {
	case m.panel.loading:
		b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Loading metadata...", m.spinner.View())))
		b.WriteString("\n")
	case m.panel.err != nil:
		b.WriteString(theme.CreateErrorStyle().Render(fmt.Sprintf("Metadata unavailable: %v", m.panel.err)))
		b.WriteString("\n")
	case m.panel.detail != nil:
		d := m.panel.detail
		b.WriteString(info.Render(fmt.Sprintf("📊 Original size: %s", humanize.IBytes(uint64(d.OriginalBytes)))))
		b.WriteString("\n")
		b.WriteString(info.Render(fmt.Sprintf("🗜️ Stored size: %s", humanize.IBytes(uint64(d.StoredBytes)))))
		b.WriteString("\n")
		if d.Compressed {
			savings := 0.0
			if d.OriginalBytes > 0 {
				savings = float64(d.OriginalBytes-d.StoredBytes) / float64(d.OriginalBytes) * 100
			}
			b.WriteString(theme.CreateSavingsStyle().Render(fmt.Sprintf("💾 Savings: %.1f%%", savings)))
			b.WriteString("\n")
		}
		if d.ContentType != "" {
			b.WriteString(info.Render("🏷️ Content-Type: " + d.ContentType))
			b.WriteString("\n")
		}
		b.WriteString(info.Render("🕒 Modified: " + d.Modified.Format("2006-01-02 15:04:05")))
		b.WriteString("\n")
	}

	if m.panel.downloadURL != "" {
		b.WriteString("\n")
		b.WriteString(theme.CreateSecondaryTextStyle().Render("Download URL (copied):"))
		b.WriteString("\n")
		b.WriteString(theme.CreateInfoTextStyle().Render(truncateMiddle(m.panel.downloadURL, 70)))
		b.WriteString("\n")
	}

	if m.panel.dropdownOpen {
		b.WriteString("\n")
		b.WriteString(m.renderDropdown())
	} else {
		b.WriteString("\n")
		b.WriteString(theme.CreateSecondaryTextStyle().Render("enter: actions • x: delete • esc: close"))
	}

	return theme.CreateDialogStyle(76, "").Render(b.String())
}

func (m *BrowserModel) renderDropdown() string {
	var b strings.Builder
	for i, action := range dropdownActions {
		if i == m.panel.dropdownIndex {
			b.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(theme.ColorBrightBlue)).
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Bold(true).
				Padding(0, 1).
				Render("▶ " + action))
		} else {
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Padding(0, 1).
				Render("  " + action))
		}
		if i < len(dropdownActions)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDeleteConfirmation renders the delete confirmation modal.
func (m *BrowserModel) renderDeleteConfirmation() string {
	subject := fmt.Sprintf("%d objects", len(m.confirm.keys))
	if len(m.confirm.keys) == 1 {
		subject = m.confirm.keys[0]
	}

	content := fmt.Sprintf("Delete %s?\n\nThis action cannot be undone!\n\nPress 'y' to confirm, 'n' to cancel", subject)
	return theme.CreateDialogStyle(50, theme.ColorBrightRed).Render(content)
}

// renderHelpDialog renders the expanded keybinding help.
func (m *BrowserModel) renderHelpDialog() string {
	title := theme.CreateSectionHeaderStyle().Render("dgview - Help")
	helpContent := m.help.FullHelpView(m.keyMap.FullHelp())
	content := lipgloss.JoinVertical(lipgloss.Left, title, helpContent)
	return theme.CreateDialogStyle(min(70, m.windowWidth-10), "").Render(content)
}

// renderBucketList renders the buckets region.
func (m *BrowserModel) renderBucketList() string {
	title := theme.CreateSectionHeaderStyle().Render("🗂️  Buckets")

	if m.bucketList.loading {
		content := lipgloss.JoinVertical(lipgloss.Left, title, "",
			theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Loading buckets...", m.spinner.View())))
		return m.renderFloatingDialog(theme.CreateDialogStyle(60, "").Render(content))
	}

	if len(m.bucketList.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left, title, "",
			theme.CreateSecondaryTextStyle().Render("No buckets found"),
			"",
			theme.CreateSecondaryTextStyle().Render("Press 'r' to refresh or 'q' to quit"))
		return m.renderFloatingDialog(theme.CreateDialogStyle(60, "").Render(content))
	}

	var lines []string
	for i, row := range m.bucketList.rows {
		marker := "  "
		if row.isMain {
			marker = "* "
		}

		stats := ""
		if row.stats.Pending {
			stats = " (stats pending)"
		} else {
			stats = fmt.Sprintf(": %s objects, %s stored",
				humanize.Comma(row.stats.ObjectCount),
				humanize.IBytes(uint64(row.stats.StoredBytes)))
			if row.stats.SavingsPct > 0 {
				stats += fmt.Sprintf(", %.1f%% saved", row.stats.SavingsPct)
			}
		}

		line := marker + row.stats.Name + stats
		if i == m.bucketList.index {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(theme.ColorBrightBlue)).
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Bold(true).
				Padding(0, 1).
				Render("▶ "+line))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Padding(0, 1).
				Render("  "+line))
		}
	}

	current := theme.CreateSecondaryTextStyle().
		Render("Current: " + m.config.GetEffectiveBucket())

	sections := []string{title, "", current, "", strings.Join(lines, "\n"), ""}
	if m.status.HasMessage() {
		sections = append(sections, m.status.RenderMessage(), "")
	}
	sections = append(sections,
		theme.CreateSecondaryTextStyle().Render("enter: open • m: set main • r: refresh • q: quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.renderFloatingDialog(theme.CreateDialogStyle(72, "").Render(content))
}

func truncateMiddle(s string, width int) string {
	if len(s) <= width || width < 10 {
		return s
	}
	half := (width - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}
