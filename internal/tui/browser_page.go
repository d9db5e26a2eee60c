package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dgview/dgview/internal/listing"
	"github.com/dgview/dgview/internal/nav"
	"github.com/dgview/dgview/internal/tui/theme"
)

// rebuildPage recomputes the visible page from the cached dataset: search
// filter, in-memory sort, pagination, then rows, traversal items, and the
// selection page.
func (m *BrowserModel) rebuildPage() {
	if m.cache == nil {
		m.pageDirs = nil
		m.pageObjs = nil
		m.objectTable.SetRows(nil)
		m.engine.SetListing(m.bucket, m.prefix, nil)
		m.selection.SetPage(nil)
		return
	}

	objects := m.filteredObjects()
	listing.SortObjects(objects, m.sortField, m.sortOrder)
	dirs := listing.SortDirectories(m.filteredDirectories(), m.sortOrder)

	info := listing.CalculatePaginationInfo(len(objects)+len(dirs), m.pageIndex, m.pageSize)
	if m.pageIndex > 0 && info.CurrentPage > info.TotalPages {
		m.pageIndex = 0
	}

	m.pageObjs = listing.PaginateObjects(objects, m.pageIndex, m.pageSize)
	m.pageDirs = listing.PaginateDirectories(dirs, m.pageIndex, m.pageSize, len(m.pageObjs), len(objects))

	items := make([]nav.Item, 0, len(m.pageDirs)+len(m.pageObjs))
	targets := make([]listing.Target, 0, cap(items))
	for _, dir := range m.pageDirs {
		items = append(items, nav.Item{Key: dir, Type: nav.ItemDirectory})
		targets = append(targets, listing.Target{Type: listing.TargetPrefix, Key: dir})
	}
	for _, obj := range m.pageObjs {
		items = append(items, nav.Item{Key: obj.Key, Type: nav.ItemObject})
		targets = append(targets, listing.Target{Type: listing.TargetObject, Key: obj.Key})
	}

	m.engine.SetListing(m.bucket, m.prefix, items)
	m.selection.SetPage(targets)
	m.rebuildRows()
}

// filteredObjects returns a fresh slice so in-place sorting never disturbs
// the cache itself.
func (m *BrowserModel) filteredObjects() []listing.IndexedObject {
	search := strings.ToLower(m.searchInput.Value())
	objects := make([]listing.IndexedObject, 0, len(m.cache.Objects))
	for _, obj := range m.cache.Objects {
		if search != "" && !strings.Contains(obj.KeyLower(), search) {
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

func (m *BrowserModel) filteredDirectories() []string {
	search := strings.ToLower(m.searchInput.Value())
	if search == "" {
		return m.cache.Directories
	}
	dirs := make([]string, 0, len(m.cache.Directories))
	for _, dir := range m.cache.Directories {
		if strings.Contains(strings.ToLower(dir), search) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// rebuildRows re-renders table rows from the current page without refetching
// or re-sorting. Selection marks live here, so toggles only need this pass.
func (m *BrowserModel) rebuildRows() {
	rows := make([]table.Row, 0, len(m.pageDirs)+len(m.pageObjs))

	for _, dir := range m.pageDirs {
		mark := m.selectionMark(listing.Target{Type: listing.TargetPrefix, Key: dir})
		name := rowNameStyle(true, false).Render("📁 " + m.displayName(dir))
		rows = append(rows, table.Row{mark, name, "-", "-", "-", "-"})
	}
	for _, obj := range m.pageObjs {
		mark := m.selectionMark(listing.Target{Type: listing.TargetObject, Key: obj.Key})
		saved := "-"
		if obj.Compressed {
			saved = fmt.Sprintf("%.1f%%", obj.SavingsPct())
		}
		rows = append(rows, table.Row{
			mark,
			rowNameStyle(false, obj.Compressed).Render(m.displayName(obj.Key)),
			humanize.IBytes(uint64(obj.OriginalBytes)),
			humanize.IBytes(uint64(obj.StoredBytes)),
			saved,
			obj.Modified.Format("2006-01-02 15:04"),
		})
	}

	m.objectTable.SetRows(rows)
	m.syncTableCursor()
}

func rowNameStyle(isDirectory, compressed bool) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetRowColor(isDirectory, compressed)))
}

func (m *BrowserModel) selectionMark(t listing.Target) string {
	if m.selection.IsSelected(t) {
		return "[x]"
	}
	return "[ ]"
}

// displayName strips the current prefix so rows show names relative to the
// directory being browsed.
func (m *BrowserModel) displayName(key string) string {
	return strings.TrimPrefix(key, m.prefix)
}

// syncTableCursor aligns the table highlight with the row that should look
// selected: keyboard focus while keyboard mode is on, otherwise the row whose
// detail panel was last opened, otherwise whatever focus the engine restored.
func (m *BrowserModel) syncTableCursor() {
	visual := nav.VisualSelectionKey(m.lastOpenedKey, m.engine.FocusedKey(), m.engine.KeyboardMode())
	if visual == "" {
		visual = m.engine.FocusedKey()
	}

	row := 0
	for _, dir := range m.pageDirs {
		if nav.ShouldShowSelection(dir, visual) {
			m.objectTable.SetCursor(row)
			return
		}
		row++
	}
	for _, obj := range m.pageObjs {
		if nav.ShouldShowSelection(obj.Key, visual) {
			m.objectTable.SetCursor(row)
			return
		}
		row++
	}
}

func (m *BrowserModel) paginationInfo() listing.PaginationInfo {
	if m.cache == nil {
		return listing.CalculatePaginationInfo(0, m.pageIndex, m.pageSize)
	}
	total := len(m.filteredObjects()) + len(m.filteredDirectories())
	return listing.CalculatePaginationInfo(total, m.pageIndex, m.pageSize)
}

// resizeTable recomputes table dimensions after a window resize.
func (m *BrowserModel) resizeTable() {
	height := m.windowHeight - 8
	if height < 5 {
		height = 5
	}

	nameWidth := m.windowWidth - 3 - 10 - 10 - 7 - 16 - 12
	if nameWidth < 25 {
		nameWidth = 25
	} else if nameWidth > 80 {
		nameWidth = 80
	}

	m.objectTable.SetColumns([]table.Column{
		{Title: " ", Width: 3},
		{Title: "NAME", Width: nameWidth},
		{Title: "SIZE", Width: 10},
		{Title: "STORED", Width: 10},
		{Title: "SAVED", Width: 7},
		{Title: "MODIFIED", Width: 16},
	})
	m.objectTable.SetHeight(height)
}
