package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgview/dgview/internal/config"
	"github.com/dgview/dgview/internal/nav"
	"github.com/dgview/dgview/internal/remote"
)

type fakeBackend struct {
	page        *remote.Page
	fetchCount  int
	bulkDeleted []string
}

func (f *fakeBackend) FetchObjects(ctx context.Context, q remote.Query) (*remote.Page, error) {
	f.fetchCount++
	return f.page, nil
}

func (f *fakeBackend) ListBuckets(ctx context.Context) ([]remote.BucketStats, error) {
	return []remote.BucketStats{{Name: "photos", ObjectCount: 2}}, nil
}

func (f *fakeBackend) ObjectMetadata(ctx context.Context, bucket, key string) (*remote.ObjectDetail, error) {
	return &remote.ObjectDetail{Key: key, OriginalBytes: 1000, StoredBytes: 100, Compressed: true}, nil
}

func (f *fakeBackend) DeleteObject(ctx context.Context, bucket, key string) error {
	return nil
}

func (f *fakeBackend) BulkDelete(ctx context.Context, bucket string, keys []string) (*remote.BulkDeleteResult, error) {
	f.bulkDeleted = append(f.bulkDeleted, keys...)
	return &remote.BulkDeleteResult{
		Deleted:        keys,
		TotalRequested: len(keys),
		TotalDeleted:   len(keys),
	}, nil
}

func (f *fakeBackend) DownloadURL(ctx context.Context, bucket, key string, expiresIn time.Duration) (*remote.PresignedURL, error) {
	return &remote.PresignedURL{DownloadURL: "https://example.com/" + key, ExpiresIn: int(expiresIn.Seconds())}, nil
}

func fixturePage() *remote.Page {
	modified := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return &remote.Page{
		Objects: []remote.ObjectItem{
			{Key: "alpha.bin", OriginalBytes: 1000, StoredBytes: 100, Compressed: true, Modified: modified},
			{Key: "beta.bin", OriginalBytes: 500, StoredBytes: 500, Modified: modified},
		},
		CommonPrefixes: []string{"docs/"},
	}
}

func newTestBrowser(t *testing.T) (*BrowserModel, *fakeBackend) {
	t.Helper()
	nav.Escapes.Clear()
	t.Cleanup(nav.Escapes.Clear)

	backend := &fakeBackend{page: fixturePage()}
	cfg := &config.Config{
		UI: config.UIConfig{Bucket: "photos", PageSize: 10, Compressed: "any"},
	}
	m := NewBrowserModel(backend, cfg)

	// Run the initial listing fetch synchronously.
	m.Update(m.loadListing(false)())
	return m, backend
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestBrowserRunsWithoutPersistedUserData(t *testing.T) {
	m, _ := newTestBrowser(t)

	// A Config built by hand carries no user data; focus moves and bucket
	// switches must degrade to "no persistence" instead of dereferencing it.
	m.Update(keyMsg("down"))
	m.Update(keyMsg("j"))
	assert.Equal(t, "alpha.bin", m.engine.FocusedKey())

	m.switchBucket("archive")
	assert.Equal(t, "archive", m.bucket)
}

func TestBrowserDirectoriesReachableAcrossPages(t *testing.T) {
	nav.Escapes.Clear()
	t.Cleanup(nav.Escapes.Clear)

	backend := &fakeBackend{page: fixturePage()}
	cfg := &config.Config{
		UI: config.UIConfig{Bucket: "photos", PageSize: 2, Compressed: "any"},
	}
	m := NewBrowserModel(backend, cfg)
	m.Update(m.loadListing(false)())

	assert.Empty(t, m.pageDirs, "objects fill the first page completely")
	require.Len(t, m.pageObjs, 2)

	m.changePage(1)
	assert.Equal(t, []string{"docs/"}, m.pageDirs,
		"directories spill onto the page after the objects end")
	assert.Empty(t, m.pageObjs)
}

func TestBrowserPagePresentsDirectoriesFirst(t *testing.T) {
	m, _ := newTestBrowser(t)

	assert.Equal(t, []string{"docs/"}, m.pageDirs)
	require.Len(t, m.pageObjs, 2)
	assert.Equal(t, "alpha.bin", m.pageObjs[0].Key)
	assert.False(t, m.loading)

	rows := m.objectTable.Rows()
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0][1], "docs/")
}

func TestBrowserKeyboardFocusAndMark(t *testing.T) {
	m, _ := newTestBrowser(t)

	m.Update(keyMsg("down"))
	assert.Equal(t, "docs/", m.engine.FocusedKey())

	m.Update(keyMsg("j"))
	assert.Equal(t, "alpha.bin", m.engine.FocusedKey())

	m.Update(keyMsg("v"))
	rows := m.objectTable.Rows()
	assert.Equal(t, "[x]", rows[1][0])
	assert.Equal(t, "[ ]", rows[0][0])

	m.Update(keyMsg("v"))
	assert.Equal(t, "[ ]", m.objectTable.Rows()[1][0])
}

func TestBrowserSearchFiltersAndEscCloses(t *testing.T) {
	m, _ := newTestBrowser(t)

	m.Update(keyMsg("/"))
	assert.True(t, m.searchActive)
	assert.Equal(t, 1, nav.Escapes.Len())

	for _, r := range "beta" {
		m.Update(keyMsg(string(r)))
	}
	assert.Empty(t, m.pageDirs)
	require.Len(t, m.pageObjs, 1)
	assert.Equal(t, "beta.bin", m.pageObjs[0].Key)

	m.Update(keyMsg("esc"))
	assert.False(t, m.searchActive)
	assert.Equal(t, 0, nav.Escapes.Len())
	assert.Len(t, m.pageObjs, 2, "closing search restores the unfiltered page")
}

func TestBrowserStaleListingDropped(t *testing.T) {
	m, backend := newTestBrowser(t)

	stale := m.loadListing(false)
	fresh := m.loadListing(false)

	backend.page = &remote.Page{Objects: []remote.ObjectItem{{Key: "only.bin"}}}
	staleMsg := stale()
	freshMsg := fresh()

	m.Update(freshMsg)
	require.Len(t, m.pageObjs, 1)

	m.Update(staleMsg)
	assert.Len(t, m.pageObjs, 1, "a superseded fetch must not overwrite the listing")
}

func TestBrowserFilePanelFlow(t *testing.T) {
	m, _ := newTestBrowser(t)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("j"))
	_, cmd := m.Update(keyMsg("enter"))

	assert.Equal(t, nav.StateFilePanel, m.fsm.Current())
	assert.True(t, m.panel.open)
	assert.Equal(t, "alpha.bin", m.panel.key)

	require.NotNil(t, cmd)
	m.Update(cmd())
	require.NotNil(t, m.panel.detail)
	assert.Equal(t, "alpha.bin", m.panel.detail.Key)
	assert.False(t, m.panel.loading)
}

func TestBrowserEscapeClosesInnermostFirst(t *testing.T) {
	m, _ := newTestBrowser(t)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("enter"))
	m.Update(keyMsg("enter"))
	assert.Equal(t, nav.StateDropdown, m.fsm.Current())
	assert.Equal(t, 2, nav.Escapes.Len())

	m.Update(keyMsg("esc"))
	assert.Equal(t, nav.StateFilePanel, m.fsm.Current())
	assert.True(t, m.panel.open, "only the dropdown closes on the first press")

	m.Update(keyMsg("esc"))
	assert.Equal(t, nav.StateObjects, m.fsm.Current())
	assert.False(t, m.panel.open)
	assert.Equal(t, 0, nav.Escapes.Len())
}

func TestBrowserPointerHighlightFallsBackToLastOpenedRow(t *testing.T) {
	m, _ := newTestBrowser(t)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("enter"))
	m.Update(keyMsg("esc"))
	assert.Equal(t, 2, m.objectTable.Cursor(), "beta.bin row stays highlighted after the panel closes")

	m.Update(keyMsg("k"))
	assert.Equal(t, 1, m.objectTable.Cursor())

	m.Update(tea.MouseMsg{})
	assert.False(t, m.engine.KeyboardMode())
	assert.Equal(t, 2, m.objectTable.Cursor(),
		"once keyboard mode ends the highlight returns to the last opened row")
}

func TestBrowserDeleteConfirmFlow(t *testing.T) {
	m, backend := newTestBrowser(t)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("x"))

	assert.Equal(t, nav.StateModal, m.fsm.Current())
	assert.Equal(t, []string{"alpha.bin"}, m.confirm.keys)

	_, cmd := m.Update(keyMsg("y"))
	assert.Equal(t, nav.StateObjects, m.fsm.Current())

	require.NotNil(t, cmd)
	_, reload := m.Update(cmd())
	assert.Equal(t, []string{"alpha.bin"}, backend.bulkDeleted)
	assert.NotNil(t, reload, "a successful delete reloads the listing")
}

func TestBrowserDeleteCancelled(t *testing.T) {
	m, backend := newTestBrowser(t)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("x"))
	m.Update(keyMsg("n"))

	assert.Equal(t, nav.StateObjects, m.fsm.Current())
	assert.Empty(t, backend.bulkDeleted)
	assert.Equal(t, 0, nav.Escapes.Len())
}

func TestBrowserDeleteSkipsDirectoryFocus(t *testing.T) {
	m, _ := newTestBrowser(t)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("x"))

	assert.NotEqual(t, nav.StateModal, m.fsm.Current(),
		"a focused directory is not deletable")
}
