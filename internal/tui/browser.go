package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/dgview/dgview/internal/config"
	"github.com/dgview/dgview/internal/listing"
	"github.com/dgview/dgview/internal/nav"
	"github.com/dgview/dgview/internal/remote"
	"github.com/dgview/dgview/internal/tui/messaging"
	"github.com/dgview/dgview/internal/tui/theme"
	"github.com/dgview/dgview/internal/utils"
)

// BrowserModel is the object browser TUI model. One model hosts every UI
// region; the navigation machine decides which region a keystroke belongs to.
type BrowserModel struct {
	config  *config.Config
	backend Backend
	loader  *listing.Loader

	fsm       *nav.Machine
	engine    *nav.Engine
	selection *listing.SelectionModel

	bucket string
	prefix string

	cache      *listing.DirectoryCache
	previewing bool
	loading    bool
	loadSeq    int
	progress   int
	loadErr    error

	searchInput  textinput.Model
	searchActive bool
	searchUnhook func()

	sortField    listing.SortKey
	sortOrder    listing.SortOrder
	compressed   remote.CompressedFilter
	resetCounter int

	pageIndex int
	pageSize  int
	pageDirs  []string
	pageObjs  []listing.IndexedObject

	objectTable table.Model

	panel         filePanel
	lastOpenedKey string
	confirm       confirmState
	bucketList    bucketSelector
	status        *messaging.StatusManager

	showHelp bool
	keyMap   KeyMap
	help     help.Model
	spinner  spinner.Model

	windowWidth  int
	windowHeight int

	program *tea.Program
	queued  []tea.Cmd
}

// confirmState is the pending bulk-delete confirmation.
type confirmState struct {
	active bool
	keys   []string
	unhook func()
}

// NewBrowserModel creates a browser over the given backend, starting at the
// bucket the config resolves. With no bucket configured the bucket selector
// opens first.
func NewBrowserModel(backend Backend, cfg *config.Config) *BrowserModel {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "NAME", Width: 45},
		{Title: "SIZE", Width: 10},
		{Title: "STORED", Width: 10},
		{Title: "SAVED", Width: 7},
		{Title: "MODIFIED", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(20),
		table.WithFocused(true),
		table.WithStyles(table.Styles{
			Header: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(theme.ColorBrightCyan)).
				BorderBottom(true).
				Bold(true).
				Foreground(lipgloss.Color(theme.ColorBrightCyan)),
			Selected: lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)).
				Background(lipgloss.Color(theme.ColorBrightBlue)).
				Bold(true),
			Cell: lipgloss.NewStyle().
				Foreground(lipgloss.Color(theme.ColorWhite)),
		}),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorBrightYellow))

	search := textinput.New()
	search.Placeholder = "filter by name"
	search.CharLimit = 256
	search.Width = 32

	m := &BrowserModel{
		config:       cfg,
		backend:      backend,
		loader:       listing.NewLoader(backend),
		fsm:          nav.NewMachine(nav.StateObjects, nav.MustValidate(nav.DefaultTransitions(), nav.StateObjects)),
		selection:    listing.NewSelectionModel(),
		bucket:       cfg.GetEffectiveBucket(),
		sortField:    listing.SortByName,
		sortOrder:    listing.OrderAsc,
		compressed:   remote.CompressedFilter(cfg.UI.Compressed),
		pageSize:     cfg.UI.PageSize,
		searchInput:  search,
		objectTable:  t,
		status:       messaging.NewStatusManager(),
		keyMap:       DefaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		windowWidth:  80,
		windowHeight: 24,
	}
	if m.pageSize <= 0 {
		m.pageSize = 200
	}

	// A nil *UserData wrapped in the interface would still pass the engine's
	// nil check, so only hand over a store that actually exists.
	var store nav.FocusStore
	if ud := cfg.UserData(); ud != nil {
		store = ud
	}
	m.engine = nav.NewEngine(store, m.objectsRegionActive, nav.Callbacks{
		EnterDirectory:    m.enterPrefix,
		OpenObject:        m.openFilePanel,
		NavigateUp:        m.enterPrefix,
		NavigateToBuckets: m.gotoBuckets,
	})
	m.updateResetToken()
	return m
}

// SetProgram sets the tea.Program reference for direct message sending
func (m *BrowserModel) SetProgram(p *tea.Program) {
	m.program = p
}

// SetPrefix positions the browser at a prefix before the program starts.
func (m *BrowserModel) SetPrefix(prefix string) {
	m.prefix = prefix
}

func (m *BrowserModel) objectsRegionActive() bool {
	return m.fsm.Current() == nav.StateObjects
}

// Init implements the bubbletea.Model interface
func (m *BrowserModel) Init() tea.Cmd {
	if m.bucket == "" {
		m.fsm.Transition(nav.EventNavigateToBuckets)
		return tea.Batch(m.loadBuckets(), m.spinner.Tick)
	}
	return tea.Batch(m.loadListing(false), m.spinner.Tick)
}

// Update implements the bubbletea.Model interface
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case previewLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.cache = msg.cache
		m.previewing = true
		m.rebuildPage()
		return m, nil

	case loadProgressMsg:
		if msg.seq == m.loadSeq {
			m.progress = msg.loaded
		}
		return m, nil

	case listingLoadedMsg:
		if msg.seq != m.loadSeq {
			logrus.Debugf("browser: dropping stale listing (seq %d, want %d)", msg.seq, m.loadSeq)
			return m, nil
		}
		m.loading = false
		m.previewing = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.status.SetMessage(fmt.Sprintf("Listing failed: %v", msg.err), messaging.MessageError)
			return m, nil
		}
		m.loadErr = nil
		m.cache = msg.cache
		m.rebuildPage()
		return m, nil

	case bucketsLoadedMsg:
		m.bucketList.loading = false
		if msg.err != nil {
			m.status.SetMessage(fmt.Sprintf("Loading buckets failed: %v", msg.err), messaging.MessageError)
			return m, nil
		}
		m.bucketList.setBuckets(msg.buckets, m.config.GetMainBucket(), m.bucket)
		return m, nil

	case metadataLoadedMsg:
		if m.panel.open && m.panel.key == msg.key {
			m.panel.loading = false
			m.panel.detail = msg.detail
			m.panel.err = msg.err
		}
		return m, nil

	case downloadURLMsg:
		if msg.err != nil {
			m.status.SetMessage(fmt.Sprintf("Presigning failed: %v", msg.err), messaging.MessageError)
			return m, nil
		}
		if m.panel.open && m.panel.key == msg.key {
			m.panel.downloadURL = msg.url.DownloadURL
		}
		return m, m.copyToClipboard("download URL", msg.url.DownloadURL)

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.status.SetMessage(fmt.Sprintf("Copy failed: %v", msg.err), messaging.MessageError)
		} else {
			m.status.SetMessage(fmt.Sprintf("Copied %s to clipboard", msg.what), messaging.MessageSuccess)
		}
		return m, nil

	case deleteCompletedMsg:
		return m.handleDeleteCompleted(msg)

	case tea.MouseMsg:
		// Any pointer interaction ends keyboard mode; the highlight falls
		// back to the last opened row.
		m.engine.NotifyPointer()
		m.syncTableCursor()
		return m, nil

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		m.resizeTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

// handleKey routes one keystroke to whichever region currently owns focus.
func (m *BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// The escape stack preempts everything: only the topmost open overlay
	// reacts, and only one closes per press.
	if keyStr == "esc" && nav.Escapes.Dispatch() {
		return m, m.flushQueued()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.fsm.Current() {
	case nav.StateBuckets:
		return m.handleBucketKey(msg)
	case nav.StateModal:
		return m.handleConfirmKey(msg)
	case nav.StateDropdown:
		return m.handleDropdownKey(msg)
	case nav.StateFilePanel:
		return m.handleFilePanelKey(msg)
	default:
		return m.handleObjectsKey(msg)
	}
}

// handleObjectsKey drives the listing region: the keyboard engine first, then
// the command keys.
func (m *BrowserModel) handleObjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	ctx := nav.KeyContext{TextEntry: m.searchActive, SearchField: m.searchActive}
	if m.engine.HandleKey(keyStr, ctx) {
		m.status.ClearMessage()
		m.syncTableCursor()
		return m, m.flushQueued()
	}

	if m.searchActive {
		if keyStr == "esc" {
			return m, nil
		}
		var cmd tea.Cmd
		before := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != before {
			m.pageIndex = 0
			m.rebuildPage()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Search):
		m.openSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.loadListing(true)

	case key.Matches(msg, m.keyMap.Sort):
		m.cycleSortField()
		return m, nil

	case key.Matches(msg, m.keyMap.Order):
		m.toggleSortOrder()
		return m, nil

	case key.Matches(msg, m.keyMap.Filter):
		m.cycleCompressionFilter()
		return m, m.loadListing(false)

	case key.Matches(msg, m.keyMap.NextPage):
		m.changePage(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PrevPage):
		m.changePage(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.Mark):
		m.toggleMark()
		return m, nil

	case key.Matches(msg, m.keyMap.MarkAll):
		m.selection.ToggleSelectAll()
		m.rebuildRows()
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		m.openDeleteConfirm()
		return m, nil

	case key.Matches(msg, m.keyMap.Buckets):
		m.gotoBuckets()
		return m, m.flushQueued()

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil
	}

	return m, nil
}

// enterPrefix moves the listing to another prefix within the bucket. It
// serves both directory descent and parent ascent.
func (m *BrowserModel) enterPrefix(prefix string) {
	m.prefix = prefix
	m.pageIndex = 0
	m.lastOpenedKey = ""
	m.updateResetToken()
	m.queue(m.loadListing(false))
}

// gotoBuckets switches to the bucket selector region.
func (m *BrowserModel) gotoBuckets() {
	if !m.fsm.Transition(nav.EventNavigateToBuckets) {
		return
	}
	m.bucketList.loading = true
	m.queue(m.loadBuckets())
}

// switchBucket enters a bucket chosen in the selector.
func (m *BrowserModel) switchBucket(name string) {
	m.config.SetTempBucket(name)
	if ud := m.config.UserData(); ud != nil {
		if err := ud.SetLastUsed(name); err != nil {
			logrus.Debugf("browser: persisting last-used bucket failed: %v", err)
		}
	}
	m.bucket = name
	m.prefix = ""
	m.pageIndex = 0
	m.lastOpenedKey = ""
	m.updateResetToken()
	m.fsm.Transition(nav.EventNavigateToObjects)
	m.queue(m.loadListing(false))
}

// openSearch focuses the search input and hooks its Escape handler.
func (m *BrowserModel) openSearch() {
	if m.searchActive {
		return
	}
	m.searchActive = true
	m.searchInput.Focus()

	var unhook func()
	unhook = nav.Escapes.Register(func() bool {
		m.closeSearch()
		unhook()
		return true
	})
	m.searchUnhook = unhook
}

func (m *BrowserModel) closeSearch() {
	if !m.searchActive {
		return
	}
	m.searchActive = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.searchUnhook = nil
	m.pageIndex = 0
	m.rebuildPage()
}

func (m *BrowserModel) cycleSortField() {
	switch m.sortField {
	case listing.SortByName:
		m.sortField = listing.SortBySize
	case listing.SortBySize:
		m.sortField = listing.SortByModified
	default:
		m.sortField = listing.SortByName
	}
	m.pageIndex = 0
	m.updateResetToken()
	m.rebuildPage()
}

func (m *BrowserModel) toggleSortOrder() {
	if m.sortOrder == listing.OrderAsc {
		m.sortOrder = listing.OrderDesc
	} else {
		m.sortOrder = listing.OrderAsc
	}
	m.pageIndex = 0
	m.updateResetToken()
	m.rebuildPage()
}

func (m *BrowserModel) cycleCompressionFilter() {
	switch m.compressed {
	case remote.CompressedAny:
		m.compressed = remote.CompressedOnly
	case remote.CompressedOnly:
		m.compressed = remote.CompressedNone
	default:
		m.compressed = remote.CompressedAny
	}
	m.pageIndex = 0
	m.updateResetToken()
}

func (m *BrowserModel) changePage(delta int) {
	info := m.paginationInfo()
	next := m.pageIndex + delta
	if next < 0 || next >= info.TotalPages {
		return
	}
	m.pageIndex = next
	m.rebuildPage()
}

// toggleMark flips selection on the focused row.
func (m *BrowserModel) toggleMark() {
	target, ok := m.focusedTarget()
	if !ok {
		return
	}
	m.selection.ToggleSelection(target)
	m.rebuildRows()
}

func (m *BrowserModel) focusedTarget() (listing.Target, bool) {
	focused := m.engine.FocusedKey()
	if focused == "" {
		return listing.Target{}, false
	}
	for _, dir := range m.pageDirs {
		if dir == focused {
			return listing.Target{Type: listing.TargetPrefix, Key: focused}, true
		}
	}
	for _, obj := range m.pageObjs {
		if obj.Key == focused {
			return listing.Target{Type: listing.TargetObject, Key: focused}, true
		}
	}
	return listing.Target{}, false
}

// updateResetToken recomputes the selection scope token. Selection clears
// itself whenever the token changes.
func (m *BrowserModel) updateResetToken() {
	m.selection.SetResetToken(fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		m.bucket, m.prefix, m.sortField, m.sortOrder, m.compressed, m.resetCounter))
}

// queue defers a command produced inside an engine callback until the key
// handler returns to Update.
func (m *BrowserModel) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

func (m *BrowserModel) flushQueued() tea.Cmd {
	if len(m.queued) == 0 {
		return nil
	}
	cmds := m.queued
	m.queued = nil
	return tea.Batch(cmds...)
}

// loadListing starts a full listing fetch for the current bucket/prefix and
// compression filter. A new sequence number makes every in-flight fetch
// stale.
func (m *BrowserModel) loadListing(bypass bool) tea.Cmd {
	m.loadSeq++
	seq := m.loadSeq
	m.loading = true
	m.progress = 0
	m.loadErr = nil

	params := listing.Params{
		Bucket:      m.bucket,
		Prefix:      m.prefix,
		Compressed:  m.compressed,
		BypassCache: bypass,
	}
	preview := m.config.UI.Preview
	program := m.program

	return func() tea.Msg {
		if program != nil {
			if preview {
				params.OnPreview = func(c *listing.DirectoryCache) {
					program.Send(previewLoadedMsg{seq: seq, cache: c})
				}
			}
			params.OnProgress = func(loaded int) {
				program.Send(loadProgressMsg{seq: seq, loaded: loaded})
			}
		}
		cache, err := m.loader.FetchAll(context.Background(), params)
		return listingLoadedMsg{seq: seq, cache: cache, err: err}
	}
}

func (m *BrowserModel) loadBuckets() tea.Cmd {
	return func() tea.Msg {
		buckets, err := m.backend.ListBuckets(context.Background())
		return bucketsLoadedMsg{buckets: buckets, err: err}
	}
}

func (m *BrowserModel) copyToClipboard(what, content string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{what: what, err: utils.CopyToClipboard(content)}
	}
}
