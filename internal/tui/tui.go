// Package tui provides the interactive terminal front end for browsing leagues.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/preston-bernstein/league-catalog/internal/app/leagues"
	"github.com/preston-bernstein/league-catalog/internal/catalog"
	"github.com/preston-bernstein/league-catalog/internal/querycache"
)

// Catalog is the subset of the league service the UI drives.
type Catalog interface {
	Leagues(ctx context.Context) leagues.LeaguesResult
	PageFor(res leagues.LeaguesResult, state catalog.FilterState) leagues.Page
	RefreshLeagues()
	WatchLeagues() (<-chan leagues.LeaguesResult, func())
	Badge(ctx context.Context, leagueID string) leagues.BadgeState
	WatchBadge(leagueID string) (<-chan leagues.BadgeState, func())
	ToggleReveal(leagueID string) bool
	Revealed(leagueID string) bool
}

// Mode indicates the current input mode
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
)

// Model represents the TUI state
type Model struct {
	svc Catalog
	ctx context.Context

	// Data
	res    leagues.LeaguesResult
	page   leagues.Page
	badges       map[string]leagues.BadgeState
	badgeWatches map[string]badgeWatch
	watch        <-chan leagues.LeaguesResult
	cancel       func()
	revalidate   time.Duration

	// Filters and selection
	state       catalog.FilterState
	categoryIdx int // -1 means all categories
	cursor      int
	offset      int

	mode    Mode
	search  textinput.Model
	spinner spinner.Model

	width  int
	height int

	styles styles
}

type badgeWatch struct {
	ch     <-chan leagues.BadgeState
	cancel func()
}

// Option configures a Model.
type Option func(*Model)

// WithRevalidateInterval re-queries the league list and revealed badges every d,
// so entries that went stale while the UI stays open are refreshed. Zero disables it.
func WithRevalidateInterval(d time.Duration) Option {
	return func(m *Model) { m.revalidate = d }
}

// Message types
type leaguesLoadedMsg struct {
	res leagues.LeaguesResult
}

type leaguesUpdatedMsg struct {
	res leagues.LeaguesResult
}

type watchClosedMsg struct{}

type badgeLoadedMsg struct {
	leagueID string
	state    leagues.BadgeState
}

type badgeUpdatedMsg struct {
	leagueID string
	ch       <-chan leagues.BadgeState
	state    leagues.BadgeState
}

type badgeWatchClosedMsg struct {
	leagueID string
	ch       <-chan leagues.BadgeState
}

type revalidateMsg struct{}

// New creates a model bound to svc and subscribes to league list changes.
func New(ctx context.Context, svc Catalog, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search leagues..."
	ti.CharLimit = 64
	ti.Prompt = "/ "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	watch, cancel := svc.WatchLeagues()
	m := &Model{
		svc:          svc,
		ctx:          ctx,
		badges:       make(map[string]leagues.BadgeState),
		badgeWatches: make(map[string]badgeWatch),
		watch:        watch,
		cancel:       cancel,
		categoryIdx:  -1,
		search:       ti,
		spinner:      sp,
		styles:       defaultStyles(),
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Init starts the first league fetch and the change listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadLeagues(), m.waitForLeagues(), m.scheduleRevalidate())
}

// Close stops the league and badge change subscriptions.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	for id := range m.badgeWatches {
		m.stopBadgeWatch(id)
	}
}

func (m *Model) loadLeagues() tea.Cmd {
	return func() tea.Msg {
		return leaguesLoadedMsg{res: m.svc.Leagues(m.ctx)}
	}
}

func (m *Model) waitForLeagues() tea.Cmd {
	watch := m.watch
	if watch == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-watch
		if !ok {
			return watchClosedMsg{}
		}
		return leaguesUpdatedMsg{res: res}
	}
}

func waitForBadge(leagueID string, ch <-chan leagues.BadgeState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return badgeWatchClosedMsg{leagueID: leagueID, ch: ch}
		}
		return badgeUpdatedMsg{leagueID: leagueID, ch: ch, state: state}
	}
}

func (m *Model) scheduleRevalidate() tea.Cmd {
	if m.revalidate <= 0 {
		return nil
	}
	return tea.Tick(m.revalidate, func(time.Time) tea.Msg { return revalidateMsg{} })
}

// revalidateCmd queries the list and every revealed badge. Stale entries start a
// background refresh whose result arrives through the watches.
func (m *Model) revalidateCmd() tea.Cmd {
	ids := make([]string, 0, len(m.badgeWatches))
	for id := range m.badgeWatches {
		ids = append(ids, id)
	}
	return func() tea.Msg {
		m.svc.Leagues(m.ctx)
		for _, id := range ids {
			m.svc.Badge(m.ctx, id)
		}
		return nil
	}
}

func (m *Model) loadBadge(leagueID string) tea.Cmd {
	return func() tea.Msg {
		return badgeLoadedMsg{leagueID: leagueID, state: m.svc.Badge(m.ctx, leagueID)}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case leaguesLoadedMsg:
		// Once the first state is in, the watch delivers every later change and a
		// loaded snapshot can be older than what is on screen.
		if m.watch != nil && m.res.Status != querycache.StatusIdle {
			return m, nil
		}
		m.setLeagues(msg.res)
		return m, nil

	case leaguesUpdatedMsg:
		m.setLeagues(msg.res)
		return m, m.waitForLeagues()

	case watchClosedMsg:
		m.watch = nil
		return m, nil

	case badgeLoadedMsg:
		// The user hid the badge while it loaded; the cache keeps the result.
		if !m.svc.Revealed(msg.leagueID) {
			return m, nil
		}
		if _, ok := m.badgeWatches[msg.leagueID]; ok && m.badges[msg.leagueID].Status != querycache.StatusIdle {
			return m, nil
		}
		m.badges[msg.leagueID] = msg.state
		return m, nil

	case badgeUpdatedMsg:
		w, ok := m.badgeWatches[msg.leagueID]
		if !ok || w.ch != msg.ch {
			return m, nil
		}
		m.badges[msg.leagueID] = msg.state
		return m, waitForBadge(msg.leagueID, w.ch)

	case badgeWatchClosedMsg:
		if w, ok := m.badgeWatches[msg.leagueID]; ok && w.ch == msg.ch {
			delete(m.badgeWatches, msg.leagueID)
		}
		return m, nil

	case revalidateMsg:
		return m, tea.Batch(m.revalidateCmd(), m.scheduleRevalidate())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.mode == ModeSearch {
			return m.handleSearchMode(msg)
		}
		return m.handleBrowseMode(msg)
	}

	return m, nil
}

func (m *Model) handleBrowseMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "/":
		m.mode = ModeSearch
		m.search.CursorEnd()
		return m, m.search.Focus()

	case "tab":
		m.cycleCategory(1)
		return m, nil

	case "shift+tab":
		m.cycleCategory(-1)
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampCursor()
		return m, nil

	case "down", "j":
		if m.cursor < len(m.page.Leagues)-1 {
			m.cursor++
		}
		m.clampCursor()
		return m, nil

	case "enter", " ":
		return m, m.toggleSelected()

	case "c":
		m.clearFilters()
		return m, nil

	case "r":
		m.svc.RefreshLeagues()
		return m, m.loadLeagues()
	}
	return m, nil
}

func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.mode = ModeBrowse
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.state.Search {
		m.state.Search = v
		m.cursor = 0
		m.refreshPage()
	}
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

func (m *Model) setLeagues(res leagues.LeaguesResult) {
	m.res = res
	m.refreshPage()
}

func (m *Model) refreshPage() {
	m.page = m.svc.PageFor(m.res, m.state)
	// A category can vanish after a refresh; fall back to all.
	if m.state.Category != "" && indexOf(m.page.Categories, m.state.Category) < 0 && m.res.HasData() {
		m.state.Category = ""
		m.categoryIdx = -1
		m.page = m.svc.PageFor(m.res, m.state)
	}
	m.clampCursor()
}

func (m *Model) cycleCategory(step int) {
	n := len(m.page.Categories)
	if n == 0 {
		return
	}
	// Positions run -1 (all) through n-1.
	m.categoryIdx = (m.categoryIdx+1+step+n+1)%(n+1) - 1
	if m.categoryIdx < 0 {
		m.state.Category = ""
	} else {
		m.state.Category = m.page.Categories[m.categoryIdx]
	}
	m.cursor = 0
	m.refreshPage()
}

func (m *Model) clearFilters() {
	m.state = catalog.FilterState{}
	m.categoryIdx = -1
	m.search.SetValue("")
	m.cursor = 0
	m.refreshPage()
}

func (m *Model) toggleSelected() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.page.Leagues) {
		return nil
	}
	id := m.page.Leagues[m.cursor].ID
	if !m.svc.ToggleReveal(id) {
		m.stopBadgeWatch(id)
		delete(m.badges, id)
		return nil
	}
	m.badges[id] = leagues.BadgeState{}
	ch, cancel := m.svc.WatchBadge(id)
	m.badgeWatches[id] = badgeWatch{ch: ch, cancel: cancel}
	return tea.Batch(m.loadBadge(id), waitForBadge(id, ch))
}

func (m *Model) stopBadgeWatch(id string) {
	if w, ok := m.badgeWatches[id]; ok {
		w.cancel()
		delete(m.badgeWatches, id)
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.page.Leagues) {
		m.cursor = len(m.page.Leagues) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if rows > 0 && m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// Selected returns the highlighted league id, or "" when the list is empty.
func (m *Model) Selected() string {
	if m.cursor < 0 || m.cursor >= len(m.page.Leagues) {
		return ""
	}
	return m.page.Leagues[m.cursor].ID
}

// Filters returns the active filter state.
func (m *Model) Filters() catalog.FilterState {
	return m.state
}

// Page returns the page currently on screen.
func (m *Model) Page() leagues.Page {
	return m.page
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, svc Catalog, opts ...Option) error {
	m := New(ctx, svc, opts...)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
