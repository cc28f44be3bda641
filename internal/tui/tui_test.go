package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/preston-bernstein/league-catalog/internal/app/leagues"
	domainleagues "github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/querycache"
	"github.com/preston-bernstein/league-catalog/internal/teststubs"
	"github.com/preston-bernstein/league-catalog/internal/testutil"
)

func newStub() *teststubs.StubProvider {
	return &teststubs.StubProvider{
		Leagues: testutil.SampleLeagues(),
		Seasons: map[string][]domainleagues.SeasonBadge{
			"4328": testutil.SampleSeasons("https://img.example/epl.png"),
		},
	}
}

func newModel(t *testing.T, stub *teststubs.StubProvider, opts ...querycache.Option) *Model {
	t.Helper()
	svc := leagues.NewService(stub, leagues.Config{
		Leagues: querycache.Options{StaleAfter: time.Minute},
		Badges:  querycache.Options{StaleAfter: time.Minute},
	}, nil, opts...)
	m := New(context.Background(), svc)
	t.Cleanup(func() {
		m.Close()
		svc.Close()
	})
	return m
}

func loaded(t *testing.T, stub *teststubs.StubProvider) *Model {
	t.Helper()
	m := newModel(t, stub)
	m.Update(m.loadLeagues()())
	return m
}

// pumpLeagues applies list updates already waiting on the watch.
func pumpLeagues(m *Model) {
	for {
		select {
		case res, ok := <-m.watch:
			if !ok {
				return
			}
			m.Update(leaguesUpdatedMsg{res: res})
		default:
			return
		}
	}
}

func awaitLeagues(t *testing.T, m *Model, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		select {
		case res, ok := <-m.watch:
			if !ok {
				t.Fatal("league watch closed")
			}
			m.Update(leaguesUpdatedMsg{res: res})
		case <-time.After(10 * time.Millisecond):
		}
		if cond() {
			return
		}
	}
	t.Fatalf("condition not met, view:\n%s", m.View())
}

func awaitBadge(t *testing.T, m *Model, id string, cond func() bool) {
	t.Helper()
	w, ok := m.badgeWatches[id]
	if !ok {
		t.Fatalf("expected badge watch for %s", id)
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		select {
		case state, ok := <-w.ch:
			if !ok {
				t.Fatal("badge watch closed")
			}
			m.Update(badgeUpdatedMsg{leagueID: id, ch: w.ch, state: state})
		case <-time.After(10 * time.Millisecond):
		}
		if cond() {
			return
		}
	}
	t.Fatalf("condition not met, view:\n%s", m.View())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadShowsAllLeagues(t *testing.T) {
	m := loaded(t, newStub())

	if got := m.Page().Count; got != 4 {
		t.Fatalf("expected 4 leagues, got %d", got)
	}
	view := m.View()
	for _, want := range []string{"Showing 4 of 4 leagues", "English Premier League", "NFL"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestViewShowsLoadingBeforeFirstResult(t *testing.T) {
	m := newModel(t, newStub())

	if view := m.View(); !strings.Contains(view, "Loading leagues") {
		t.Fatalf("expected loading view, got:\n%s", view)
	}
}

func TestSearchNarrowsList(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("/"))
	if m.mode != ModeSearch {
		t.Fatalf("expected search mode, got %v", m.mode)
	}
	m.Update(key("nba"))
	if got := m.Filters().Search; got != "nba" {
		t.Fatalf("expected search nba, got %q", got)
	}
	if m.Page().Count != 1 || m.Selected() != "4387" {
		t.Fatalf("expected only NBA, got %+v", m.Page().Leagues)
	}

	m.Update(key("enter"))
	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode after enter, got %v", m.mode)
	}
	if m.Filters().Search != "nba" {
		t.Fatalf("expected search kept after leaving input, got %q", m.Filters().Search)
	}
}

func TestSearchWithNoMatchesShowsHint(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("/"))
	m.Update(key("zzz"))
	m.Update(key("esc"))

	if m.Page().Count != 0 {
		t.Fatalf("expected no matches, got %d", m.Page().Count)
	}
	if view := m.View(); !strings.Contains(view, "No leagues match your filters") {
		t.Fatalf("expected empty hint, got:\n%s", view)
	}
	if m.Selected() != "" {
		t.Fatalf("expected no selection, got %q", m.Selected())
	}
}

func TestCategoryCycling(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("tab"))
	if got := m.Filters().Category; got != "American Football" {
		t.Fatalf("expected American Football, got %q", got)
	}
	if m.Page().Count != 1 {
		t.Fatalf("expected 1 league, got %d", m.Page().Count)
	}

	m.Update(key("shift+tab"))
	if got := m.Filters().Category; got != "" {
		t.Fatalf("expected all categories, got %q", got)
	}

	m.Update(key("shift+tab"))
	if got := m.Filters().Category; got != "Soccer" {
		t.Fatalf("expected wrap to Soccer, got %q", got)
	}
	if m.Page().Count != 2 {
		t.Fatalf("expected 2 soccer leagues, got %d", m.Page().Count)
	}
}

func TestClearResetsFilters(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("/"))
	m.Update(key("liga"))
	m.Update(key("esc"))
	m.Update(key("tab"))
	m.Update(key("c"))

	if !m.Filters().IsZero() {
		t.Fatalf("expected cleared filters, got %+v", m.Filters())
	}
	if m.search.Value() != "" {
		t.Fatalf("expected empty input, got %q", m.search.Value())
	}
	if m.Page().Count != 4 {
		t.Fatalf("expected 4 leagues, got %d", m.Page().Count)
	}
}

func TestCursorMovement(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("down"))
	m.Update(key("j"))
	if m.Selected() != "4335" {
		t.Fatalf("expected La Liga selected, got %q", m.Selected())
	}
	for i := 0; i < 10; i++ {
		m.Update(key("j"))
	}
	if m.Selected() != "4391" {
		t.Fatalf("expected cursor clamped at last league, got %q", m.Selected())
	}
	m.Update(key("k"))
	if m.Selected() != "4335" {
		t.Fatalf("expected La Liga after moving up, got %q", m.Selected())
	}
}

func TestBadgeToggle(t *testing.T) {
	stub := newStub()
	m := loaded(t, stub)

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected badge load command")
	}
	m.Update(m.loadBadge("4328")())

	view := m.View()
	if !strings.Contains(view, "season 2022-2023: https://img.example/epl.png") {
		t.Fatalf("expected badge line, got:\n%s", view)
	}

	_, cmd = m.Update(key("enter"))
	if cmd != nil {
		t.Fatal("expected no command when hiding")
	}
	if _, ok := m.badgeWatches["4328"]; ok {
		t.Fatal("expected badge watch cancelled on hide")
	}
	if strings.Contains(m.View(), "img.example") {
		t.Fatalf("expected badge hidden, got:\n%s", m.View())
	}
	if got := stub.BadgeCalls.Load(); got != 1 {
		t.Fatalf("expected one season fetch, got %d", got)
	}
}

func TestBadgeWithoutSeasons(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("j"))
	m.Update(key(" "))
	m.Update(m.loadBadge("4387")())

	if view := m.View(); !strings.Contains(view, "no badge") {
		t.Fatalf("expected no badge line, got:\n%s", view)
	}
}

func TestBadgeErrorShown(t *testing.T) {
	stub := newStub()
	stub.BadgeErr = errors.New("upstream down")
	m := loaded(t, stub)

	m.Update(key("enter"))
	m.Update(m.loadBadge("4328")())

	if view := m.View(); !strings.Contains(view, "badge unavailable: upstream down") {
		t.Fatalf("expected badge error, got:\n%s", view)
	}
}

func TestBadgeResultIgnoredAfterHide(t *testing.T) {
	stub := newStub()
	m := loaded(t, stub)

	m.Update(key("enter"))
	m.Update(key("enter"))
	m.Update(m.loadBadge("4328")())

	if _, ok := m.badges["4328"]; ok {
		t.Fatal("expected hidden badge to stay hidden")
	}
	if got := stub.BadgeCalls.Load(); got != 0 {
		t.Fatalf("expected no season fetch for hidden league, got %d", got)
	}
}

func TestErrorViewAndRetry(t *testing.T) {
	stub := newStub()
	stub.Err = errors.New("boom")
	m := loaded(t, stub)

	if m.Page().Status != querycache.StatusError {
		t.Fatalf("expected error status, got %s", m.Page().Status)
	}
	if view := m.View(); !strings.Contains(view, "press r to retry") {
		t.Fatalf("expected retry hint, got:\n%s", view)
	}

	stub.SetLeagues(testutil.SampleLeagues(), nil)
	_, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	m.Update(cmd())
	pumpLeagues(m)

	if m.Page().Status != querycache.StatusSuccess || m.Page().Count != 4 {
		t.Fatalf("expected recovered list, got %s with %d", m.Page().Status, m.Page().Count)
	}
	if got := stub.Calls.Load(); got != 2 {
		t.Fatalf("expected two upstream calls, got %d", got)
	}
}

func TestWatchDeliversUpdates(t *testing.T) {
	m := newModel(t, newStub())
	m.loadLeagues()()

	msg := m.waitForLeagues()()
	upd, ok := msg.(leaguesUpdatedMsg)
	if !ok {
		t.Fatalf("expected leaguesUpdatedMsg, got %T", msg)
	}
	if upd.res.Status != querycache.StatusSuccess {
		t.Fatalf("expected success update, got %s", upd.res.Status)
	}

	_, cmd := m.Update(upd)
	if cmd == nil {
		t.Fatal("expected listener to be rearmed")
	}
	if m.Page().Count != 4 {
		t.Fatalf("expected 4 leagues, got %d", m.Page().Count)
	}
}

func TestQuitCancelsWatch(t *testing.T) {
	m := loaded(t, newStub())

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	// Drain a pending update, if any, then expect the closed channel.
	for range m.watch {
	}

	msg := m.waitForLeagues()()
	if _, ok := msg.(watchClosedMsg); !ok {
		t.Fatalf("expected watchClosedMsg, got %T", msg)
	}
}

func TestRevealedBadgeFollowsBackgroundRefresh(t *testing.T) {
	clock := testutil.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	stub := newStub()
	m := newModel(t, stub, querycache.WithClock(clock.Now))
	m.Update(m.loadLeagues()())

	m.Update(key("enter"))
	m.Update(m.loadBadge("4328")())
	if !strings.Contains(m.View(), "epl.png") {
		t.Fatalf("expected first badge, got:\n%s", m.View())
	}
	m.Update(key("enter"))

	clock.Advance(2 * time.Minute)
	stub.SetSeasons("4328", testutil.SampleSeasons("https://img.example/NEW.png"))

	m.Update(key("enter"))
	m.Update(m.loadBadge("4328")())
	awaitBadge(t, m, "4328", func() bool {
		return strings.Contains(m.View(), "NEW.png")
	})
	if strings.Contains(m.View(), "epl.png") {
		t.Fatalf("expected old badge replaced, got:\n%s", m.View())
	}
	if got := stub.BadgeCalls.Load(); got != 2 {
		t.Fatalf("expected one background refresh, got %d season fetches", got)
	}
}

func TestBadgeUpdateFromCancelledWatchIgnored(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(key("enter"))
	stale := m.badgeWatches["4328"].ch
	m.Update(key("enter"))
	m.Update(key("enter"))

	m.Update(badgeUpdatedMsg{leagueID: "4328", ch: stale, state: leagues.BadgeState{Found: true}})
	if m.badges["4328"].Found {
		t.Fatal("expected update from a cancelled watch to be ignored")
	}
	m.Update(badgeWatchClosedMsg{leagueID: "4328", ch: stale})
	if _, ok := m.badgeWatches["4328"]; !ok {
		t.Fatal("expected live watch kept")
	}
}

func TestCloseCancelsBadgeWatches(t *testing.T) {
	m := loaded(t, newStub())
	m.Update(key("enter"))
	ch := m.badgeWatches["4328"].ch

	m.Close()

	if len(m.badgeWatches) != 0 {
		t.Fatalf("expected no badge watches after close, got %d", len(m.badgeWatches))
	}
	if !testutil.WaitFor(time.Second, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}) {
		t.Fatal("expected badge watch channel closed")
	}
}

func TestLoadedSnapshotOlderThanWatchIgnored(t *testing.T) {
	m := loaded(t, newStub())

	older := m.res
	older.IsFetching = true
	m.Update(leaguesLoadedMsg{res: older})

	if m.Page().IsFetching {
		t.Fatal("expected settled state kept over an older loaded snapshot")
	}
}

func TestRevalidateRefreshesStaleList(t *testing.T) {
	clock := testutil.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	stub := newStub()
	m := newModel(t, stub, querycache.WithClock(clock.Now))
	m.Update(m.loadLeagues()())
	pumpLeagues(m)

	stub.SetLeagues(testutil.SampleLeagues()[:2], nil)
	clock.Advance(2 * time.Minute)

	_, cmd := m.Update(revalidateMsg{})
	if cmd == nil {
		t.Fatal("expected revalidate command")
	}
	m.revalidateCmd()()
	awaitLeagues(t, m, func() bool { return m.Page().Total == 2 && !m.Page().IsFetching })
}

func TestRevalidateScheduling(t *testing.T) {
	m := newModel(t, newStub())
	if m.scheduleRevalidate() != nil {
		t.Fatal("expected no tick without an interval")
	}
	WithRevalidateInterval(time.Minute)(m)
	if m.scheduleRevalidate() == nil {
		t.Fatal("expected tick with an interval")
	}
}

func TestWindowSizeLimitsRows(t *testing.T) {
	m := loaded(t, newStub())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: chrome + 2})
	if got := m.visibleRows(); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	m.Update(key("j"))
	m.Update(key("j"))
	if m.offset != 1 {
		t.Fatalf("expected list scrolled by one, got offset %d", m.offset)
	}
	if view := m.View(); strings.Contains(view, "English Premier League") {
		t.Fatalf("expected first league scrolled out, got:\n%s", view)
	}
}

func TestProgramRendersAndQuits(t *testing.T) {
	m := newModel(t, newStub())

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Showing 4 of 4 leagues"))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(key("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
