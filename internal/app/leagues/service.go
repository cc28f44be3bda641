// Package leagues ties the league list and per-league badge caches to a data provider
// and tracks which leagues the user asked to see badges for.
package leagues

import (
	"context"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/league-catalog/internal/catalog"
	domainleagues "github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/logging"
	"github.com/preston-bernstein/league-catalog/internal/providers"
	"github.com/preston-bernstein/league-catalog/internal/querycache"
)

// Cache namespaces.
const (
	NamespaceLeagues = "leagues"
	NamespaceBadges  = "badges"
)

// LeaguesKey is the single key of the league list namespace.
const LeaguesKey = "leagues"

// Config carries the per-namespace cache settings.
type Config struct {
	Leagues querycache.Options
	Badges  querycache.Options
}

// LeaguesResult is the cache state of the league list.
type LeaguesResult = querycache.Result[[]domainleagues.League]

// SeasonsResult is the cache state of one league's season records.
type SeasonsResult = querycache.Result[[]domainleagues.SeasonBadge]

// BadgeState is the badge lookup for one league.
type BadgeState struct {
	SeasonsResult
	Badge domainleagues.Badge
	// Found is false when the league has no season records or nothing was fetched.
	Found bool
}

// Page is a filtered catalog view together with the state of the list it came from.
type Page struct {
	catalog.Page
	Status     querycache.Status
	Err        error
	IsStale    bool
	IsFetching bool
}

// Service coordinates league and badge lookups.
type Service struct {
	provider providers.DataProvider
	logger   *slog.Logger

	leagues *querycache.Cache[[]domainleagues.League]
	badges  *querycache.Cache[[]domainleagues.SeasonBadge]
	view    catalog.View

	mu       sync.RWMutex
	revealed map[string]bool
}

// NewService constructs a Service. Schema errors are never retried.
func NewService(provider providers.DataProvider, cfg Config, logger *slog.Logger, opts ...querycache.Option) *Service {
	opts = append(opts,
		querycache.WithLogger(logger),
		querycache.WithPermanentError(isPermanent),
	)
	return &Service{
		provider: provider,
		logger:   logger,
		leagues:  querycache.New[[]domainleagues.League](NamespaceLeagues, cfg.Leagues, opts...),
		badges:   querycache.New[[]domainleagues.SeasonBadge](NamespaceBadges, cfg.Badges, opts...),
		revealed: make(map[string]bool),
	}
}

func isPermanent(err error) bool {
	_, ok := providers.AsSchemaError(err)
	return ok
}

// Leagues returns the league list, fetching it on first use.
func (s *Service) Leagues(ctx context.Context) LeaguesResult {
	return s.leagues.Query(ctx, LeaguesKey, s.provider.FetchLeagues)
}

// Browse returns the league list filtered by state, with its category choices and counts.
func (s *Service) Browse(ctx context.Context, state catalog.FilterState) Page {
	res := s.Leagues(ctx)
	return s.page(res, state)
}

// PageFor derives a page from a league list state already in hand.
func (s *Service) PageFor(res LeaguesResult, state catalog.FilterState) Page {
	return s.page(res, state)
}

func (s *Service) page(res LeaguesResult, state catalog.FilterState) Page {
	p := Page{
		Status:     res.Status,
		Err:        res.Err,
		IsStale:    res.IsStale,
		IsFetching: res.IsFetching,
	}
	if res.HasData() {
		p.Page = s.view.Page(res.Data, state)
	} else {
		p.Page = catalog.Page{State: state}
	}
	return p
}

// RefreshLeagues marks the league list stale, or drops it after a failed fetch, so
// the next lookup goes upstream.
func (s *Service) RefreshLeagues() {
	logging.Info(s.logger, "league list refresh requested", slog.String(logging.FieldNamespace, NamespaceLeagues))
	s.leagues.Invalidate(LeaguesKey)
}

// WatchLeagues streams league list state changes until cancel is called.
func (s *Service) WatchLeagues() (<-chan LeaguesResult, func()) {
	return s.leagues.Subscribe(LeaguesKey)
}

// Badge returns the badge state for a league. Season records are fetched only for
// revealed leagues; a hidden league gets whatever is cached, without a fetch.
func (s *Service) Badge(ctx context.Context, leagueID string) BadgeState {
	fetch := func(ctx context.Context) ([]domainleagues.SeasonBadge, error) {
		return s.provider.FetchSeasonBadges(ctx, leagueID)
	}
	res := s.badges.Query(ctx, leagueID, fetch, querycache.Enabled(s.Revealed(leagueID)))
	return badgeState(leagueID, res)
}

// WatchBadge streams badge state changes for a league until cancel is called.
func (s *Service) WatchBadge(leagueID string) (<-chan BadgeState, func()) {
	src, cancel := s.badges.Subscribe(leagueID)
	out := make(chan BadgeState, 1)
	go func() {
		defer close(out)
		for res := range src {
			select {
			case <-out:
			default:
			}
			out <- badgeState(leagueID, res)
		}
	}()
	return out, cancel
}

func badgeState(leagueID string, res SeasonsResult) BadgeState {
	state := BadgeState{SeasonsResult: res}
	if res.HasData() {
		state.Badge, state.Found = catalog.ResolveBadge(leagueID, res.Data)
	}
	return state
}

// Reveal enables badge fetching for a league. A failed lookup is dropped so
// revealing again retries it.
func (s *Service) Reveal(leagueID string) {
	s.mu.Lock()
	s.revealed[leagueID] = true
	s.mu.Unlock()
	s.dropFailedBadge(leagueID)
}

// Hide disables badge fetching for a league. Cached seasons are kept until evicted.
func (s *Service) Hide(leagueID string) {
	s.mu.Lock()
	delete(s.revealed, leagueID)
	s.mu.Unlock()
}

// ToggleReveal flips the reveal flag and returns the new value.
func (s *Service) ToggleReveal(leagueID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed[leagueID] {
		delete(s.revealed, leagueID)
		return false
	}
	s.revealed[leagueID] = true
	s.dropFailedBadge(leagueID)
	return true
}

func (s *Service) dropFailedBadge(leagueID string) {
	if res, ok := s.badges.Peek(leagueID); ok && res.Status == querycache.StatusError {
		s.badges.Invalidate(leagueID)
	}
}

// Revealed reports whether badge fetching is enabled for a league.
func (s *Service) Revealed(leagueID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revealed[leagueID]
}

// Close stops both caches and their janitors.
func (s *Service) Close() {
	s.leagues.Close()
	s.badges.Close()
}
