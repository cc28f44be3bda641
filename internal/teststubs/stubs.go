package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

// StubProvider is a test double for providers.DataProvider.
type StubProvider struct {
	Leagues    []leagues.League
	Seasons    map[string][]leagues.SeasonBadge
	Err        error
	BadgeErr   error
	Calls      atomic.Int32
	BadgeCalls atomic.Int32
	// Notify is closed on the first call of either kind.
	Notify chan struct{}
	// Release, when non-nil, blocks every call until it is closed or ctx ends.
	Release chan struct{}

	mu sync.Mutex
}

// FetchLeagues returns configured leagues and error while tracking calls.
func (s *StubProvider) FetchLeagues(ctx context.Context) ([]leagues.League, error) {
	s.Calls.Add(1)
	s.signal()
	if err := s.block(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Leagues, s.Err
}

// FetchSeasonBadges returns the configured seasons for leagueID while tracking calls.
func (s *StubProvider) FetchSeasonBadges(ctx context.Context, leagueID string) ([]leagues.SeasonBadge, error) {
	s.BadgeCalls.Add(1)
	s.signal()
	if err := s.block(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BadgeErr != nil {
		return nil, s.BadgeErr
	}
	return s.Seasons[leagueID], nil
}

// SetLeagues swaps the league payload between calls.
func (s *StubProvider) SetLeagues(list []leagues.League, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Leagues = list
	s.Err = err
}

// SetSeasons swaps the season payload of one league between calls.
func (s *StubProvider) SetSeasons(leagueID string, seasons []leagues.SeasonBadge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Seasons == nil {
		s.Seasons = make(map[string][]leagues.SeasonBadge)
	}
	s.Seasons[leagueID] = seasons
}

// SetBadgeErr swaps the badge error between calls.
func (s *StubProvider) SetBadgeErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BadgeErr = err
}

func (s *StubProvider) signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
}

func (s *StubProvider) block(ctx context.Context) error {
	if s.Release == nil {
		return nil
	}
	select {
	case <-s.Release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
