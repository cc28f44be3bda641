package providers

import (
	"context"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

// LeagueProvider fetches the full league list from an upstream source.
type LeagueProvider interface {
	FetchLeagues(ctx context.Context) ([]leagues.League, error)
}

// BadgeProvider fetches every season badge record for one league, in upstream order.
type BadgeProvider interface {
	FetchSeasonBadges(ctx context.Context, leagueID string) ([]leagues.SeasonBadge, error)
}

// DataProvider combines all provider capabilities.
type DataProvider interface {
	LeagueProvider
	BadgeProvider
}
