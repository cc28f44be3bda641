package fixture

import (
	"context"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

// Provider returns a static league catalog useful for offline runs and demos.
type Provider struct {
	leagues []leagues.League
	seasons map[string][]leagues.SeasonBadge
}

// New creates a fixture provider seeded with a small deterministic catalog.
func New() *Provider {
	return &Provider{
		leagues: []leagues.League{
			{ID: "4328", DisplayName: "English Premier League", AlternateName: "Premier League, EPL", Category: "Soccer"},
			{ID: "4335", DisplayName: "Spanish La Liga", AlternateName: "LaLiga", Category: "Soccer"},
			{ID: "4387", DisplayName: "NBA", AlternateName: "National Basketball Association", Category: "Basketball"},
			{ID: "4391", DisplayName: "NFL", AlternateName: "National Football League", Category: "American Football"},
			{ID: "4380", DisplayName: "NHL", AlternateName: "National Hockey League", Category: "Ice Hockey"},
			{ID: "4424", DisplayName: "MLB", AlternateName: "Major League Baseball", Category: "Baseball"},
			{ID: "4370", DisplayName: "Formula 1", Category: "Motorsport"},
		},
		seasons: map[string][]leagues.SeasonBadge{
			"4328": {
				{Season: "2022-2023", ImageURL: "https://www.thesportsdb.com/images/media/league/badge/epl-2022.png"},
				{Season: "2023-2024", ImageURL: "https://www.thesportsdb.com/images/media/league/badge/epl-2023.png"},
			},
			"4387": {
				{Season: "2023-2024", ImageURL: "https://www.thesportsdb.com/images/media/league/badge/nba-2023.png"},
			},
			"4391": {
				{Season: "2023", ImageURL: ""},
			},
		},
	}
}

// FetchLeagues returns a copy of the fixture league list.
func (p *Provider) FetchLeagues(ctx context.Context) ([]leagues.League, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]leagues.League, len(p.leagues))
	copy(out, p.leagues)
	return out, nil
}

// FetchSeasonBadges returns the fixture seasons for a league; unknown ids yield an empty list.
func (p *Provider) FetchSeasonBadges(ctx context.Context, leagueID string) ([]leagues.SeasonBadge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := p.seasons[leagueID]
	out := make([]leagues.SeasonBadge, len(src))
	copy(out, src)
	return out, nil
}
