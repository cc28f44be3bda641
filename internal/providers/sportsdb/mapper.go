package sportsdb

import (
	"strings"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

func mapLeague(r leagueResponse) leagues.League {
	return leagues.League{
		ID:            deref(r.IDLeague),
		DisplayName:   deref(r.StrLeague),
		AlternateName: strings.TrimSpace(deref(r.StrLeagueAlternate)),
		Category:      deref(r.StrSport),
	}
}

func mapSeason(r seasonResponse) leagues.SeasonBadge {
	return leagues.SeasonBadge{
		Season:   deref(r.StrSeason),
		ImageURL: strings.TrimSpace(deref(r.StrBadge)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
