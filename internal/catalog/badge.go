package catalog

import "github.com/preston-bernstein/league-catalog/internal/domain/leagues"

// ResolveBadge picks the current badge for a league: the last season record in
// upstream order. Seasons are not re-sorted. ok is false for an empty list.
func ResolveBadge(leagueID string, seasons []leagues.SeasonBadge) (leagues.Badge, bool) {
	if len(seasons) == 0 {
		return leagues.Badge{}, false
	}
	last := seasons[len(seasons)-1]
	return leagues.Badge{
		LeagueID: leagueID,
		Season:   last.Season,
		ImageURL: last.ImageURL,
	}, true
}
