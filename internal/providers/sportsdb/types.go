package sportsdb

// Upstream field names are kept verbatim. Pointers distinguish JSON null from empty strings.

type leagueResponse struct {
	IDLeague           *string `json:"idLeague"`
	StrLeague          *string `json:"strLeague"`
	StrSport           *string `json:"strSport"`
	StrLeagueAlternate *string `json:"strLeagueAlternate"`
}

type seasonResponse struct {
	StrSeason *string `json:"strSeason"`
	StrBadge  *string `json:"strBadge"`
}
