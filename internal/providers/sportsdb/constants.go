package sportsdb

import "time"

const (
	providerName       = "sportsdb"
	defaultBaseURL     = "https://www.thesportsdb.com/api/v1/json/3"
	defaultHTTPTimeout = 10 * time.Second
	// all_leagues.php runs to a few hundred KB; anything far beyond that is not a valid payload.
	maxBodyBytes  = 8 << 20
	maxErrorBytes = 512

	leaguesPath = "/all_leagues.php"
	seasonsPath = "/search_all_seasons.php"

	opLeagues = "leagues"
	opSeasons = "season_badges"
)
