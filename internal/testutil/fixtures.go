package testutil

import "github.com/preston-bernstein/league-catalog/internal/domain/leagues"

// SampleLeagues returns a small mixed-sport league list.
func SampleLeagues() []leagues.League {
	return []leagues.League{
		{ID: "4328", DisplayName: "English Premier League", AlternateName: "Premier League", Category: "Soccer"},
		{ID: "4387", DisplayName: "NBA", AlternateName: "National Basketball Association", Category: "Basketball"},
		{ID: "4335", DisplayName: "La Liga", Category: "Soccer"},
		{ID: "4391", DisplayName: "NFL", Category: "American Football"},
	}
}

// SampleSeasons returns season records whose last entry carries imageURL.
func SampleSeasons(imageURL string) []leagues.SeasonBadge {
	return []leagues.SeasonBadge{
		{Season: "2021-2022", ImageURL: "https://img.example/old.png"},
		{Season: "2022-2023", ImageURL: imageURL},
	}
}
