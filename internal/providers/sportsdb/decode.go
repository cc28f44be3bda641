package sportsdb

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/providers"
)

// decodeLeagues validates an all_leagues payload. The "leagues" key must be present;
// null is read as an empty list. Every record needs idLeague, strLeague and strSport.
func decodeLeagues(body []byte) ([]leagues.League, error) {
	raw, present, err := topLevelArray(body, opLeagues, "leagues")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, schemaErr(opLeagues, "leagues", "missing key", nil)
	}
	if raw == nil {
		return []leagues.League{}, nil
	}

	var records []leagueResponse
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, schemaErr(opLeagues, "leagues", "expected array of league objects", err)
	}

	out := make([]leagues.League, 0, len(records))
	for i, r := range records {
		switch {
		case r.IDLeague == nil || *r.IDLeague == "":
			return nil, schemaErr(opLeagues, fmt.Sprintf("leagues[%d].idLeague", i), "missing or empty", nil)
		case r.StrLeague == nil || *r.StrLeague == "":
			return nil, schemaErr(opLeagues, fmt.Sprintf("leagues[%d].strLeague", i), "missing or empty", nil)
		case r.StrSport == nil:
			return nil, schemaErr(opLeagues, fmt.Sprintf("leagues[%d].strSport", i), "missing", nil)
		}
		out = append(out, mapLeague(r))
	}
	return out, nil
}

// decodeSeasons validates a search_all_seasons payload. A missing or null "seasons"
// key means the league has no season records, which is a valid empty result.
func decodeSeasons(body []byte) ([]leagues.SeasonBadge, error) {
	raw, present, err := topLevelArray(body, opSeasons, "seasons")
	if err != nil {
		return nil, err
	}
	if !present || raw == nil {
		return []leagues.SeasonBadge{}, nil
	}

	var records []seasonResponse
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, schemaErr(opSeasons, "seasons", "expected array of season objects", err)
	}

	out := make([]leagues.SeasonBadge, 0, len(records))
	for i, r := range records {
		if r.StrSeason == nil || *r.StrSeason == "" {
			return nil, schemaErr(opSeasons, fmt.Sprintf("seasons[%d].strSeason", i), "missing or empty", nil)
		}
		out = append(out, mapSeason(r))
	}
	return out, nil
}

// topLevelArray extracts key from a JSON object body. present is false when the key
// is absent; raw is nil when it is null.
func topLevelArray(body []byte, op, key string) (json.RawMessage, bool, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, schemaErr(op, "", "body is not a JSON object", err)
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, true, nil
	}
	return raw, true, nil
}

func schemaErr(op, field, reason string, err error) error {
	return &providers.SchemaError{Provider: providerName, Op: op, Field: field, Reason: reason, Err: err}
}
