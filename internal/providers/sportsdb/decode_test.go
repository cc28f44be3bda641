package sportsdb

import (
	"strings"
	"testing"

	"github.com/preston-bernstein/league-catalog/internal/providers"
)

func TestDecodeLeaguesRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"not an object", `[]`, ""},
		{"missing key", `{"countries": []}`, "leagues"},
		{"wrong type", `{"leagues": "nope"}`, "leagues"},
		{"numeric id", `{"leagues": [{"idLeague": 4328, "strLeague": "EPL", "strSport": "Soccer"}]}`, "leagues"},
		{"missing id", `{"leagues": [{"strLeague": "EPL", "strSport": "Soccer"}]}`, "leagues[0].idLeague"},
		{"empty name", `{"leagues": [{"idLeague": "1", "strLeague": "", "strSport": "Soccer"}]}`, "leagues[0].strLeague"},
		{"missing sport", `{"leagues": [{"idLeague": "1", "strLeague": "EPL"}]}`, "leagues[0].strSport"},
	}

	for _, tc := range cases {
		_, err := decodeLeagues([]byte(tc.body))
		se, ok := providers.AsSchemaError(err)
		if !ok {
			t.Fatalf("%s: expected schema error, got %v", tc.name, err)
		}
		if se.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q", tc.name, tc.field, se.Field)
		}
	}
}

func TestDecodeLeaguesAcceptsNullAndEmpty(t *testing.T) {
	for _, body := range []string{`{"leagues": null}`, `{"leagues": []}`} {
		got, err := decodeLeagues([]byte(body))
		if err != nil {
			t.Fatalf("expected %s to decode, got %v", body, err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty list for %s, got %v", body, got)
		}
	}
}

func TestDecodeSeasonsRejectsMissingSeasonLabel(t *testing.T) {
	_, err := decodeSeasons([]byte(`{"seasons": [{"strSeason": "2020"}, {"strBadge": "x.png"}]}`))
	se, ok := providers.AsSchemaError(err)
	if !ok || se.Field != "seasons[1].strSeason" {
		t.Fatalf("expected schema error on seasons[1], got %v", err)
	}
	if !strings.Contains(se.Error(), "seasons[1].strSeason") {
		t.Fatalf("expected field in message, got %q", se.Error())
	}
}

func TestDecodeSeasonsAcceptsMissingKey(t *testing.T) {
	got, err := decodeSeasons([]byte(`{}`))
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty seasons for missing key, got %v err %v", got, err)
	}
}
