package sportsdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/league-catalog/internal/providers"
)

func TestFetchLeaguesHitsAPIAndMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/all_leagues.php" {
			t.Errorf("expected /api/all_leagues.php path, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"leagues": [
				{"idLeague": "4328", "strLeague": "English Premier League", "strSport": "Soccer", "strLeagueAlternate": "Premier League, EPL"},
				{"idLeague": "4387", "strLeague": "NBA", "strSport": "Basketball", "strLeagueAlternate": null}
			]
		}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL + "/api/"})
	got, err := client.FetchLeagues(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 leagues, got %d", len(got))
	}
	if got[0].ID != "4328" || got[0].DisplayName != "English Premier League" || got[0].Category != "Soccer" {
		t.Fatalf("unexpected first league %+v", got[0])
	}
	if got[0].AlternateName != "Premier League, EPL" {
		t.Fatalf("unexpected alternate name %q", got[0].AlternateName)
	}
	if got[1].AlternateName != "" {
		t.Fatalf("expected null alternate name to map to empty, got %q", got[1].AlternateName)
	}
}

func TestFetchSeasonBadgesSendsQueryAndKeepsOrder(t *testing.T) {
	var rawQuery string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/search_all_seasons.php" {
			t.Fatalf("expected seasons path, got %s", req.URL.Path)
		}
		rawQuery = req.URL.RawQuery
		return jsonResponse(http.StatusOK, `{"seasons":[
			{"strSeason":"2020","strBadge":"a.png"},
			{"strSeason":"2021","strBadge":"b.png"},
			{"strSeason":"2019","strBadge":null}
		]}`), nil
	})

	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})
	got, err := client.FetchSeasonBadges(context.Background(), "4328")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rawQuery != "badge=1&id=4328" {
		t.Fatalf("expected badge=1&id=4328, got %s", rawQuery)
	}
	if len(got) != 3 || got[0].Season != "2020" || got[1].ImageURL != "b.png" || got[2].Season != "2019" {
		t.Fatalf("expected upstream order preserved, got %+v", got)
	}
	if got[2].ImageURL != "" {
		t.Fatalf("expected null badge to map to empty url, got %q", got[2].ImageURL)
	}
}

func TestFetchSeasonBadgesTreatsNullAsEmpty(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"seasons":null}`), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	got, err := client.FetchSeasonBadges(context.Background(), "1")
	if err != nil {
		t.Fatalf("expected empty list to be a valid success, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestFetchLeaguesHandlesNon200(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp := jsonResponse(http.StatusTooManyRequests, "slow down")
		resp.Header.Set("Retry-After", "30")
		return resp, nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	_, err := client.FetchLeagues(context.Background())
	te, ok := providers.AsTransportError(err)
	if !ok {
		t.Fatalf("expected transport error, got %T %v", err, err)
	}
	if te.StatusCode != http.StatusTooManyRequests || te.RetryAfter != 30*time.Second {
		t.Fatalf("unexpected transport error %+v", te)
	}
	if !strings.Contains(te.Error(), "slow down") {
		t.Fatalf("expected body snippet in message, got %q", te.Error())
	}
}

func TestFetchLeaguesHandlesNetworkFailure(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	_, err := client.FetchLeagues(context.Background())
	te, ok := providers.AsTransportError(err)
	if !ok {
		t.Fatalf("expected transport error, got %T %v", err, err)
	}
	if te.StatusCode != 0 {
		t.Fatalf("expected no status on network failure, got %d", te.StatusCode)
	}
	if _, isTimeout := providers.AsTimeoutError(err); isTimeout {
		t.Fatalf("network failure must not classify as timeout")
	}
}

func TestFetchLeaguesTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	start := time.Now()
	_, err := client.FetchLeagues(context.Background())
	if _, ok := providers.AsTimeoutError(err); !ok {
		t.Fatalf("expected timeout error, got %T %v", err, err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected call to give up near the bound, took %s", elapsed)
	}
}

func TestFetchLeaguesHandlesMalformedBody(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "{bad json"), nil
	})
	client := NewClient(Config{BaseURL: "http://example.com", HTTPClient: &http.Client{Transport: rt}})

	if _, err := client.FetchLeagues(context.Background()); err == nil {
		t.Fatal("expected decode error")
	} else if _, ok := providers.AsSchemaError(err); !ok {
		t.Fatalf("expected schema error, got %T %v", err, err)
	}
}

func TestNewClientSetsDefaultHTTPClient(t *testing.T) {
	c := NewClient(Config{})
	httpClient, ok := c.httpClient.(*http.Client)
	if !ok {
		t.Fatalf("expected default http client")
	}
	if httpClient.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected timeout %s on default http client, got %s", defaultHTTPTimeout, httpClient.Timeout)
	}
	if c.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", c.baseURL)
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}
