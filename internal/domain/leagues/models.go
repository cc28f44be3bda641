package leagues

// League is a named sports competition. Values are immutable once fetched.
type League struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	AlternateName string `json:"alternateName,omitempty"`
	// Category is the sport name as reported upstream; free-form, not enumerated.
	Category string `json:"category"`
}

// SeasonBadge is one season's emblem for a league. ImageURL may be empty.
type SeasonBadge struct {
	Season   string `json:"season"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Badge is the resolved "current" badge for a league.
type Badge struct {
	LeagueID string `json:"leagueId"`
	Season   string `json:"season"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// HasImage reports whether the badge carries an image URL.
func (b Badge) HasImage() bool {
	return b.ImageURL != ""
}
