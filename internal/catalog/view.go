package catalog

import (
	"sync"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

// Page is one rendering of the catalog: the filtered leagues, the category choices
// and the counts shown next to them.
type Page struct {
	Leagues    []leagues.League
	Categories []string
	// Total is the size of the unfiltered list.
	Total int
	// Count is the number of leagues after filtering.
	Count int
	State FilterState
}

// View memoizes Page derivations. Results are reused while the source slice is the
// same backing array and the filter state is unchanged; cached values are treated
// as immutable, which is how the query cache hands them out.
type View struct {
	mu sync.Mutex

	catSrc     []leagues.League
	categories []string
	catValid   bool

	pageSrc   []leagues.League
	pageState FilterState
	page      Page
	pageValid bool
}

// Page returns the derived page for list and state.
func (v *View) Page(list []leagues.League, state FilterState) Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pageValid && sameSlice(v.pageSrc, list) && v.pageState == state {
		return v.page
	}

	if !v.catValid || !sameSlice(v.catSrc, list) {
		v.categories = DistinctCategories(list)
		v.catSrc = list
		v.catValid = true
	}

	filtered := Filter(list, state)
	v.page = Page{
		Leagues:    filtered,
		Categories: v.categories,
		Total:      len(list),
		Count:      len(filtered),
		State:      state,
	}
	v.pageSrc = list
	v.pageState = state
	v.pageValid = true
	return v.page
}

// reset drops memoized results.
func (v *View) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.catSrc, v.categories, v.catValid = nil, nil, false
	v.pageSrc, v.page, v.pageState, v.pageValid = nil, Page{}, FilterState{}, false
}

func sameSlice(a, b []leagues.League) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
