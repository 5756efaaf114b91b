package model

const (
	SortNewest = "newest"
	SortOldest = "oldest"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// FacetFilter is one [field, value] pair applied next to the query string.
type FacetFilter struct {
	Field string
	Value string
}

// QueryState is the search state shared between the run selector, the
// search box and the results pane.
type QueryState struct {
	QueryString string
	Filters     []FacetFilter
	SortBy      string
	SortOrder   string
	Page        int
	Size        int
}

// DefaultQueryState mirrors the reports page defaults (20 per page, newest first).
func DefaultQueryState() QueryState {
	return QueryState{
		SortBy:    SortNewest,
		SortOrder: SortOrderDesc,
		Page:      1,
		Size:      20,
	}
}

// TotalPages returns how many pages total hits span at the state's page size.
func (s QueryState) TotalPages(total int) int {
	if s.Size <= 0 {
		return 1
	}
	pages := (total + s.Size - 1) / s.Size
	if pages < 1 {
		return 1
	}
	return pages
}
