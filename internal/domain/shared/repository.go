package shared

// Filter carries paging, ordering and free-text search for list queries.
// Filters holds repository-specific predicates such as "kind" or "in_stock".
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// Offset returns the number of rows before Page; pages start at 1
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
