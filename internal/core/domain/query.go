package domain

// Sort names an API-level sort field and its direction.
type Sort struct {
	Field string
	Desc  bool
}

// Page is a skip/limit window. A zero Limit means no limit.
type Page struct {
	Skip  int64
	Limit int64
}

// PageFor converts a 1-based page number and page size into a window.
func PageFor(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Skip: int64(page-1) * int64(limit), Limit: int64(limit)}
}

// TotalPages returns the number of pages needed for total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
