package store

// DefaultPageSize is the page size used when a descriptor does not specify
// a limit.
const DefaultPageSize = 10

// Pagination describes the page window of a list result. The same
// (total, page, limit) triple produces the same Pagination on every
// backend; this is the primary cross-backend invariant.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Result is the uniform envelope returned by every list query.
type Result struct {
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate computes the pagination envelope for a total count and a
// page/limit pair. Page and limit are clamped to a minimum of 1 before
// computation.
func Paginate(total, page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// PageBounds returns the [start, end) slice bounds for a page of an
// in-memory item list. Both bounds are clamped to the list length.
func PageBounds(total, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Offset returns the row offset for the clamped page/limit pair, for
// backends that paginate with LIMIT/OFFSET or skip/limit primitives.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return (page - 1) * limit
}
