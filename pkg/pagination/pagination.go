package pagination

import (
	"math"
	"net/http"
	"strconv"
)

// Params holds a 1-based page number and a page size.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// NewParams returns params with page clamped to >= 1 and perPage to >= 1.
func NewParams(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return Params{Page: page, PerPage: perPage}
}

// FromRequest reads the "page" query parameter. The page size is fixed by
// the caller; invalid or missing pages fall back to 1.
func FromRequest(r *http.Request, perPage int) Params {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	return NewParams(page, perPage)
}

// Offset is the index of the first element on the page. It saturates at
// math.MaxInt instead of overflowing for huge page numbers.
func (p Params) Offset() int {
	page, perPage := max(p.Page, 1), max(p.PerPage, 1)
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// Bounds returns the half-open range [start, end) of the page within a
// collection of total elements. Pages past the end yield start == end == total.
func (p Params) Bounds(total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	perPage := max(p.PerPage, 1)
	// Compare page indexes before multiplying so huge pages cannot overflow.
	if max(p.Page, 1)-1 > (total-1)/perPage {
		return total, total
	}
	start = p.Offset()
	end = start + min(perPage, total-start)
	return start, end
}

// TotalPages returns ceil(total / perPage).
func TotalPages(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Result is one page of a larger ordered collection.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	// From and To describe the visible range for "showing From-To of
	// TotalCount". From is 1-based and 0 when nothing is shown.
	From int `json:"from"`
	To   int `json:"to"`
}

// Slice cuts the page described by params out of items. The returned Data
// never aliases items.
func Slice[T any](items []T, params Params) Result[T] {
	total := len(items)
	start, end := params.Bounds(total)

	data := make([]T, end-start)
	copy(data, items[start:end])

	totalPages := TotalPages(total, params.PerPage)
	from, to := 0, 0
	if end > start {
		from, to = start+1, end
	}

	return Result[T]{
		Data:       data,
		TotalCount: total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
		From:       from,
		To:         to,
	}
}
