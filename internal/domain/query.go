package domain

// DefaultPageSize is the number of products on one catalog page.
const DefaultPageSize = 12

// TopRatedCount is the size of the top-rated widget.
const TopRatedCount = 5

// RelatedCount is the number of "you may also like" products on a detail page.
const RelatedCount = 4

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
)

// ParseSortKey maps raw input to a SortKey. Unknown or empty input selects
// the default, popularity.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(raw); k {
	case SortRating, SortPriceAsc, SortPriceDesc:
		return k
	default:
		return SortPopularity
	}
}

// FilterKind names one of the catalog filters.
type FilterKind string

const (
	FilterCategory FilterKind = "category"
	FilterColor    FilterKind = "color"
	FilterSize     FilterKind = "size"
	FilterSale     FilterKind = "sale"
)

// QueryState is the transient search/filter/sort/page selection of one
// catalog view. Empty strings mean "no filter".
type QueryState struct {
	Search   string  `json:"search"`
	Category string  `json:"category,omitempty"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
	SaleOnly bool    `json:"sale_only"`
	Sort     SortKey `json:"sort"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// NewQueryState returns the initial state: no search, no filters, default
// sort, page 1. A non-positive pageSize selects DefaultPageSize.
func NewQueryState(pageSize int) QueryState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QueryState{
		Sort:     SortPopularity,
		Page:     1,
		PageSize: pageSize,
	}
}

// HasFilters reports whether any of category, color, size or sale is set.
func (q QueryState) HasFilters() bool {
	return q.Category != "" || q.Color != "" || q.Size != "" || q.SaleOnly
}
