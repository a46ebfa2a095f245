// Package catalog filters, sorts and pages a static product collection.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/pagination"
)

// Page is one visible page of the filtered, sorted collection.
type Page = pagination.Result[domain.Product]

// Compute runs the catalog pipeline over products: search, category, color,
// size and sale filters, then a stable sort, then pagination. products is not
// modified.
func Compute(products []domain.Product, q domain.QueryState) Page {
	matched := Filter(products, q)
	Sort(matched, q.Sort)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return pagination.Slice(matched, pagination.NewParams(q.Page, pageSize))
}

// Filter returns the products that satisfy every active predicate of q, in
// collection order.
func Filter(products []domain.Product, q domain.QueryState) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, q, search) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Matches reports whether p passes all filters of q. search must already be
// lower-cased and trimmed.
func Matches(p domain.Product, q domain.QueryState, search string) bool {
	if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Color != "" && p.Color != q.Color {
		return false
	}
	if q.Size != "" && !p.HasSize(q.Size) {
		return false
	}
	if q.SaleOnly && !p.SalesStatus {
		return false
	}
	return true
}

// Sort orders products in place by key. The sort is stable, so products with
// equal keys keep their collection order.
func Sort(products []domain.Product, key domain.SortKey) {
	slices.SortStableFunc(products, comparator(key))
}

func comparator(key domain.SortKey) func(a, b domain.Product) int {
	switch key {
	case domain.SortRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case domain.SortPriceAsc:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case domain.SortPriceDesc:
		return func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	default:
		return func(a, b domain.Product) int { return cmp.Compare(b.Popularity, a.Popularity) }
	}
}

// TopRated returns the n highest-rated products of the full collection.
func TopRated(products []domain.Product, n int) []domain.Product {
	sorted := slices.Clone(products)
	Sort(sorted, domain.SortRating)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterOptions lists the distinct values offered by the filter drop-downs,
// each in first-seen collection order.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Colors     []string `json:"colors"`
	Sizes      []string `json:"sizes"`
}

// Options collects the distinct categories, colors and size tags of products.
func Options(products []domain.Product) FilterOptions {
	opts := FilterOptions{
		Categories: []string{},
		Colors:     []string{},
		Sizes:      []string{},
	}
	seen := map[domain.FilterKind]map[string]struct{}{
		domain.FilterCategory: {},
		domain.FilterColor:    {},
		domain.FilterSize:     {},
	}
	add := func(kind domain.FilterKind, dst *[]string, v string) {
		if v == "" {
			return
		}
		if _, ok := seen[kind][v]; ok {
			return
		}
		seen[kind][v] = struct{}{}
		*dst = append(*dst, v)
	}

	for _, p := range products {
		add(domain.FilterCategory, &opts.Categories, p.Category)
		add(domain.FilterColor, &opts.Colors, p.Color)
		for _, tag := range p.SizeTags() {
			add(domain.FilterSize, &opts.Sizes, tag)
		}
	}
	return opts
}
