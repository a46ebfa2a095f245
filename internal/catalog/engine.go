package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Engine holds one loaded collection and the query state of one catalog
// view. Every setter except SetPage returns the view to page 1.
type Engine struct {
	mu       sync.RWMutex
	products []domain.Product
	topRated []domain.Product
	loaded   bool
	state    domain.QueryState
}

// NewEngine creates an engine with an empty collection and the initial query
// state. A non-positive pageSize selects domain.DefaultPageSize.
func NewEngine(pageSize int) *Engine {
	return &Engine{state: domain.NewQueryState(pageSize)}
}

// Load replaces the collection in one step and recomputes the top-rated list.
// The engine keeps its own copy; later changes to products are not seen.
func (e *Engine) Load(products []domain.Product) {
	collection := slices.Clone(products)
	top := TopRated(collection, domain.TopRatedCount)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.products = collection
	e.topRated = top
	e.loaded = true
}

// Loaded reports whether Load has been called.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Products returns a copy of the loaded collection.
func (e *Engine) Products() []domain.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.products)
}

// State returns the current query state.
func (e *Engine) State() domain.QueryState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetSearch sets the free-text search term. Surrounding whitespace is ignored.
func (e *Engine) SetSearch(text string) {
	e.update(func(q *domain.QueryState) {
		q.Search = strings.TrimSpace(text)
	})
}

// SetFilter sets the filter of the given kind. An empty value clears it. The
// sale filter accepts boolean strings.
func (e *Engine) SetFilter(kind domain.FilterKind, value string) error {
	var apply func(q *domain.QueryState)

	switch kind {
	case domain.FilterCategory:
		apply = func(q *domain.QueryState) { q.Category = value }
	case domain.FilterColor:
		apply = func(q *domain.QueryState) { q.Color = value }
	case domain.FilterSize:
		value = strings.TrimSpace(value)
		apply = func(q *domain.QueryState) { q.Size = value }
	case domain.FilterSale:
		saleOnly := false
		if value != "" {
			v, err := strconv.ParseBool(value)
			if err != nil {
				return apperrors.InvalidInput(fmt.Sprintf("sale filter must be a boolean, got %q", value))
			}
			saleOnly = v
		}
		apply = func(q *domain.QueryState) { q.SaleOnly = saleOnly }
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unknown filter %q", kind))
	}

	e.update(apply)
	return nil
}

// ClearFilters removes the category, color, size and sale filters. The search
// term and sort key are kept.
func (e *Engine) ClearFilters() {
	e.update(func(q *domain.QueryState) {
		q.Category = ""
		q.Color = ""
		q.Size = ""
		q.SaleOnly = false
	})
}

// SetSort selects the ordering.
func (e *Engine) SetSort(key domain.SortKey) {
	e.update(func(q *domain.QueryState) {
		q.Sort = domain.ParseSortKey(string(key))
	})
}

// SetPage moves to page n, clamped to at least 1. Pages past the end are
// allowed and render empty.
func (e *Engine) SetPage(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Page = max(n, 1)
}

// update applies fn to the query state and resets the page.
func (e *Engine) update(fn func(q *domain.QueryState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.state)
	e.state.Page = 1
}

// ComputeVisiblePage runs the pipeline for the current state. Before Load it
// returns an empty page.
func (e *Engine) ComputeVisiblePage() Page {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Compute(e.products, e.state)
}

// TopRated returns the top-rated products of the loaded collection,
// independent of the query state.
func (e *Engine) TopRated() []domain.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.topRated)
}

// FilterOptions returns the drop-down values for the loaded collection.
func (e *Engine) FilterOptions() FilterOptions {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Options(e.products)
}
