// Package storefront assembles the data behind each storefront page from the
// catalog source, the catalog engine and the cart store.
package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/catalog/source"
	"github.com/utafrali/storefront/internal/domain"
)

// Gallery placeholders shown after the product's own image.
var galleryPlaceholders = []string{
	"/assets/product-image-placeholder-1.png",
	"/assets/product-image-placeholder-2.png",
	"/assets/product-image-placeholder-3.png",
}

// DefaultDescription is shown for products without a description.
const DefaultDescription = "No description available."

// Service builds page models. Each page load fetches the collection once;
// nothing is cached between loads.
type Service struct {
	source   source.Source
	carts    *cart.Store
	logger   *slog.Logger
	pageSize int
	shuffle  catalog.Shuffler
}

// Option customizes a Service.
type Option func(*Service)

// WithPageSize sets the catalog page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithShuffler replaces the random source used for related products.
func WithShuffler(fn catalog.Shuffler) Option {
	return func(s *Service) {
		if fn != nil {
			s.shuffle = fn
		}
	}
}

// NewService creates a page service.
func NewService(src source.Source, carts *cart.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		source:   src,
		carts:    carts,
		logger:   logger,
		pageSize: domain.DefaultPageSize,
		shuffle:  catalog.DefaultShuffler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Carts exposes the cart store backing the cart page.
func (s *Service) Carts() *cart.Store {
	return s.carts
}

// --- Catalog page ---

// CatalogQuery is the raw catalog page input. Empty fields leave the
// corresponding setting at its default.
type CatalogQuery struct {
	Search   string
	Category string
	Color    string
	Size     string
	Sale     string
	Sort     string
	Page     int
}

// CatalogPage is the catalog page model.
type CatalogPage struct {
	Products     []domain.Product      `json:"products"`
	TotalCount   int                   `json:"total_count"`
	TotalPages   int                   `json:"total_pages"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	HasNext      bool                  `json:"has_next"`
	HasPrev      bool                  `json:"has_prev"`
	From         int                   `json:"from"`
	To           int                   `json:"to"`
	ResultsLabel string                `json:"results_label"`
	Query        domain.QueryState     `json:"query"`
	TopRated     []domain.Product      `json:"top_rated"`
	Filters      catalog.FilterOptions `json:"filters"`
}

// Catalog loads the collection and applies q through the engine setters.
// The page is applied last because every other setter resets it.
func (s *Service) Catalog(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	engine := catalog.NewEngine(s.pageSize)
	engine.Load(products)

	engine.SetSearch(q.Search)
	filters := []struct {
		kind  domain.FilterKind
		value string
	}{
		{domain.FilterCategory, q.Category},
		{domain.FilterColor, q.Color},
		{domain.FilterSize, q.Size},
		{domain.FilterSale, q.Sale},
	}
	for _, f := range filters {
		if err := engine.SetFilter(f.kind, f.value); err != nil {
			return nil, err
		}
	}
	engine.SetSort(domain.SortKey(q.Sort))
	engine.SetPage(q.Page)

	page := engine.ComputeVisiblePage()

	s.logger.DebugContext(ctx, "catalog page computed",
		slog.Int("total", page.TotalCount),
		slog.Int("page", page.Page),
		slog.String("sort", string(engine.State().Sort)),
	)

	return &CatalogPage{
		Products:     page.Data,
		TotalCount:   page.TotalCount,
		TotalPages:   page.TotalPages,
		Page:         page.Page,
		PageSize:     page.PerPage,
		HasNext:      page.HasNext,
		HasPrev:      page.HasPrev,
		From:         page.From,
		To:           page.To,
		ResultsLabel: ResultsLabel(page.From, page.To, page.TotalCount),
		Query:        engine.State(),
		TopRated:     engine.TopRated(),
		Filters:      engine.FilterOptions(),
	}, nil
}

// ResultsLabel renders the "Showing x–y of N Results" line.
func ResultsLabel(from, to, total int) string {
	return fmt.Sprintf("Showing %d–%d of %d Results", from, to, total)
}

// --- Home page ---

// HomePage is the home page model.
type HomePage struct {
	SelectedProducts []domain.Product `json:"selected_products"`
	NewArrivals      []domain.Product `json:"new_arrivals"`
}

// Home returns the promotional blocks of the home page.
func (s *Service) Home(ctx context.Context) (*HomePage, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	return &HomePage{
		SelectedProducts: catalog.InBlock(products, domain.BlockSelectedProducts),
		NewArrivals:      catalog.InBlock(products, domain.BlockNewArrivals),
	}, nil
}

// --- Product detail page ---

// ProductDetail is the product detail page model.
type ProductDetail struct {
	Product     domain.Product   `json:"product"`
	Description string           `json:"description"`
	Gallery     []string         `json:"gallery"`
	SizeOptions []string         `json:"size_options"`
	Related     []domain.Product `json:"related"`
}

// Product returns the detail page of the product with the given id. A
// missing id yields an error matching apperrors.ErrNotFound; a failed fetch
// one matching apperrors.ErrUnavailable.
func (s *Service) Product(ctx context.Context, id string) (*ProductDetail, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	product, err := catalog.FindByID(products, id)
	if err != nil {
		s.logger.InfoContext(ctx, "product not found", slog.String("product_id", id))
		return nil, err
	}

	description := product.Description
	if description == "" {
		description = DefaultDescription
	}

	gallery := make([]string, 0, len(galleryPlaceholders)+1)
	gallery = append(gallery, product.ImageURL)
	gallery = append(gallery, galleryPlaceholders...)

	return &ProductDetail{
		Product:     product,
		Description: description,
		Gallery:     gallery,
		SizeOptions: product.SizeTags(),
		Related:     catalog.Related(products, product.ID, domain.RelatedCount, s.shuffle),
	}, nil
}

// --- Cart page ---

// CartPage is the cart page model.
type CartPage struct {
	Items   []CartLine     `json:"items"`
	Summary domain.Summary `json:"summary"`
	Badge   domain.Badge   `json:"badge"`
}

// CartLine is a line item with its computed total.
type CartLine struct {
	domain.LineItem
	LineTotal string `json:"line_total"`
}

// Cart returns the cart page for session.
func (s *Service) Cart(ctx context.Context, session string) *CartPage {
	return NewCartPage(s.carts.Cart(ctx, session))
}

// NewCartPage derives the cart page model from c.
func NewCartPage(c domain.Cart) *CartPage {
	lines := make([]CartLine, len(c.Items))
	for i, item := range c.Items {
		lines[i] = CartLine{LineItem: item, LineTotal: item.LineTotal().StringFixed(2)}
	}
	return &CartPage{
		Items:   lines,
		Summary: c.Summary(),
		Badge:   domain.NewBadge(c.ItemCount()),
	}
}
