package catalog

import (
	"math/rand/v2"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// FindByID returns the product with the given id.
func FindByID(products []domain.Product, id string) (domain.Product, error) {
	if id != "" {
		for _, p := range products {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return domain.Product{}, apperrors.NotFound("product", id)
}

// InBlock returns the products listed in the named promotional block, in
// collection order.
func InBlock(products []domain.Product, block string) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.InBlock(block) {
			out = append(out, p)
		}
	}
	return out
}

// Shuffler permutes n elements by calling swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler shuffles with the global math/rand/v2 source.
var DefaultShuffler Shuffler = rand.Shuffle

// Related picks up to n products other than excludeID in the order produced
// by shuffle. A non-positive n yields no products.
func Related(products []domain.Product, excludeID string, n int, shuffle Shuffler) []domain.Product {
	if n <= 0 {
		return []domain.Product{}
	}
	others := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != excludeID {
			others = append(others, p)
		}
	}
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	if len(others) > n {
		others = others[:n]
	}
	return others
}
