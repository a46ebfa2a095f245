// Package seed generates deterministic catalog documents for local runs and
// load tests.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
)

// DefaultCount is the number of products generated when Options.Count is unset.
const DefaultCount = 500

// Options controls generation. The same Seed always yields the same catalog.
type Options struct {
	Count int
	Seed  int64
}

type category struct {
	Name  string
	Sizes string
	Types []string
	// Price range in whole currency units.
	MinPrice, MaxPrice int
}

var categories = []category{
	{"dresses", "XS, S, M, L, XL", []string{"Maxi Dress", "Midi Dress", "Knit Dress", "Shirt Dress"}, 150, 1500},
	{"tunics", "S, M, L, XL", []string{"Tunic", "Long Tunic", "Asymmetric Tunic", "Buttoned Tunic"}, 120, 900},
	{"coats", "S, M, L, XL", []string{"Trench Coat", "Wool Coat", "Parka", "Puffer Jacket"}, 600, 4500},
	{"shirts", "XS, S, M, L", []string{"Blouse", "Poplin Shirt", "Chiffon Blouse", "Linen Shirt"}, 100, 700},
	{"trousers", "36, 38, 40, 42, 44", []string{"Palazzo Trousers", "Jogger", "Wide Leg Jeans", "Tailored Trousers"}, 150, 1100},
	{"scarves", "", []string{"Cotton Shawl", "Silk Scarf", "Twill Scarf", "Ready Turban"}, 60, 450},
	{"shoes", "36, 37, 38, 39, 40, 41", []string{"Sneakers", "Ankle Boots", "Loafers", "Block Heels"}, 300, 2500},
	{"bags", "", []string{"Shoulder Bag", "Backpack", "Tote Bag", "Chain Strap Bag"}, 200, 1800},
}

var prefixes = []string{
	"Plain", "Floral", "Polka Dot", "Striped", "Embroidered",
	"Lace Trim", "Pleated", "Belted", "Quilted", "Satin",
	"Velvet", "Crepe", "Printed", "Jacquard", "Sequined",
}

var colors = []string{
	"black", "navy", "ecru", "pink", "grey",
	"khaki", "burgundy", "blue", "beige", "red",
	"green", "brown", "cream", "mint", "mustard",
}

var materials = []string{"Cotton", "Polyester", "Viscose", "Crepe", "Satin", "Knit", "Leather", "Suede", "Wool"}

var seasons = []string{"Spring/Summer", "Autumn/Winter", "All Season"}

var descriptionTemplates = []string{
	"A comfortable %s for everyday wear and special occasions. Durable fabric that keeps its shape.",
	"This %s stands out with its elegant cut. A wardrobe staple for every season.",
	"Modern lines and careful details make this %s easy to combine.",
	"%s made from carefully selected fabrics with a relaxed fit.",
	"The season's favourite %s in this year's most popular colors.",
}

// Generate builds opts.Count products. Every tenth product is listed in the
// selected block and every seventh in new arrivals.
func Generate(opts Options) []domain.Product {
	count := opts.Count
	if count <= 0 {
		count = DefaultCount
	}
	rng := rand.New(rand.NewSource(opts.Seed)) // #nosec G404 -- deterministic fixture data

	products := make([]domain.Product, 0, count)
	for i := 0; i < count; i++ {
		cat := categories[i%len(categories)]
		productType := cat.Types[rng.Intn(len(cat.Types))]
		color := colors[rng.Intn(len(colors))]
		id := fmt.Sprintf("sku-%05d", i+1)

		price := cat.MinPrice + rng.Intn(cat.MaxPrice-cat.MinPrice+1)
		// Round down to the nearest ten, keeping the category minimum.
		price = max(price/10*10, cat.MinPrice)

		var blocks []string
		if i%10 == 0 {
			blocks = append(blocks, domain.BlockSelectedProducts)
		}
		if i%7 == 0 {
			blocks = append(blocks, domain.BlockNewArrivals)
		}

		products = append(products, domain.Product{
			ID:          id,
			Name:        fmt.Sprintf("%s %s", prefixes[rng.Intn(len(prefixes))], productType),
			Price:       decimal.NewFromInt(int64(price)),
			ImageURL:    fmt.Sprintf("/assets/products/%s.jpg", id),
			Category:    cat.Name,
			Color:       color,
			Size:        cat.Sizes,
			Rating:      float64(30+rng.Intn(21)) / 10,
			Popularity:  float64(rng.Intn(1000)),
			SalesStatus: rng.Intn(4) == 0,
			Blocks:      blocks,
			Description: fmt.Sprintf(descriptionTemplates[rng.Intn(len(descriptionTemplates))], productType),
			Features: []string{
				"Material: " + materials[rng.Intn(len(materials))],
				"Season: " + seasons[rng.Intn(len(seasons))],
			},
		})
	}
	return products
}

// Write encodes products as a catalog document, {"data": [...]}.
func Write(w io.Writer, products []domain.Product) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	doc := struct {
		Data []domain.Product `json:"data"`
	}{Data: products}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}
