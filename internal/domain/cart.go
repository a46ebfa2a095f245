package domain

import "github.com/shopspring/decimal"

// Pricing rules applied on the cart page.
var (
	// ShippingFlat is charged once for any non-empty cart.
	ShippingFlat = decimal.NewFromInt(30)
	// DiscountThreshold is the subtotal from which DiscountRate applies.
	DiscountThreshold = decimal.NewFromInt(3000)
	// DiscountRate is the share of the subtotal taken off above the threshold.
	DiscountRate = decimal.RequireFromString("0.10")
)

// LineItem is one row of the cart. Price, name and image are captured when
// the product is added and never refreshed from the catalog.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// NewLineItem snapshots p into a line item with the given quantity.
func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.ImageURL,
		Quantity: quantity,
	}
}

// LineTotal is price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an insertion-ordered list of line items with at most one item per
// product id.
type Cart struct {
	Items []LineItem `json:"items"`
}

// ItemCount returns the sum of quantities across all line items.
func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the line item with the given id, or -1.
func (c Cart) FindItemIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Subtotal is the sum of all line totals.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Summary computes the totals shown on the cart page.
func (c Cart) Summary() Summary {
	if c.IsEmpty() {
		return Summary{
			Subtotal: decimal.Zero,
			Discount: decimal.Zero,
			Shipping: decimal.Zero,
			Total:    decimal.Zero,
		}
	}

	subtotal := c.Subtotal()
	discount := decimal.Zero
	if subtotal.GreaterThanOrEqual(DiscountThreshold) {
		discount = subtotal.Mul(DiscountRate).Round(2)
	}

	return Summary{
		ItemCount: c.ItemCount(),
		Subtotal:  subtotal,
		Discount:  discount,
		Shipping:  ShippingFlat,
		Total:     subtotal.Sub(discount).Add(ShippingFlat),
	}
}

// Summary holds cart totals.
type Summary struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// Badge is the header counter showing the total cart quantity.
type Badge struct {
	Count   int    `json:"count"`
	Visible bool   `json:"visible"`
	Display string `json:"display"`
}

// NewBadge derives the badge state from a quantity count: hidden at zero,
// laid out as flex otherwise.
func NewBadge(count int) Badge {
	if count <= 0 {
		return Badge{Count: 0, Visible: false, Display: "none"}
	}
	return Badge{Count: count, Visible: true, Display: "flex"}
}
