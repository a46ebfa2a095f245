package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Promotional block names used by the home page.
const (
	BlockSelectedProducts = "Selected Products"
	BlockNewArrivals      = "New Products Arrival"
)

// Product is one entry of the static catalog document. JSON names follow the
// catalog file format.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	Rating      float64         `json:"rating"`
	Popularity  float64         `json:"popularity"`
	SalesStatus bool            `json:"salesStatus"`
	Blocks      []string        `json:"blocks,omitempty"`
	Description string          `json:"description,omitempty"`
	Features    []string        `json:"features,omitempty"`
}

// SizeTags splits the comma-delimited size field into trimmed, non-empty tags.
func (p Product) SizeTags() []string {
	if p.Size == "" {
		return nil
	}
	parts := strings.Split(p.Size, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasSize reports whether tag is one of the product's size tags.
func (p Product) HasSize(tag string) bool {
	for _, t := range p.SizeTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// InBlock reports whether the product is listed in the named promotional block.
func (p Product) InBlock(block string) bool {
	for _, b := range p.Blocks {
		if b == block {
			return true
		}
	}
	return false
}
