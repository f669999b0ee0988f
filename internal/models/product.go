package models

import (
	"fmt"
	"strings"
	"time"
)

// Product is the record extracted from a single product page. It is built
// once per page visit and written to disk immediately; nothing mutates it
// afterwards.
type Product struct {
	SKU         string      `json:"sku"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	InStock     bool        `json:"in_stock"`
	Attributes  []Attribute `json:"attributes"`
	ImageURLs   []string    `json:"image_urls"`
	ScrapedAt   time.Time   `json:"scraped_at"`
}

// Attribute is one row of the product attribute table. A slice keeps the
// table's row order, which a map would lose.
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func NewProduct(sku string) *Product {
	return &Product{
		SKU:       sku,
		ScrapedAt: time.Now(),
	}
}

// Metadata renders the data.txt contents. The line order is part of the
// output contract: SKU, Title, Price, In stock, a blank separator line, the
// description, then one line per attribute. No trailing newline.
func (p *Product) Metadata() string {
	lines := []string{
		"SKU: " + p.SKU,
		"Title: " + p.Title,
		"Price: " + p.Price,
		"In stock: " + stockLabel(p.InStock),
		"",
		p.Description,
	}
	for _, attr := range p.Attributes {
		lines = append(lines, fmt.Sprintf("%s: %s", attr.Label, attr.Value))
	}
	return strings.Join(lines, "\n")
}

func stockLabel(inStock bool) string {
	if inStock {
		return "YES"
	}
	return "NO"
}
