package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hedlund/gung-catalog-scraper/internal/models"
)

// Selectors for the gung.io storefront markup.
const (
	selProductCard    = "div.card.product-card"
	selCardSKU        = "small span"
	selTitle          = "h1.product-name"
	selDescription    = ".product-description"
	selPrice          = "lib-price-inside span span"
	selAvailability   = "lib-availability a"
	selAttributeTable = ".attribute-table"
)

// Field is an optional extraction result. Found reports whether the element
// was present at all, so callers can warn on absence without treating it as
// an error.
type Field struct {
	Value string
	Found bool
}

// ProductFields is the raw output of parsing one product page snapshot.
type ProductFields struct {
	Title        string
	Description  Field
	Price        string
	Availability string
	InStock      bool
	Attributes   []models.Attribute
}

// ParseListing extracts the SKU of every product card in the listing page
// snapshot, in document order. Duplicates are not filtered; the listing is
// assumed unique.
func ParseListing(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var skus []string
	doc.Find(selProductCard).Each(func(i int, card *goquery.Selection) {
		sku := strings.TrimSpace(card.Find(selCardSKU).First().Text())
		if sku != "" {
			skus = append(skus, sku)
		}
	})

	return skus, nil
}

// ParseProduct extracts all metadata fields from a product page snapshot.
// Title, price and availability are required; a missing one fails the whole
// product. Description and the attribute table are optional.
func ParseProduct(html, stockKeyword string) (*ProductFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	fields := &ProductFields{}

	title := doc.Find(selTitle)
	if title.Length() == 0 {
		return nil, fmt.Errorf("title not found")
	}
	fields.Title = strings.TrimSpace(title.First().Text())

	if desc := doc.Find(selDescription); desc.Length() > 0 {
		fields.Description = Field{Value: strings.TrimSpace(desc.First().Text()), Found: true}
	}

	priceText := strings.TrimSpace(doc.Find(selPrice).First().Text())
	if priceText == "" {
		return nil, fmt.Errorf("price not found")
	}
	// The displayed price carries a currency suffix; keep the leading
	// numeric token only.
	fields.Price = strings.Fields(priceText)[0]

	avail := doc.Find(selAvailability)
	if avail.Length() == 0 {
		return nil, fmt.Errorf("availability not found")
	}
	fields.Availability = strings.TrimSpace(avail.First().Text())
	fields.InStock = strings.Contains(
		strings.ToLower(fields.Availability),
		strings.ToLower(stockKeyword),
	)

	fields.Attributes = parseAttributeTable(doc)

	return fields, nil
}

// parseAttributeTable reads the optional label/value table. Rows without
// exactly two cells are skipped; a missing table yields an empty slice.
func parseAttributeTable(doc *goquery.Document) []models.Attribute {
	var attrs []models.Attribute

	doc.Find(selAttributeTable).First().Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}

		label := strings.TrimSuffix(strings.TrimSpace(cells.Eq(0).Text()), ":")
		value := strings.TrimSpace(cells.Eq(1).Text())
		attrs = append(attrs, models.Attribute{Label: label, Value: value})
	})

	return attrs
}
