// Package scraper sequences the extraction run: listing walk, per-product
// field extraction, image discovery, download, conversion and persistence.
package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hedlund/gung-catalog-scraper/internal/config"
	"github.com/hedlund/gung-catalog-scraper/internal/fetcher"
	"github.com/hedlund/gung-catalog-scraper/internal/imaging"
	"github.com/hedlund/gung-catalog-scraper/internal/models"
	"github.com/hedlund/gung-catalog-scraper/internal/parser"
	"github.com/hedlund/gung-catalog-scraper/internal/storage"
)

// selReadyMarker is the element whose presence marks a product page as
// field-ready.
const selReadyMarker = "h1.product-name"

type Scraper struct {
	cfg     config.ScraperConfig
	walker  *Walker
	fetcher *fetcher.Fetcher
	store   *storage.Store
	logger  *slog.Logger
}

// Summary reports what a run accomplished.
type Summary struct {
	ProductsFound  int
	ProductsSaved  int
	ProductsFailed int
	ImagesSaved    int
}

func New(cfg config.ScraperConfig, f *fetcher.Fetcher, store *storage.Store) *Scraper {
	return &Scraper{
		cfg:     cfg,
		walker:  NewWalker(cfg),
		fetcher: f,
		store:   store,
		logger:  slog.Default().With("component", "scraper"),
	}
}

// Run executes the whole extraction sequence on one page. A required-field
// failure aborts only that product; the loop logs it and moves on. Only
// listing-level failures and cancellation end the run early.
func (s *Scraper) Run(ctx context.Context, page Page) (*Summary, error) {
	summary := &Summary{}

	skus, err := s.walker.CollectSKUs(ctx, page)
	if err != nil {
		return summary, err
	}
	summary.ProductsFound = len(skus)

	for i, sku := range skus {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		saved, err := s.scrapeProduct(ctx, page, sku)
		summary.ImagesSaved += saved
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			s.logger.Error("failed to scrape product", "sku", sku, "error", err)
			summary.ProductsFailed++
			continue
		}

		summary.ProductsSaved++
		s.logger.Info("product saved", "sku", sku, "images", saved, "index", i+1, "total", len(skus))
	}

	return summary, nil
}

// scrapeProduct handles a single SKU end to end. The returned count is the
// number of images written; per-image failures only skip that image.
func (s *Scraper) scrapeProduct(ctx context.Context, page Page, sku string) (int, error) {
	productURL := s.cfg.ProductURL(sku)

	if err := page.Navigate(productURL); err != nil {
		return 0, fmt.Errorf("failed to navigate to %s: %w", productURL, err)
	}

	if err := page.WaitFor(selReadyMarker, s.cfg.ReadyTimeout); err != nil {
		return 0, fmt.Errorf("product page not ready: %w", err)
	}

	html, err := page.Content()
	if err != nil {
		return 0, fmt.Errorf("failed to read product page: %w", err)
	}

	fields, err := parser.ParseProduct(html, s.cfg.StockKeyword)
	if err != nil {
		return 0, err
	}

	if !fields.Description.Found || fields.Description.Value == "" {
		s.logger.Warn("no description found", "sku", sku)
	}

	urls, err := s.collectImageURLs(ctx, page, sku)
	if err != nil {
		return 0, err
	}

	record := models.NewProduct(sku)
	record.Title = fields.Title
	record.Description = fields.Description.Value
	record.Price = fields.Price
	record.InStock = fields.InStock
	record.Attributes = fields.Attributes
	record.ImageURLs = urls

	saved := s.saveImages(ctx, sku, urls)

	if _, err := s.store.WriteMetadata(sku, record.Metadata()); err != nil {
		return saved, err
	}

	return saved, nil
}

// saveImages downloads and converts each discovered URL. Numbering is
// contiguous from 1 over the successes; a failed image does not consume a
// number.
func (s *Scraper) saveImages(ctx context.Context, sku string, urls []string) int {
	saved := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			return saved
		}

		data, err := s.fetcher.Fetch(ctx, u)
		if err != nil {
			s.logger.Warn("failed to download image", "sku", sku, "url", u, "error", err)
			continue
		}

		encoded, err := imaging.ConvertToWebP(data)
		if err != nil {
			s.logger.Warn("failed to convert image", "sku", sku, "url", u, "error", err)
			continue
		}

		if _, err := s.store.WriteImage(sku, saved+1, encoded); err != nil {
			s.logger.Warn("failed to write image", "sku", sku, "url", u, "error", err)
			continue
		}
		saved++
	}
	return saved
}
