package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hedlund/gung-catalog-scraper/internal/config"
	"github.com/hedlund/gung-catalog-scraper/internal/parser"
)

const (
	jsScrollHeight   = "document.body.scrollHeight"
	jsScrollToBottom = "window.scrollTo(0, document.body.scrollHeight)"
)

// Walker loads the listing page and collects the SKUs of every product card
// once infinite-scroll pagination has settled.
type Walker struct {
	cfg    config.ScraperConfig
	logger *slog.Logger
}

func NewWalker(cfg config.ScraperConfig) *Walker {
	return &Walker{
		cfg:    cfg,
		logger: slog.Default().With("component", "walker"),
	}
}

// CollectSKUs navigates to the listing, waits for the operator to complete
// the manual login, scrolls until the page height stabilizes and returns the
// SKUs in card order. Zero cards is a warning, not an error.
func (w *Walker) CollectSKUs(ctx context.Context, page Page) ([]string, error) {
	w.logger.Info("opening listing page", "url", w.cfg.ListingURL)
	if err := page.Navigate(w.cfg.ListingURL); err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}

	w.logger.Info("waiting for manual login", "wait", w.cfg.ManualLoginWait)
	if err := sleep(ctx, w.cfg.ManualLoginWait); err != nil {
		return nil, err
	}

	if err := w.scrollToEnd(ctx, page); err != nil {
		return nil, err
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read listing content: %w", err)
	}

	skus, err := parser.ParseListing(html)
	if err != nil {
		return nil, err
	}

	if len(skus) == 0 {
		w.logger.Warn("no product cards found on listing page")
	} else {
		w.logger.Info("collected product SKUs", "count", len(skus))
	}

	return skus, nil
}

// scrollToEnd triggers scroll-to-bottom until two consecutive scrolls leave
// the page height unchanged, bounded by MaxScrolls.
func (w *Walker) scrollToEnd(ctx context.Context, page Page) error {
	last, err := w.pageHeight(page)
	if err != nil {
		return err
	}

	for i := 0; i < w.cfg.MaxScrolls; i++ {
		if _, err := page.Eval(jsScrollToBottom); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}

		if err := sleep(ctx, w.cfg.ScrollPause); err != nil {
			return err
		}

		height, err := w.pageHeight(page)
		if err != nil {
			return err
		}

		if height == last {
			w.logger.Debug("page height stable", "height", height, "scrolls", i+1)
			return nil
		}
		last = height
	}

	w.logger.Warn("page height still changing after max scrolls", "scrolls", w.cfg.MaxScrolls)
	return nil
}

func (w *Walker) pageHeight(page Page) (float64, error) {
	v, err := page.Eval(jsScrollHeight)
	if err != nil {
		return 0, fmt.Errorf("failed to read page height: %w", err)
	}

	switch h := v.(type) {
	case float64:
		return h, nil
	case int:
		return float64(h), nil
	default:
		return 0, fmt.Errorf("unexpected page height type %T", v)
	}
}
