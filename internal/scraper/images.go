package scraper

import (
	"context"
)

const (
	selMainImage = ".image-container img"
	selThumbnail = ".product-detail-image img"
)

// collectImageURLs gathers high-resolution image URLs for the current
// product page: the main image first, then one per thumbnail click, in DOM
// order, deduplicated by exact URL. Every failure here is a warning; partial
// results are acceptable.
func (s *Scraper) collectImageURLs(ctx context.Context, page Page, sku string) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	src, found, err := page.Attribute(selMainImage, "src")
	if err != nil {
		s.logger.Warn("failed to read main image", "sku", sku, "error", err)
	} else if !found {
		s.logger.Warn("no main image found", "sku", sku)
	} else {
		add(src)
	}

	thumbs, err := page.Count(selThumbnail)
	if err != nil {
		s.logger.Warn("failed to enumerate thumbnails", "sku", sku, "error", err)
		thumbs = 0
	}
	if thumbs == 0 {
		s.logger.Warn("no thumbnails found", "sku", sku)
	}

	for i := 0; i < thumbs; i++ {
		if err := ctx.Err(); err != nil {
			return urls, err
		}

		if err := page.ClickNth(selThumbnail, i); err != nil {
			s.logger.Warn("failed to click thumbnail", "sku", sku, "thumbnail", i, "error", err)
			continue
		}

		// Give the main image a moment to swap to the clicked variant.
		if err := sleep(ctx, s.cfg.ThumbnailPause); err != nil {
			return urls, err
		}

		src, found, err := page.Attribute(selMainImage, "src")
		if err != nil || !found {
			s.logger.Warn("main image missing after thumbnail click", "sku", sku, "thumbnail", i, "error", err)
			continue
		}
		add(src)
	}

	if len(urls) == 0 {
		s.logger.Warn("no image URLs collected", "sku", sku)
	}

	return urls, nil
}
