package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "output", cfg.Scraper.OutputDir)
	assert.Equal(t, "lager", cfg.Scraper.StockKeyword)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.ScrollPause)
	assert.Equal(t, 10*time.Second, cfg.Scraper.ManualLoginWait)
	assert.Equal(t, 30*time.Second, cfg.Scraper.FetchTimeout)
	assert.False(t, cfg.Browser.Headless, "browser must be visible for manual login")

	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/catalog")
	t.Setenv("SCROLL_PAUSE", "2s")
	t.Setenv("MAX_SCROLLS", "5")
	t.Setenv("BROWSER_HEADLESS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catalog", cfg.Scraper.OutputDir)
	assert.Equal(t, 2*time.Second, cfg.Scraper.ScrollPause)
	assert.Equal(t, 5, cfg.Scraper.MaxScrolls)
	assert.True(t, cfg.Browser.Headless)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listing URL", func(c *Config) { c.Scraper.ListingURL = "" }},
		{"template without placeholder", func(c *Config) { c.Scraper.ProductURLTemplate = "https://example.com/product" }},
		{"empty output dir", func(c *Config) { c.Scraper.OutputDir = "" }},
		{"empty stock keyword", func(c *Config) { c.Scraper.StockKeyword = "" }},
		{"zero max scrolls", func(c *Config) { c.Scraper.MaxScrolls = 0 }},
		{"zero ready timeout", func(c *Config) { c.Scraper.ReadyTimeout = 0 }},
		{"zero fetch timeout", func(c *Config) { c.Scraper.FetchTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestProductURL(t *testing.T) {
	cfg := ScraperConfig{ProductURLTemplate: "https://shop.example/product/%s"}
	assert.Equal(t, "https://shop.example/product/10234", cfg.ProductURL("10234"))
}
