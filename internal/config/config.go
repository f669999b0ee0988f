package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Scraper ScraperConfig
	Browser BrowserConfig
	Logging LoggingConfig
}

type ScraperConfig struct {
	ListingURL         string
	ProductURLTemplate string
	OutputDir          string
	// StockKeyword is matched case-insensitively as a substring of the
	// availability text. The default "lager" matches both "Finns i lager"
	// and "Slut i lager"; negated phrasings are a known limitation.
	StockKeyword    string
	ScrollPause     time.Duration
	ManualLoginWait time.Duration
	ThumbnailPause  time.Duration
	ReadyTimeout    time.Duration
	FetchTimeout    time.Duration
	MaxScrolls      int
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Scraper: ScraperConfig{
			ListingURL:         getEnvOrDefault("LISTING_URL", "https://hedlundgruppen.gung.io/categories/sAllaProdukterCult?limit=288"),
			ProductURLTemplate: getEnvOrDefault("PRODUCT_URL_TEMPLATE", "https://hedlundgruppen.gung.io/product/%s"),
			OutputDir:          getEnvOrDefault("OUTPUT_DIR", "output"),
			StockKeyword:       getEnvOrDefault("STOCK_KEYWORD", "lager"),
			ScrollPause:        getDurationOrDefault("SCROLL_PAUSE", 500*time.Millisecond),
			ManualLoginWait:    getDurationOrDefault("MANUAL_LOGIN_WAIT", 10*time.Second),
			ThumbnailPause:     getDurationOrDefault("THUMBNAIL_PAUSE", 200*time.Millisecond),
			ReadyTimeout:       getDurationOrDefault("READY_TIMEOUT", 20*time.Second),
			FetchTimeout:       getDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
			MaxScrolls:         getIntOrDefault("MAX_SCROLLS", 50),
		},
		Browser: BrowserConfig{
			// Login is manual, so the browser is visible by default.
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", false),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "sv-SE"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.ListingURL == "" {
		return fmt.Errorf("LISTING_URL must not be empty")
	}

	if !strings.Contains(c.Scraper.ProductURLTemplate, "%s") {
		return fmt.Errorf("PRODUCT_URL_TEMPLATE must contain a %%s placeholder")
	}

	if c.Scraper.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}

	if c.Scraper.StockKeyword == "" {
		return fmt.Errorf("STOCK_KEYWORD must not be empty")
	}

	if c.Scraper.MaxScrolls < 1 {
		return fmt.Errorf("MAX_SCROLLS must be at least 1")
	}

	if c.Scraper.ReadyTimeout <= 0 {
		return fmt.Errorf("READY_TIMEOUT must be positive")
	}

	if c.Scraper.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	return nil
}

// ProductURL expands the product URL template for one SKU.
func (c *ScraperConfig) ProductURL(sku string) string {
	return fmt.Sprintf(c.ProductURLTemplate, sku)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
