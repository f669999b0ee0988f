package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hedlund/gung-catalog-scraper/internal/browser"
	"github.com/hedlund/gung-catalog-scraper/internal/config"
	"github.com/hedlund/gung-catalog-scraper/internal/fetcher"
	"github.com/hedlund/gung-catalog-scraper/internal/scraper"
	"github.com/hedlund/gung-catalog-scraper/internal/storage"
)

func main() {
	var (
		headless = flag.Bool("headless", false, "Run the browser headless (skips the manual login window)")
		output   = flag.String("output", "", "Override the output directory")
	)
	flag.Parse()

	// .env is optional; real env vars win either way.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *headless {
		cfg.Browser.Headless = true
	}
	if *output != "" {
		cfg.Scraper.OutputDir = *output
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	runID := uuid.New().String()[:8]
	logger := slog.Default().With("run_id", runID)
	logger.Info("starting catalog scraper", "listing", cfg.Scraper.ListingURL, "output", cfg.Scraper.OutputDir)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// run owns the browser lifetime so it is released on every exit path.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := storage.New(cfg.Scraper.OutputDir)
	if err != nil {
		return err
	}

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Error("failed to close browser", "error", err)
		}
	}()

	page, err := b.NewPage()
	if err != nil {
		return err
	}

	s := scraper.New(cfg.Scraper, fetcher.New(cfg.Scraper.FetchTimeout), store)

	summary, err := s.Run(ctx, page)
	logger.Info("run finished",
		"products_found", summary.ProductsFound,
		"products_saved", summary.ProductsSaved,
		"products_failed", summary.ProductsFailed,
		"images_saved", summary.ImagesSaved,
	)
	return err
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
