package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedlund/gung-catalog-scraper/internal/config"
	"github.com/hedlund/gung-catalog-scraper/internal/fetcher"
	"github.com/hedlund/gung-catalog-scraper/internal/storage"
)

// stubProduct is the interactive state of one fake product page.
type stubProduct struct {
	mainSrc   string
	thumbs    []string
	failClick map[int]bool
}

// stubPage is an in-memory Page implementation. Navigation selects a canned
// HTML snapshot; thumbnail clicks swap the main image source.
type stubPage struct {
	pages    map[string]string
	products map[string]*stubProduct
	current  string

	heights []float64
	hIdx    int
	scrolls int

	navErr  map[string]error
	waitErr error
}

func (p *stubPage) Navigate(url string) error {
	if err := p.navErr[url]; err != nil {
		return err
	}
	p.current = url
	return nil
}

func (p *stubPage) WaitFor(selector string, timeout time.Duration) error {
	return p.waitErr
}

func (p *stubPage) Content() (string, error) {
	return p.pages[p.current], nil
}

func (p *stubPage) Eval(js string) (any, error) {
	if js == jsScrollHeight {
		if len(p.heights) == 0 {
			return float64(1000), nil
		}
		if p.hIdx >= len(p.heights) {
			return p.heights[len(p.heights)-1], nil
		}
		h := p.heights[p.hIdx]
		p.hIdx++
		return h, nil
	}
	p.scrolls++
	return nil, nil
}

func (p *stubPage) Attribute(selector, name string) (string, bool, error) {
	prod := p.products[p.current]
	if prod == nil || prod.mainSrc == "" {
		return "", false, nil
	}
	return prod.mainSrc, true, nil
}

func (p *stubPage) Count(selector string) (int, error) {
	prod := p.products[p.current]
	if prod == nil {
		return 0, nil
	}
	return len(prod.thumbs), nil
}

func (p *stubPage) ClickNth(selector string, n int) error {
	prod := p.products[p.current]
	if prod == nil {
		return errors.New("no product page loaded")
	}
	if prod.failClick[n] {
		return errors.New("element not interactable")
	}
	prod.mainSrc = prod.thumbs[n]
	return nil
}

func testConfig(outputDir string) config.ScraperConfig {
	return config.ScraperConfig{
		ListingURL:         "https://shop.test/listing",
		ProductURLTemplate: "https://shop.test/product/%s",
		OutputDir:          outputDir,
		StockKeyword:       "lager",
		ReadyTimeout:       time.Second,
		FetchTimeout:       time.Second,
		MaxScrolls:         5,
	}
}

func newTestScraper(t *testing.T, cfg config.ScraperConfig) *Scraper {
	t.Helper()
	store, err := storage.New(cfg.OutputDir)
	require.NoError(t, err)
	return New(cfg, fetcher.New(cfg.FetchTimeout), store)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// imageServer serves a valid PNG under /img/... and 404 under anything else.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	raw := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/img/") {
			w.Write(raw)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func productHTML(title string) string {
	h := `<html><body>`
	if title != "" {
		h += `<h1 class="product-name">` + title + `</h1>`
	}
	h += `<div class="product-description">A fine product.</div>
		<lib-price-inside><span><span>129 kr</span></span></lib-price-inside>
		<lib-availability><a>Finns i lager</a></lib-availability>
		</body></html>`
	return h
}

func listingHTML(skus ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, sku := range skus {
		fmt.Fprintf(&sb, `<div class="card product-card"><small><span>%s</span></small></div>`, sku)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestRunEndToEnd(t *testing.T) {
	srv := imageServer(t)
	cfg := testConfig(t.TempDir())
	s := newTestScraper(t, cfg)

	page := &stubPage{
		pages: map[string]string{
			"https://shop.test/listing":       listingHTML("10234", "10235"),
			"https://shop.test/product/10234": productHTML("Pint Glass"),
			"https://shop.test/product/10235": productHTML("Tray"),
		},
		products: map[string]*stubProduct{
			"https://shop.test/product/10234": {
				mainSrc: srv.URL + "/img/main.png",
				// The first thumbnail swaps back to the main image; it must
				// be deduplicated.
				thumbs: []string{srv.URL + "/img/main.png", srv.URL + "/img/alt.png"},
			},
			"https://shop.test/product/10235": {
				mainSrc: srv.URL + "/img/tray.png",
			},
		},
	}

	summary, err := s.Run(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ProductsFound)
	assert.Equal(t, 2, summary.ProductsSaved)
	assert.Equal(t, 0, summary.ProductsFailed)
	assert.Equal(t, 3, summary.ImagesSaved)

	// 10234: two deduplicated images plus metadata.
	dir := filepath.Join(cfg.OutputDir, "10234")
	assert.FileExists(t, filepath.Join(dir, "1.webp"))
	assert.FileExists(t, filepath.Join(dir, "2.webp"))
	assert.NoFileExists(t, filepath.Join(dir, "3.webp"))

	content, err := os.ReadFile(filepath.Join(dir, "data.txt"))
	require.NoError(t, err)
	lines := strings.Split(string(content), "\n")
	assert.Equal(t, "SKU: 10234", lines[0])
	assert.Equal(t, "Title: Pint Glass", lines[1])
	assert.Equal(t, "Price: 129", lines[2])
	assert.Equal(t, "In stock: YES", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "A fine product.", lines[5])

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "10235", "1.webp"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "10235", "data.txt"))
}

func TestRunRequiredFieldFailureIsolatedPerProduct(t *testing.T) {
	srv := imageServer(t)
	cfg := testConfig(t.TempDir())
	s := newTestScraper(t, cfg)

	page := &stubPage{
		pages: map[string]string{
			"https://shop.test/listing":       listingHTML("broken", "10235"),
			"https://shop.test/product/broken": productHTML(""), // no title
			"https://shop.test/product/10235":  productHTML("Tray"),
		},
		products: map[string]*stubProduct{
			"https://shop.test/product/10235": {mainSrc: srv.URL + "/img/tray.png"},
		},
	}

	summary, err := s.Run(context.Background(), page)
	require.NoError(t, err, "a per-product failure must not abort the run")

	assert.Equal(t, 1, summary.ProductsFailed)
	assert.Equal(t, 1, summary.ProductsSaved)
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "broken"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "10235", "data.txt"))
}

func TestRunImageNumberingSkipsFailures(t *testing.T) {
	srv := imageServer(t)
	cfg := testConfig(t.TempDir())
	s := newTestScraper(t, cfg)

	page := &stubPage{
		pages: map[string]string{
			"https://shop.test/listing":       listingHTML("10234"),
			"https://shop.test/product/10234": productHTML("Pint Glass"),
		},
		products: map[string]*stubProduct{
			"https://shop.test/product/10234": {
				mainSrc: srv.URL + "/img/one.png",
				// The middle URL 404s; the survivor after it must still get
				// a contiguous number.
				thumbs: []string{srv.URL + "/missing/two.png", srv.URL + "/img/three.png"},
			},
		},
	}

	summary, err := s.Run(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ImagesSaved)

	dir := filepath.Join(cfg.OutputDir, "10234")
	assert.FileExists(t, filepath.Join(dir, "1.webp"))
	assert.FileExists(t, filepath.Join(dir, "2.webp"))
	assert.NoFileExists(t, filepath.Join(dir, "3.webp"))
}

func TestRunEmptyListing(t *testing.T) {
	cfg := testConfig(t.TempDir())
	s := newTestScraper(t, cfg)

	page := &stubPage{
		pages: map[string]string{"https://shop.test/listing": listingHTML()},
	}

	summary, err := s.Run(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ProductsFound)
	assert.Equal(t, 0, summary.ProductsSaved)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no product directories may be created")
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t.TempDir())
	s := newTestScraper(t, cfg)

	page := &stubPage{
		pages: map[string]string{"https://shop.test/listing": listingHTML("10234")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, page)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunListingNavigationFailure(t *testing.T) {
	cfg := testConfig(t.TempDir())
	s := newTestScraper(t, cfg)

	page := &stubPage{
		navErr: map[string]error{"https://shop.test/listing": errors.New("net::ERR_CONNECTION_REFUSED")},
	}

	_, err := s.Run(context.Background(), page)
	assert.Error(t, err)
}
