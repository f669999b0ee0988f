package scraper

import (
	"context"
	"time"
)

// Page is the browser capability the scraper needs. Extraction logic talks
// only to this interface; internal/browser adapts playwright to it and tests
// substitute a stub.
type Page interface {
	// Navigate loads the URL and waits for the DOM to be ready.
	Navigate(url string) error
	// WaitFor blocks until an element matching selector is present, up to
	// the given timeout.
	WaitFor(selector string, timeout time.Duration) error
	// Content returns the current HTML snapshot of the page.
	Content() (string, error)
	// Eval runs a JavaScript expression and returns its result.
	Eval(js string) (any, error)
	// Attribute reads an attribute of the first element matching selector.
	// The second return value reports whether such an element exists.
	Attribute(selector, name string) (string, bool, error)
	// Count returns the number of elements matching selector.
	Count(selector string) (int, error)
	// ClickNth clicks the n-th (0-based) element matching selector.
	ClickNth(selector string, n int) error
}

// sleep blocks for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
