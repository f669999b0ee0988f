package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Page adapts a playwright page to the narrow surface the scraper consumes.
type Page struct {
	page playwright.Page
}

func (p *Page) Navigate(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *Page) WaitFor(selector string, timeout time.Duration) error {
	_, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("timed out waiting for %q: %w", selector, err)
	}
	return nil
}

func (p *Page) Content() (string, error) {
	return p.page.Content()
}

func (p *Page) Eval(js string) (any, error) {
	return p.page.Evaluate(js)
}

func (p *Page) Attribute(selector, name string) (string, bool, error) {
	loc := p.page.Locator(selector).First()

	count, err := loc.Count()
	if err != nil {
		return "", false, fmt.Errorf("failed to locate %q: %w", selector, err)
	}
	if count == 0 {
		return "", false, nil
	}

	value, err := loc.GetAttribute(name)
	if err != nil {
		return "", true, fmt.Errorf("failed to read %s of %q: %w", name, selector, err)
	}
	return value, true, nil
}

func (p *Page) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *Page) ClickNth(selector string, n int) error {
	if err := p.page.Locator(selector).Nth(n).Click(); err != nil {
		return fmt.Errorf("failed to click %q[%d]: %w", selector, n, err)
	}
	return nil
}

func (p *Page) Close() error {
	return p.page.Close()
}
