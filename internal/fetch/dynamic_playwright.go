package fetch

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// The seams below keep playwright behind small interfaces so the
// fetcher can be exercised with fakes.

type dynamicProvider interface {
	Install() error
	Run() (dynamicRunner, error)
}

type dynamicRunner interface {
	ChromiumLaunch(headless bool) (dynamicBrowser, error)
	Stop() error
}

type dynamicBrowser interface {
	NewPage(userAgent string) (dynamicPage, error)
	Close() error
}

type dynamicPage interface {
	Goto(url string, timeout time.Duration) error
	WaitFor(selector string, timeout time.Duration) error
	Content() (string, error)
	Close() error
}

type playwrightProvider struct{}

func (playwrightProvider) Install() error {
	return playwright.Install(&playwright.RunOptions{})
}

func (playwrightProvider) Run() (dynamicRunner, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	return &playwrightRunner{pw: pw}, nil
}

type playwrightRunner struct {
	pw *playwright.Playwright
}

func (r *playwrightRunner) ChromiumLaunch(headless bool) (dynamicBrowser, error) {
	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		return nil, err
	}
	return &playwrightBrowser{browser: browser}, nil
}

func (r *playwrightRunner) Stop() error {
	return r.pw.Stop()
}

type playwrightBrowser struct {
	browser playwright.Browser
}

func (b *playwrightBrowser) NewPage(userAgent string) (dynamicPage, error) {
	page, err := b.browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, err
	}
	return &playwrightPage{page: page}, nil
}

func (b *playwrightBrowser) Close() error {
	return b.browser.Close()
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	return err
}

func (p *playwrightPage) WaitFor(selector string, timeout time.Duration) error {
	loc := p.page.Locator(selector)
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
