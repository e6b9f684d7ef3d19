package adapter

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Browser starts pages in a single browser process
//
//go:generate mockgen -source=browser.go -destination=../mocks/browser.go -package=mocks -mock_names=Browser=MockBrowser,BrowserPage=MockBrowserPage
type Browser interface {
	// NewPage opens a tab that is closed when ctx ends or Close is called
	NewPage(ctx context.Context) (BrowserPage, error)
	Close()
}

// BrowserPage is one browser tab
type BrowserPage interface {
	// Navigate loads url and waits for the body to be ready
	Navigate(ctx context.Context, url string) error
	// Evaluate runs script in the page and stores its JSON result into result
	Evaluate(ctx context.Context, script string, result interface{}) error
	Close()
}

// ChromeOptions configures the Chrome process
type ChromeOptions struct {
	Headless    bool
	UserDataDir string
	ExecPath    string
}

// ChromeBrowser implements Browser with chromedp
type ChromeBrowser struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChromeBrowser launches Chrome and keeps it running until Close
func NewChromeBrowser(ctx context.Context, opts ChromeOptions) (Browser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromeBrowser{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}, nil
}

func (b *ChromeBrowser) NewPage(ctx context.Context) (BrowserPage, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	stop := context.AfterFunc(ctx, cancel)
	return &chromePage{
		ctx: tabCtx,
		close: func() {
			stop()
			cancel()
		},
	}, nil
}

func (b *ChromeBrowser) Close() {
	b.cancel()
}

type chromePage struct {
	ctx   context.Context
	close func()
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *chromePage) Evaluate(ctx context.Context, script string, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.ctx, chromedp.Evaluate(script, result))
}

func (p *chromePage) Close() {
	p.close()
}
