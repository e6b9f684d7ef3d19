package wakeup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

const (
	// PLACEHOLDER_IMAGE_SRC is the image the media manager renders for sleeping media
	PLACEHOLDER_IMAGE_SRC = "/art/z.jpg"

	pageSettleDelay = 3 * time.Second
	scrollDelay     = 2 * time.Second
)

// Page scripts. Each returns a JSON value decoded by BrowserPage.Evaluate.
const (
	loginFormScript = `(() => {
	const form = document.querySelector('input[name="sEmail"], input[name="sPassword"], form[action*="login"]');
	const text = (document.body && document.body.textContent || '').toLowerCase();
	const onLoginPage = location.href.includes('/Login/login.asp') && !location.href.includes('?sReturnUrl');
	return (!!form && text.includes('secure access')) || onLoginPage;
})()`

	scrollScript = `(() => { window.scrollTo(0, document.body.scrollHeight); return true; })()`

	placeholderCountScript = `document.querySelectorAll('img[src="` + PLACEHOLDER_IMAGE_SRC + `"]').length`

	clickWakeButtonScript = `(() => {
	let button = document.querySelector('button[onclick*="wakeupStart"]');
	if (!button) {
		button = Array.from(document.querySelectorAll('button')).find(b =>
			(b.textContent || b.value || '').toLowerCase().includes('wake'));
	}
	if (!button) return false;
	button.click();
	return true;
})()`

	asleepTextScript = `(() => {
	const text = (document.body && document.body.textContent || '').toLowerCase();
	return text.includes('wake up') || text.includes('asleep');
})()`
)

// Result is the outcome of one wake-up attempt
type Result struct {
	Awake bool
	// Reason explains a site that is not awake
	Reason string
	// Checks is the number of placeholder polls after clicking wake up
	Checks int
}

// Waker triggers media generation for a site. A returned error means the
// browser could not drive the page; a site that stays asleep is reported
// through Result.
//
//go:generate mockgen -source=waker.go -destination=../mocks/waker.go -package=mocks -mock_names=Waker=MockWaker
type Waker interface {
	Wake(ctx context.Context, site domain.WakeUpSite) (*Result, error)
}

type chromeWaker struct {
	config  config.WakeUpConfig
	browser adapter.Browser
	clock   adapter.Clock
}

// NewChromeWaker creates a waker that drives the media manager page in browser
func NewChromeWaker(cfg config.WakeUpConfig, browser adapter.Browser, clock adapter.Clock) Waker {
	return &chromeWaker{config: cfg, browser: browser, clock: clock}
}

func (w *chromeWaker) Wake(ctx context.Context, site domain.WakeUpSite) (*Result, error) {
	if site.WakeUpURL == "" {
		return nil, fmt.Errorf("site %s has no wake-up url", site.SiteID)
	}

	page, err := w.browser.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	logger.InfoCtx(ctx, "Visiting media manager", zap.String("siteId", site.SiteID), zap.String("url", site.WakeUpURL))
	if err := page.Navigate(ctx, site.WakeUpURL); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", site.WakeUpURL, err)
	}

	loggedIn, err := w.ensureLoggedIn(ctx, page, site.SiteID)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return &Result{Reason: domain.ErrLoginRequired.Error()}, nil
	}

	if err := adapter.SleepContext(ctx, w.clock, pageSettleDelay); err != nil {
		return nil, err
	}
	var scrolled bool
	if err := page.Evaluate(ctx, scrollScript, &scrolled); err != nil {
		return nil, fmt.Errorf("failed to scroll: %w", err)
	}
	if err := adapter.SleepContext(ctx, w.clock, scrollDelay); err != nil {
		return nil, err
	}

	// lazily loaded thumbnails may not be in the DOM yet, so zero needs a second look
	placeholders, err := w.countPlaceholders(ctx, page)
	if err != nil {
		return nil, err
	}
	if placeholders == 0 {
		if err := adapter.SleepContext(ctx, w.clock, pageSettleDelay); err != nil {
			return nil, err
		}
		if placeholders, err = w.countPlaceholders(ctx, page); err != nil {
			return nil, err
		}
	}
	if placeholders == 0 {
		logger.InfoCtx(ctx, "Site already awake", zap.String("siteId", site.SiteID))
		return &Result{Awake: true}, nil
	}

	logger.InfoCtx(ctx, "Site is asleep", zap.String("siteId", site.SiteID), zap.Int("placeholders", placeholders))

	var clicked bool
	if err := page.Evaluate(ctx, clickWakeButtonScript, &clicked); err != nil {
		return nil, fmt.Errorf("failed to click wake-up button: %w", err)
	}
	if !clicked {
		var asleep bool
		if err := page.Evaluate(ctx, asleepTextScript, &asleep); err != nil {
			return nil, fmt.Errorf("failed to read page text: %w", err)
		}
		if asleep {
			return &Result{Reason: "no wake-up button found"}, nil
		}
		return &Result{Awake: true}, nil
	}

	return w.poll(ctx, page, site.SiteID)
}

// ensureLoggedIn gives the operator LoginWait to sign in when the page shows a login form
func (w *chromeWaker) ensureLoggedIn(ctx context.Context, page adapter.BrowserPage, siteID string) (bool, error) {
	var needsLogin bool
	if err := page.Evaluate(ctx, loginFormScript, &needsLogin); err != nil {
		return false, fmt.Errorf("failed to detect login form: %w", err)
	}
	if !needsLogin {
		return true, nil
	}

	logger.WarnCtx(ctx, "Upstream session expired, waiting for manual login",
		zap.String("siteId", siteID),
		zap.Duration("wait", w.config.LoginWait),
	)
	if err := adapter.SleepContext(ctx, w.clock, w.config.LoginWait); err != nil {
		return false, err
	}

	if err := page.Evaluate(ctx, loginFormScript, &needsLogin); err != nil {
		return false, fmt.Errorf("failed to detect login form: %w", err)
	}
	return !needsLogin, nil
}

// poll waits for RequiredClearChecks consecutive checks without placeholders
func (w *chromeWaker) poll(ctx context.Context, page adapter.BrowserPage, siteID string) (*Result, error) {
	if err := adapter.SleepContext(ctx, w.clock, w.config.InitialDelay); err != nil {
		return nil, err
	}

	clearChecks := 0
	for attempt := 1; attempt <= w.config.MaxAttempts; attempt++ {
		if err := adapter.SleepContext(ctx, w.clock, w.config.PollInterval); err != nil {
			return nil, err
		}

		placeholders, err := w.countPlaceholders(ctx, page)
		if err != nil {
			return nil, err
		}

		logger.DebugCtx(ctx, "Wake-up check",
			zap.String("siteId", siteID),
			zap.Int("attempt", attempt),
			zap.Int("placeholders", placeholders),
		)

		if placeholders > 0 {
			clearChecks = 0
			continue
		}

		clearChecks++
		if clearChecks >= w.config.RequiredClearChecks {
			if err := adapter.SleepContext(ctx, w.clock, w.config.FinalBuffer); err != nil {
				return nil, err
			}
			logger.InfoCtx(ctx, "Site woke up", zap.String("siteId", siteID), zap.Int("checks", attempt))
			return &Result{Awake: true, Checks: attempt}, nil
		}
	}

	return &Result{
		Reason: fmt.Sprintf("placeholders remain after %d checks", w.config.MaxAttempts),
		Checks: w.config.MaxAttempts,
	}, nil
}

func (w *chromeWaker) countPlaceholders(ctx context.Context, page adapter.BrowserPage) (int, error) {
	var count int
	if err := page.Evaluate(ctx, placeholderCountScript, &count); err != nil {
		return 0, fmt.Errorf("failed to count placeholder images: %w", err)
	}
	return count, nil
}

// WakeURL fills the {siteId} placeholder of template
func WakeURL(template, siteID string) string {
	if template == "" {
		template = domain.DEFAULT_WAKE_UP_URL
	}
	return strings.ReplaceAll(template, "{siteId}", siteID)
}
