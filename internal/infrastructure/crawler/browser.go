// Package crawler implements the source adapters that query upstream
// scam databases, either through a headless browser for client-rendered
// sites or over plain HTTP for feed endpoints.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const defaultFetchTimeout = 30 * time.Second

// BrowserConfig contains configuration for the shared browser.
type BrowserConfig struct {
	// PoolSize bounds how many pages render concurrently (default: 3)
	PoolSize int
	// DefaultTimeout for one rendered fetch
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// Headless mode (default: true)
	Headless bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// Browser owns the Chrome allocator and a bounded session pool. Rendered
// fetches block until a slot frees up; waiters are served in FIFO order.
type Browser struct {
	config      *BrowserConfig
	logger      *zap.Logger
	sem         *semaphore.Weighted
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewBrowser creates the shared browser with its session pool.
func NewBrowser(config *BrowserConfig) (*Browser, error) {
	if config == nil {
		config = &BrowserConfig{}
	}
	if config.PoolSize <= 0 {
		config.PoolSize = 3
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultFetchTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Browser{
		config: config,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(config.PoolSize)),
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if config.RemoteURL != "" {
		b.allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
	} else {
		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	return b, nil
}

// FetchRendered navigates to url in a pooled tab, waits for the marker
// selector to become visible plus an optional settle delay, and returns the
// rendered document HTML. The slot is always released, including when the
// context is cancelled while waiting for one.
func (b *Browser) FetchRendered(ctx context.Context, url, marker string, settle time.Duration) (string, error) {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for browser session: %w", err)
	}
	defer b.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, b.config.DefaultTimeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			b.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// Bound the tab by the caller's deadline; chromedp contexts do not
	// inherit it since the tab descends from the allocator context.
	tabCtx, timeoutCancel := context.WithCancel(tabCtx)
	defer timeoutCancel()
	go func() {
		select {
		case <-ctx.Done():
			timeoutCancel()
		case <-tabCtx.Done():
		}
	}()

	start := time.Now()
	actions := []chromedp.Action{chromedp.Navigate(url)}
	if marker != "" {
		actions = append(actions, chromedp.WaitVisible(marker, chromedp.ByQuery))
	}
	if settle > 0 {
		actions = append(actions, chromedp.Sleep(settle))
	}

	var rendered string
	actions = append(actions, chromedp.OuterHTML("html", &rendered, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("rendered fetch timed out after %v: %w", b.config.DefaultTimeout, err)
		}
		return "", fmt.Errorf("rendered fetch failed: %w", err)
	}

	b.logger.Debug("page rendered",
		zap.String("url", url),
		zap.Int("bytes", len(rendered)),
		zap.Duration("duration", time.Since(start)))

	return rendered, nil
}

// Close releases the Chrome allocator.
func (b *Browser) Close() error {
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}
