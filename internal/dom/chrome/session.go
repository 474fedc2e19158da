package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chromedp/chromedp"
	"github.com/mj1618/slidescene/internal/dom"
)

func init() {
	dom.Register("chrome", Open)
}

// allocatorOptions returns the browser flags for a headless extraction
// session at the given viewport size.
func allocatorOptions(opts dom.Options) []chromedp.ExecAllocatorOption {
	out := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	out = append(out,
		chromedp.NoSandbox,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	return out
}

// pageURL resolves src to a navigable URL.
func pageURL(src dom.Source) (string, error) {
	if src.HTMLPath == "" {
		if src.URL == "" {
			return "", fmt.Errorf("chrome: source has neither URL nor HTML path")
		}
		return src.URL, nil
	}
	abs, err := filepath.Abs(src.HTMLPath)
	if err != nil {
		return "", fmt.Errorf("chrome: resolve %s: %w", src.HTMLPath, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// Open launches a headless browser, loads src at the configured viewport
// and waits for the WaitID element. The returned session owns the browser.
func Open(ctx context.Context, src dom.Source, opts dom.Options) (dom.Session, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("chrome: invalid viewport %dx%d", opts.Width, opts.Height)
	}
	url, err := pageURL(src)
	if err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	tab, cancelTab := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelTab()
		cancelAlloc()
	}

	slog.Debug("chrome: navigating", "url", url, "width", opts.Width, "height", opts.Height)
	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(url),
	}
	if opts.WaitID != "" {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			if opts.WaitTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.WaitTimeout)
				defer cancel()
			}
			if err := chromedp.WaitReady("#"+opts.WaitID, chromedp.ByID).Do(ctx); err != nil {
				return fmt.Errorf("wait for #%s: %w", opts.WaitID, err)
			}
			return nil
		}))
	}
	if opts.Settle > 0 {
		actions = append(actions, chromedp.Sleep(opts.Settle))
	}
	if err := chromedp.Run(tab, actions...); err != nil {
		cancel()
		return nil, fmt.Errorf("chrome: load %s: %w", url, err)
	}
	return NewDocument(tab, cancel), nil
}
