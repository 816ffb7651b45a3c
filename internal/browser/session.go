// Package browser owns the single rendering session the proxy drives: one
// Chrome tab attached through the DevTools protocol. It also defines the
// Driver contract that per-site packages implement, plus the shared polling,
// typing and extraction helpers those drivers are built from.
package browser

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/BrowserProxyAPI/internal/config"
)

// Session is the live browser context all site drivers operate against. It is
// stateful and single-tenant: one tab, one logical conversation, shared across
// every request for the life of the process.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession launches a visible (non-headless) Chrome and attaches one tab.
// The target chat sites gate on automation fingerprints, so the allocator
// mirrors the usual stealth flags and presents the configured user agent.
func NewSession(cfg *config.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-extensions", false),
		chromedp.UserAgent(cfg.BrowserUserAgent),
	)
	if cfg.UseBrowserProfile {
		profilePath, err := filepath.Abs(cfg.BrowserProfilePath)
		if err != nil {
			return nil, err
		}
		if err = os.MkdirAll(profilePath, 0o755); err != nil {
			return nil, err
		}
		opts = append(opts, chromedp.UserDataDir(profilePath))
		log.Debugf("using browser profile at %s", profilePath)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Materialize the browser process now rather than on the first action,
	// so a missing Chrome binary surfaces at startup.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, err
	}

	return &Session{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

// Context returns the tab context chromedp actions run against.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}
