package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// readinessInterval is how often readiness probes re-check the page while
// waiting for the chat interface (or a human login) to finish loading.
const readinessInterval = 5 * time.Second

// WaitUntilReady blocks until probe reports true, re-checking every five
// seconds forever. Startup readiness has no timeout on purpose: the tab may
// need a human to complete a login or a captcha first.
func WaitUntilReady(ctx context.Context, probe func(context.Context) bool) error {
	for !probe(ctx) {
		log.Info("waiting for chat interface to load...")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readinessInterval):
		}
	}
	return nil
}

// WaitForSelector polls for sel to exist in the page, up to timeout. It
// returns ErrAnswerTimeout when the deadline passes, which is how drivers
// detect that generation never finished.
func WaitForSelector(ctx context.Context, sel string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if ElementExists(ctx, sel) {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrAnswerTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// ElementExists reports whether at least one element matches sel right now.
func ElementExists(ctx context.Context, sel string) bool {
	var found bool
	err := chromedp.Run(ctx, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelector(%q) !== null`, sel), &found))
	return err == nil && found
}

// InsertPrompt focuses the input surface matched by sel and inserts the whole
// prompt through the DevTools input domain. Insertion (rather than key-by-key
// typing) keeps multi-line prompts from triggering early submission and is
// not rate-limited by the page's key handlers.
func InsertPrompt(ctx context.Context, sel string, prompt string) error {
	log.Debug("transferring prompt to chatbot interface")
	if err := chromedp.Run(ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Focus(sel, chromedp.ByQuery),
		input.InsertText(prompt),
	); err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	// Give the page's input handlers a beat to enable the submit control.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}
	log.Debug("prompt transferred")
	return nil
}

// LastOuterHTML returns the outerHTML of the newest element matching sel, or
// an empty string when nothing matches yet.
func LastOuterHTML(ctx context.Context, sel string) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(
		`(() => { const els = document.querySelectorAll(%q); return els.length ? els[els.length - 1].outerHTML : ""; })()`,
		sel), &html))
	if err != nil {
		return "", fmt.Errorf("extract answer element: %w", err)
	}
	return html, nil
}

// ExtractWithRetries calls extract up to attempts times, pausing a second
// between tries, until it yields non-empty text. The newest answer element is
// often present but unpopulated for the first moments after generation ends.
func ExtractWithRetries(ctx context.Context, attempts int, extract func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for remaining := attempts; remaining > 0; remaining-- {
		text, err := extract(ctx)
		if err == nil && text != "" {
			return text, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return "", lastErr
}

// ClickLast clicks the newest element matching sel.
func ClickLast(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(
		`(() => { const els = document.querySelectorAll(%q); if (els.length) els[els.length - 1].click(); })()`,
		sel), nil))
}
