package sites

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/BrowserProxyAPI/internal/browser"
)

const (
	duckduckgoURL              = "https://duck.ai/"
	duckduckgoSubmitSelector   = `button[type="submit"][aria-label="Send"]`
	duckduckgoTextareaSelector = "textarea"
	duckduckgoAnswerSelector   = "div[heading]"
)

type duckduckgo struct {
	session *browser.Session
}

func newDuckDuckGo(session *browser.Session) browser.Driver {
	return &duckduckgo{session: session}
}

func (d *duckduckgo) Name() string { return "duckduckgo" }

func (d *duckduckgo) Initialize(ctx context.Context) error {
	log.Info("initializing browser for DuckDuckGo...")
	tab := d.session.Context()
	if err := chromedp.Run(tab, chromedp.Navigate(duckduckgoURL)); err != nil {
		return err
	}
	if err := browser.WaitUntilReady(ctx, func(context.Context) bool {
		return browser.ElementExists(tab, duckduckgoSubmitSelector)
	}); err != nil {
		return err
	}
	log.Info("browser initialized")
	return nil
}

func (d *duckduckgo) Send(ctx context.Context, prompt string) (string, error) {
	log.Debug("send request to chatbot interface")
	tab := d.session.Context()

	if err := browser.InsertPrompt(tab, duckduckgoTextareaSelector, prompt); err != nil {
		return "", err
	}
	if err := browser.WaitForSelector(tab, duckduckgoSubmitSelector, submitTimeout); err != nil {
		return "", err
	}
	log.Debug("push submit button")
	// Duck.ai can render more than one send control; the newest one is live.
	if err := browser.ClickLast(tab, duckduckgoSubmitSelector); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
	}

	if err := browser.WaitForSelector(tab, duckduckgoSubmitSelector, submitTimeout); err != nil {
		return "", err
	}

	return browser.ExtractWithRetries(ctx, extractAttempts, func(context.Context) (string, error) {
		html, err := browser.LastOuterHTML(tab, duckduckgoAnswerSelector)
		if err != nil || html == "" {
			return "", err
		}
		return cleanDuckDuckGoAnswer(html)
	})
}

// cleanDuckDuckGoAnswer normalizes line endings on top of the standard code
// fencing; duck.ai keeps its markup otherwise plain.
func cleanDuckDuckGoAnswer(html string) (string, error) {
	doc, err := parseFragment(html)
	if err != nil {
		return "", err
	}
	fenceCodeBlocks(doc)
	return strings.ReplaceAll(flattenText(doc), "\r\n", "\n"), nil
}
