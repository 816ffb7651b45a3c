package sites

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/BrowserProxyAPI/internal/browser"
)

const (
	grokURL              = "https://grok.com/"
	grokSubmitSelector   = `button[type="submit"]`
	grokTextareaSelector = `textarea[aria-label="Ask Grok anything"]`
	grokAnswerSelector   = "div.message-bubble"
)

type grok struct {
	session *browser.Session
}

func newGrok(session *browser.Session) browser.Driver {
	return &grok{session: session}
}

func (d *grok) Name() string { return "grok" }

func (d *grok) Initialize(ctx context.Context) error {
	log.Info("initializing browser for Grok...")
	tab := d.session.Context()
	if err := chromedp.Run(tab, chromedp.Navigate(grokURL)); err != nil {
		return err
	}
	if err := browser.WaitUntilReady(ctx, func(context.Context) bool {
		return browser.ElementExists(tab, grokSubmitSelector)
	}); err != nil {
		return err
	}
	log.Info("browser initialized")
	return nil
}

func (d *grok) Send(ctx context.Context, prompt string) (string, error) {
	log.Debug("send request to chatbot interface")
	tab := d.session.Context()

	if err := browser.InsertPrompt(tab, grokTextareaSelector, prompt); err != nil {
		return "", err
	}
	if err := browser.WaitForSelector(tab, grokSubmitSelector, submitTimeout); err != nil {
		return "", err
	}
	log.Debug("push submit button")
	if err := chromedp.Run(tab, chromedp.Click(grokSubmitSelector, chromedp.ByQuery)); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
	}

	if err := browser.WaitForSelector(tab, grokSubmitSelector, submitTimeout); err != nil {
		return "", err
	}

	return browser.ExtractWithRetries(ctx, extractAttempts, func(context.Context) (string, error) {
		html, err := browser.LastOuterHTML(tab, grokAnswerSelector)
		if err != nil || html == "" {
			return "", err
		}
		return cleanGrokAnswer(html)
	})
}

// cleanGrokAnswer drops the per-snippet action bars Grok places inside each
// code card, then fences the code.
func cleanGrokAnswer(html string) (string, error) {
	doc, err := parseFragment(html)
	if err != nil {
		return "", err
	}
	doc.Find("div.action-buttons").Each(func(_ int, s *goquery.Selection) {
		s.Empty()
	})
	fenceCodeBlocks(doc)
	return flattenText(doc), nil
}
