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
	mistralURL              = "https://chat.mistral.ai/"
	mistralSubmitSelector   = `button[type="submit"]`
	mistralTextareaSelector = `textarea[name="message.text"]`
	mistralAnswerSelector   = "div.prose"
)

type mistral struct {
	session *browser.Session
}

func newMistral(session *browser.Session) browser.Driver {
	return &mistral{session: session}
}

func (d *mistral) Name() string { return "mistral" }

func (d *mistral) Initialize(ctx context.Context) error {
	log.Info("initializing browser for Mistral...")
	tab := d.session.Context()
	if err := chromedp.Run(tab, chromedp.Navigate(mistralURL)); err != nil {
		return err
	}
	if err := browser.WaitUntilReady(ctx, func(context.Context) bool {
		return browser.ElementExists(tab, mistralSubmitSelector)
	}); err != nil {
		return err
	}
	log.Info("browser initialized")
	return nil
}

func (d *mistral) Send(ctx context.Context, prompt string) (string, error) {
	log.Debug("send request to chatbot interface")
	tab := d.session.Context()

	if err := browser.InsertPrompt(tab, mistralTextareaSelector, prompt); err != nil {
		return "", err
	}
	if err := browser.WaitForSelector(tab, mistralSubmitSelector, submitTimeout); err != nil {
		return "", err
	}
	log.Debug("push submit button")
	if err := chromedp.Run(tab, chromedp.Click(mistralSubmitSelector, chromedp.ByQuery)); err != nil {
		return "", err
	}

	// Short delay so the in-flight state is visible before the wait below.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
	}

	// The submit control reappearing is the generation-finished signal.
	if err := browser.WaitForSelector(tab, mistralSubmitSelector, submitTimeout); err != nil {
		return "", err
	}

	return browser.ExtractWithRetries(ctx, extractAttempts, func(context.Context) (string, error) {
		html, err := browser.LastOuterHTML(tab, mistralAnswerSelector)
		if err != nil || html == "" {
			return "", err
		}
		return cleanMistralAnswer(html)
	})
}

// cleanMistralAnswer strips the sticky code-block toolbars Mistral renders
// above each snippet, then fences the code itself.
func cleanMistralAnswer(html string) (string, error) {
	doc, err := parseFragment(html)
	if err != nil {
		return "", err
	}
	doc.Find("div.sticky").Each(func(_ int, s *goquery.Selection) {
		s.Empty()
	})
	fenceCodeBlocks(doc)
	return flattenText(doc), nil
}
