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
	geminiURL              = "https://aistudio.google.com/prompts/new_chat?pli=1"
	geminiSubmitSelector   = "button.run-button"
	geminiTextareaSelector = "textarea"
	geminiAnswerSelector   = `div[class*="turn-content"]`
)

type gemini struct {
	session *browser.Session
}

func newGemini(session *browser.Session) browser.Driver {
	return &gemini{session: session}
}

func (d *gemini) Name() string { return "gemini" }

func (d *gemini) Initialize(ctx context.Context) error {
	log.Info("initializing browser for Gemini...")
	tab := d.session.Context()
	if err := chromedp.Run(tab, chromedp.Navigate(geminiURL)); err != nil {
		return err
	}
	if err := browser.WaitUntilReady(ctx, func(context.Context) bool {
		return browser.ElementExists(tab, geminiSubmitSelector)
	}); err != nil {
		return err
	}
	log.Info("browser initialized")
	return nil
}

func (d *gemini) Send(ctx context.Context, prompt string) (string, error) {
	log.Debug("send request to chatbot interface")
	tab := d.session.Context()

	if err := browser.InsertPrompt(tab, geminiTextareaSelector, prompt); err != nil {
		return "", err
	}
	if err := browser.WaitForSelector(tab, geminiSubmitSelector, submitTimeout); err != nil {
		return "", err
	}
	log.Debug("push submit button")
	if err := chromedp.Run(tab, chromedp.Click(geminiSubmitSelector, chromedp.ByQuery)); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
	}

	if err := browser.WaitForSelector(tab, geminiSubmitSelector, submitTimeout); err != nil {
		return "", err
	}

	return browser.ExtractWithRetries(ctx, extractAttempts, func(context.Context) (string, error) {
		html, err := browser.LastOuterHTML(tab, geminiAnswerSelector)
		if err != nil || html == "" {
			return "", err
		}
		return cleanGeminiAnswer(html)
	})
}

// cleanGeminiAnswer reduces AI Studio's syntax-highlighted wrappers to their
// bare code elements before fencing, dropping line-number gutters and copy
// buttons.
func cleanGeminiAnswer(html string) (string, error) {
	doc, err := parseFragment(html)
	if err != nil {
		return "", err
	}
	doc.Find("div.syntax-highlighted-code").Each(func(_ int, s *goquery.Selection) {
		code := s.Find("code")
		s.Empty()
		s.AppendSelection(code)
	})
	fenceCodeBlocks(doc)
	return flattenText(doc), nil
}
