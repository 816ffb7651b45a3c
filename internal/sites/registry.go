// Package sites contains one driver per supported chat website. Each driver
// carries the site's DOM selectors and its answer-cleanup rules; everything
// mechanical (polling, typing, extraction retries) lives in internal/browser.
package sites

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/router-for-me/BrowserProxyAPI/internal/browser"
)

const (
	// submitTimeout bounds how long a driver waits for the submit control to
	// come back after sending, which is the generation-finished signal.
	submitTimeout = 120 * time.Second

	// extractAttempts bounds answer-extraction retries: the newest answer
	// node can exist before its content is populated.
	extractAttempts = 5
)

// Factory builds a site driver bound to the shared rendering session.
type Factory func(*browser.Session) browser.Driver

var registry = map[string]Factory{
	"grok":       newGrok,
	"mistral":    newMistral,
	"gemini":     newGemini,
	"duckduckgo": newDuckDuckGo,
}

// New returns the driver registered under name. Selection happens once at
// startup; the handler never re-checks which site it is talking to.
func New(name string, session *browser.Session) (browser.Driver, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown chatbot %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(session), nil
}

// Names lists the registered site names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
