// Package updates performs the startup-time release check. It is strictly
// best-effort: a failed check logs and is forgotten, it never blocks serving.
package updates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/router-for-me/BrowserProxyAPI/internal/buildinfo"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const defaultReleaseURL = "https://api.github.com/repos/router-for-me/BrowserProxyAPI/releases/latest"

// UpdateInfo describes the latest published release relative to this build.
type UpdateInfo struct {
	Available   bool   `json:"available"`
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
}

// Checker queries a release endpoint for the latest version.
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker returns a Checker against the project's GitHub releases.
func NewChecker() *Checker {
	return &Checker{
		URL:    defaultReleaseURL,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Check fetches the latest release tag and compares it to the running build.
func (c *Checker) Check(ctx context.Context) (*UpdateInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	// GitHub's API requires a User-Agent.
	req.Header.Set("User-Agent", "BrowserProxyAPI-Updater")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to check for updates: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	release := gjson.ParseBytes(body)
	latest := strings.TrimPrefix(release.Get("tag_name").String(), "v")
	current := strings.TrimPrefix(buildinfo.Version, "v")

	return &UpdateInfo{
		Available:   current != "dev" && latest != "" && latest != current,
		Version:     latest,
		DownloadURL: release.Get("html_url").String(),
	}, nil
}

// NotifyIfOutdated runs a check and logs an update notice when a newer release
// exists. Failures are logged at debug level only.
func NotifyIfOutdated(ctx context.Context) {
	info, err := NewChecker().Check(ctx)
	if err != nil {
		log.Debugf("update check failed: %v", err)
		return
	}
	if info.Available {
		log.Infof("a newer release is available: %s (%s)", info.Version, info.DownloadURL)
		log.Info("please update to the latest version")
	}
}
