package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch reloads the config file whenever it changes on disk and hands the
// fresh Config to onChange. Only the caller decides which settings are safe to
// re-apply at runtime (log verbosity and the streaming toggle are; the bind
// address and the driven site are not).
//
// Watching is best-effort: if the watcher cannot be created the function logs
// and returns, leaving the startup configuration in effect.
func Watch(ctx context.Context, path string, onChange func(*Config)) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnf("config watcher unavailable: %v", err)
		return
	}

	// Watch the directory rather than the file so editors that replace the
	// file on save (rename + create) keep being observed.
	dir := filepath.Dir(path)
	if err = watcher.Add(dir); err != nil {
		log.Warnf("watch %s: %v", dir, err)
		_ = watcher.Close()
		return
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		target := filepath.Clean(path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, errLoad := Load(path)
				if errLoad != nil {
					log.Warnf("config reload failed: %v", errLoad)
					continue
				}
				log.Infof("config file %s reloaded", path)
				onChange(cfg)
			case errWatch, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("config watcher error: %v", errWatch)
			}
		}
	}()
}
