// Package main provides the entry point for the browser chat proxy. The
// server exposes an OpenAI-compatible chat-completions API backed by a real
// browser tab driven against a consumer chat website, for tools that speak
// the API protocol against services that have no official one.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/BrowserProxyAPI/internal/api"
	"github.com/router-for-me/BrowserProxyAPI/internal/browser"
	"github.com/router-for-me/BrowserProxyAPI/internal/buildinfo"
	"github.com/router-for-me/BrowserProxyAPI/internal/config"
	"github.com/router-for-me/BrowserProxyAPI/internal/conversation"
	"github.com/router-for-me/BrowserProxyAPI/internal/logging"
	"github.com/router-for-me/BrowserProxyAPI/internal/sites"
	"github.com/router-for-me/BrowserProxyAPI/internal/updates"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	fmt.Printf("BrowserProxyAPI Version: %s, Commit: %s, BuiltAt: %s\n",
		buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)

	// A .env next to the binary may carry overrides; absence is fine.
	_ = godotenv.Load()

	var (
		configPath        = flag.String("config", config.DefaultConfigPath, "Path to the config file")
		chatbot           = flag.String("chatbot", "", "Chatbot to connect to (available: "+joinNames()+")")
		host              = flag.String("host", "", "Host to bind the proxy to")
		port              = flag.Int("port", 0, "Port to bind the proxy to")
		stream            = flag.Bool("stream", false, "Stream responses as server-sent events")
		useBrowserProfile = flag.Bool("use-browser-profile", false, "Use a persistent browser profile")
		profilePath       = flag.String("profile-path", "", "Path to the browser profile")
		userAgent         = flag.String("user-agent", "", "Browser user agent to present")
		verbosity         = flag.Int("verbosity", 0, "Log verbosity (0 error, 1 warn, 2 info, 3 debug)")
		logToFile         = flag.Bool("log-to-file", false, "Mirror logs into a rotated file")
		showVersion       = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Flags beat the config file, but only the ones actually passed.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chatbot":
			cfg.Chatbot = *chatbot
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "stream":
			cfg.Stream = *stream
		case "use-browser-profile":
			cfg.UseBrowserProfile = *useBrowserProfile
		case "profile-path":
			cfg.BrowserProfilePath = *profilePath
		case "user-agent":
			cfg.BrowserUserAgent = *userAgent
		case "verbosity":
			cfg.Verbosity = *verbosity
		case "log-to-file":
			cfg.LogToFile = *logToFile
		}
	})

	logging.SetVerbosity(cfg.Verbosity)
	if cfg.LogToFile {
		if err = logging.EnableFileOutput(cfg.LogDir); err != nil {
			log.Warnf("file logging unavailable: %v", err)
		}
	}
	log.Debugf("config initialized: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go updates.NotifyIfOutdated(ctx)

	session, err := browser.NewSession(cfg)
	if err != nil {
		log.Fatalf("launch browser: %v", err)
	}
	defer session.Close()

	driver, err := sites.New(cfg.Chatbot, session)
	if err != nil {
		log.Fatalf("select chatbot: %v", err)
	}
	// Blocks until the chat interface is usable; a human may need to finish
	// logging in inside the opened browser first.
	if err = driver.Initialize(ctx); err != nil {
		log.Fatalf("initialize %s driver: %v", driver.Name(), err)
	}

	memory := conversation.NewMemory()
	server := api.New(cfg, driver, memory)

	config.Watch(ctx, *configPath, server.ApplyConfig)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err = <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}
}

func joinNames() string {
	return strings.Join(sites.Names(), ", ")
}
