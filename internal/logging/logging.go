// Package logging wires logrus into the proxy: base formatter setup,
// verbosity mapping, optional rotated file output, and a Gin middleware for
// request logging.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupBaseLogger configures the process-wide logrus logger. Call once from
// main before any other package logs.
func SetupBaseLogger() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

// SetVerbosity maps the numeric verbosity knob onto logrus levels:
// 0 error, 1 warn, 2 info, 3 and above debug.
func SetVerbosity(verbosity int) {
	switch {
	case verbosity <= 0:
		log.SetLevel(log.ErrorLevel)
	case verbosity == 1:
		log.SetLevel(log.WarnLevel)
	case verbosity == 2:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.DebugLevel)
	}
}

// EnableFileOutput mirrors log output into a size-rotated file under dir in
// addition to stdout.
func EnableFileOutput(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "proxy.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return nil
}
