package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      log.Level
	}{
		{-1, log.ErrorLevel},
		{0, log.ErrorLevel},
		{1, log.WarnLevel},
		{2, log.InfoLevel},
		{3, log.DebugLevel},
		{7, log.DebugLevel},
	}
	for _, tt := range tests {
		SetVerbosity(tt.verbosity)
		if got := log.GetLevel(); got != tt.want {
			t.Errorf("SetVerbosity(%d): level = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}
