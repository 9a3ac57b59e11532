package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/tka-exam-bot/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env       string
		debugging bool
	}{
		{"production", false},
		{"local", true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			lg, err := New(&config.Config{Env: tt.env})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := lg.Core().Enabled(zapcore.DebugLevel); got != tt.debugging {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugging)
			}
		})
	}
}
