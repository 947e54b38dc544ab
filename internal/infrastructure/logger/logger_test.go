package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"painting-demo/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"DEBUG": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"loud":  zerolog.InfoLevel,
	}
	for raw, want := range tests {
		if got := parseLevel(raw); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNew_AppliesLevel(t *testing.T) {
	log := New(&config.Config{ServiceName: "map-painting", Environment: "test", LogLevel: "error"})
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("unexpected level: %v", log.GetLevel())
	}
}
