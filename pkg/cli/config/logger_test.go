package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/learnmap-dev/learnmap/pkg/cli/config"
	"github.com/learnmap-dev/learnmap/pkg/utils/logging"
)

func TestLoggerConfigure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"console info", "info", "console", false},
		{"json debug", "debug", "json", false},
		{"warn level", "warn", "console", false},
		{"error level", "error", "json", false},
		{"invalid level", "verbose", "console", true},
		{"invalid format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewLoggerForTest(tt.level, tt.format, "stdout")
			closer, err := cfg.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			closer()
		})
	}
}

func TestLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := config.NewLoggerForTest("info", "json", path)

	closer, err := cfg.Configure()
	gt.NoError(t, err).Required()

	logging.Default().Info("hello from test", "key", "value")
	closer()

	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("hello from test")
}

func TestGeminiConfigureUnset(t *testing.T) {
	cfg := config.NewGeminiForTest("", "us-central1")
	client, err := cfg.Configure(t.Context())
	gt.NoError(t, err)
	gt.Value(t, client).Nil()
}
