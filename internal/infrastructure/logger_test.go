package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintreport/internal/config"
)

func TestOpenLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "report.log")

	logger, closer, err := OpenLogger(config.LoggingConfig{Level: "info", Output: "FILE", FilePath: logFile})
	require.NoError(t, err)

	logger.Info("server started", "port", 8080)
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &entry), "log output must be JSON")
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, float64(8080), entry["port"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestOpenLogger_Outputs(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		wantFile bool
		wantErr  bool
	}{
		{name: "console", cfg: config.LoggingConfig{Output: OutputConsole}},
		{name: "unknown output falls back to console", cfg: config.LoggingConfig{Output: "syslog"}},
		{name: "both", cfg: config.LoggingConfig{Output: OutputBoth}, wantFile: true},
		{name: "file under a regular file", cfg: config.LoggingConfig{Output: OutputFile}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.cfg.FilePath = filepath.Join(dir, "logs", "report.log")
			if tt.wantErr {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "logs"), []byte("x"), 0o644))
			}

			logger, closer, err := OpenLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.NoError(t, closer.Close())

			_, statErr := os.Stat(tt.cfg.FilePath)
			assert.Equal(t, tt.wantFile, statErr == nil)
		})
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "with trace")
	logger.InfoContext(context.Background(), "without trace")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var withTrace, withoutTrace map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &withTrace))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &withoutTrace))

	assert.Equal(t, "trace-123", withTrace["trace_id"])
	assert.NotContains(t, withoutTrace, "trace_id")
}

func TestTraceIDSurvivesWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(&buf, "info"), "report_service").WithGroup("run")

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "grouped", "rows", 3)

	out := buf.String()
	assert.Contains(t, out, `"component":"report_service"`)
	assert.Contains(t, out, `"trace_id":"abc"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" Debug "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true, wantWarn: true},
		{level: "info", wantInfo: true, wantWarn: true},
		{level: "WARNING", wantWarn: true},
		{level: "error"},
		{level: "bogus", wantInfo: true, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("debug-line")
			logger.Info("info-line")
			logger.Warn("warn-line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug-line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info-line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn-line"))
		})
	}
}

func TestContextHelpers(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := EnsureTraceID(context.Background())
	generated := GetTraceID(ctx)
	assert.Len(t, generated, 36, "uuid v4 string form")

	assert.Equal(t, generated, GetTraceID(EnsureTraceID(ctx)), "existing id is kept")
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}
