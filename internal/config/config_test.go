package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"REPORT_CONFIG_FILE",
	"REPORT_SERVER_PORT", "REPORT_SERVER_READ_TIMEOUT", "REPORT_SERVER_MAX_UPLOAD_BYTES",
	"REPORT_SECURITY_ALLOWED_ORIGINS", "REPORT_SECURITY_ENABLE_CORS",
	"REPORT_LOGGING_LEVEL", "REPORT_LOGGING_OUTPUT",
	"REPORT_PATHS_REFERENCE_FILE",
	"REPORT_TELEMETRY_TRACE_EXPORTER",
}

// isolateEnv clears every variable Load reads and runs the test from an
// empty directory so no stray config.yaml or .env is picked up.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string)
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.False(t, cfg.HasReferenceFile())
			},
		},
		{
			name: "environment overrides defaults",
			setup: func(t *testing.T, dir string) {
				t.Setenv("REPORT_SERVER_PORT", "9090")
				t.Setenv("REPORT_SERVER_READ_TIMEOUT", "45s")
				t.Setenv("REPORT_SECURITY_ALLOWED_ORIGINS", "http://a.test,http://b.test")
				t.Setenv("REPORT_PATHS_REFERENCE_FILE", "/srv/MOP LIST.xlsx")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.HasReferenceFile())
				assert.Equal(t, "/srv/MOP LIST.xlsx", cfg.Paths.ReferenceFile)
			},
		},
		{
			name: "yaml file overlays defaults",
			setup: func(t *testing.T, dir string) {
				content := "server:\n  port: 7000\n  write_timeout: 90s\nlogging:\n  level: debug\n"
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "env takes precedence over file",
			setup: func(t *testing.T, dir string) {
				content := "server:\n  port: 7000\n"
				path := filepath.Join(dir, "custom.yaml")
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
				t.Setenv("REPORT_CONFIG_FILE", path)
				t.Setenv("REPORT_SERVER_PORT", "7100")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7100, cfg.Server.Port)
			},
		},
		{
			name: "dotenv file populates the environment",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REPORT_LOGGING_LEVEL=warn\n"), 0644))
				t.Cleanup(func() { os.Unsetenv("REPORT_LOGGING_LEVEL") })
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name: "invalid port",
			setup: func(t *testing.T, dir string) {
				t.Setenv("REPORT_SERVER_PORT", "70000")
			},
			wantErr: true,
		},
		{
			name: "unparseable env value",
			setup: func(t *testing.T, dir string) {
				t.Setenv("REPORT_SERVER_READ_TIMEOUT", "soon")
			},
			wantErr: true,
		},
		{
			name: "malformed yaml",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0644))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolateEnv(t)
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(*Config) {},
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadBytes = 0 },
			wantErr: "max upload bytes",
		},
		{
			name:    "cors without origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "unknown log output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: "logging output",
		},
		{
			name:    "unknown trace exporter",
			mutate:  func(c *Config) { c.Telemetry.TraceExporter = "otlp" },
			wantErr: "trace exporter",
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SampleRatio = 2 },
			wantErr: "sample ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDefaultsLogFile(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	require.NoError(t, cfg.validate())
	assert.Equal(t, filepath.Join("logs", "app.log"), cfg.Logging.FilePath)
}
