package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)

				assert.Equal(t, "LENS", cfg.Report.LotOffsetPrefix)
				assert.Equal(t, "LENS", cfg.Report.DefaultPhotographer)
				assert.Equal(t, 3*time.Hour, cfg.Report.TimezoneOffset)
				assert.False(t, cfg.Report.Strict)
				assert.Equal(t, "pt-BR", cfg.Report.Locale)
				assert.Equal(t, "auto", cfg.Report.InputCharset)
				assert.Equal(t, int64(5<<20), cfg.Report.MaxInputBytes)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"LOTE_SERVER_PORT":              "9090",
				"LOTE_REPORT_STRICT":            "true",
				"LOTE_REPORT_TIMEZONE_OFFSET":   "2h",
				"LOTE_SECURITY_ALLOWED_ORIGINS": "http://a.example,http://b.example",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.True(t, cfg.Report.Strict)
				assert.Equal(t, 2*time.Hour, cfg.Report.TimezoneOffset)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "LENS", cfg.Report.LotOffsetPrefix)
			},
		},
		{
			name: "file overlays defaults",
			file: `
server:
  port: 7000
report:
  lot_offset_prefix: FOTO
  timezone_offset: 0s
  locale: en-US
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "FOTO", cfg.Report.LotOffsetPrefix)
				assert.Equal(t, time.Duration(0), cfg.Report.TimezoneOffset)
				assert.Equal(t, "en-US", cfg.Report.Locale)
			},
		},
		{
			name: "environment wins over file",
			env:  map[string]string{"LOTE_SERVER_PORT": "9191"},
			file: "server:\n  port: 7000\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"LOTE_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "unsupported charset",
			env:     map[string]string{"LOTE_REPORT_INPUT_CHARSET": "ebcdic"},
			wantErr: "unsupported input charset",
		},
		{
			name:    "invalid locale",
			env:     map[string]string{"LOTE_REPORT_LOCALE": "not a locale!"},
			wantErr: "invalid report locale",
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: loud\n",
			wantErr: "invalid log level",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"LOTE_REPORT_STRICT": "maybe"},
			wantErr: "failed to load config from env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.Output = "syslog"
	cfg.Report.DefaultPhotographer = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "LENS", cfg.Report.DefaultPhotographer)
}

func TestServerAddress(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Address())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Address())
}

func TestLogFilePath(t *testing.T) {
	cfg := Default()
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "nested", "app.log")
	assert.Equal(t, cfg.Logging.FilePath, cfg.LogFilePath())

	cfg.Logging.Output = "file"
	require.NoError(t, cfg.EnsureLogDir())
	assert.DirExists(t, filepath.Dir(cfg.Logging.FilePath))
}

func TestConfigFileEnvOverride(t *testing.T) {
	t.Setenv("LOTE_CONFIG_FILE", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", getConfigFilePath())
}
