package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mslogs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
host: logs.internal
port: 8443
protocol: HTTPS
log_level: debug
gzip: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "logs.internal", cfg.Host)
	assert.Equal(t, 8443, cfg.Port)
	assert.Equal(t, "https", cfg.Protocol)
	assert.True(t, cfg.Gzip)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
	assert.Equal(t, "https://logs.internal:8443", cfg.URL())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "host: 10.0.0.5\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
	assert.Equal(t, "http://10.0.0.5:80", cfg.URL())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "host: logs.internal\nport: 80\n")
	t.Setenv("MSLOGS_PORT", "9000")
	t.Setenv("MSLOGS_PROTOCOL", "https")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "https", cfg.Protocol)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MSLOGS_HOST", "from-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Host)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		isLevel bool
	}{
		{
			name: "valid",
			cfg:  Config{Host: "localhost", Port: 3000, Protocol: "http"},
		},
		{
			name:    "missing host",
			cfg:     Config{Port: 3000, Protocol: "http"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			cfg:     Config{Host: "localhost", Port: 70000, Protocol: "http"},
			wantErr: true,
		},
		{
			name:    "unsupported protocol",
			cfg:     Config{Host: "localhost", Port: 3000, Protocol: "ftp"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			cfg:     Config{Host: "localhost", Port: 3000, Protocol: "http", LogLevel: "loud"},
			wantErr: true,
			isLevel: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := ValidateConfig(&cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.isLevel, errors.Is(err, ErrUnknownLogLevel))
		})
	}
}
