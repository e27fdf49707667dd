package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "SESSION_SECRET", "DB_DSN", "LOG_LEVEL", "LOG_FILE", "THREATS_FILE", "MAX_UPLOAD_MB"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.GeneratedSecret)
	assert.Len(t, cfg.SessionSecret, 64)
	assert.Empty(t, cfg.DBDSN)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("THREATS_FILE", "threats.xlsx")
	t.Setenv("MAX_UPLOAD_MB", "25")

	cfg := Load()
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.False(t, cfg.GeneratedSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "threats.xlsx", cfg.ThreatsFile)
	assert.Equal(t, int64(25), cfg.MaxUploadMB)
}

func TestLoadIgnoresBadUploadLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "-3")
	assert.Equal(t, int64(10), Load().MaxUploadMB)

	t.Setenv("MAX_UPLOAD_MB", "lots")
	assert.Equal(t, int64(10), Load().MaxUploadMB)
}

func TestLoadClampsUploadLimit(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int64
	}{
		{"at_limit", "1024", MaxUploadLimitMB},
		{"above_limit", "4096", MaxUploadLimitMB},
		{"overflowing_shift", "9223372036854775807", MaxUploadLimitMB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_UPLOAD_MB", tt.env)
			cfg := Load()
			assert.Equal(t, tt.want, cfg.MaxUploadMB)
			assert.Positive(t, cfg.MaxUploadMB<<20)
		})
	}
}
