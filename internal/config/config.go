package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// MaxUploadLimitMB caps MAX_UPLOAD_MB so the byte limit cannot overflow.
const MaxUploadLimitMB = 1024

type Config struct {
	ServerPort    string
	SessionSecret string
	DBDSN         string // optional, enables the audit journal
	LogLevel      string
	LogFile       string
	ThreatsFile   string // optional file loaded at startup
	MaxUploadMB   int64

	// GeneratedSecret is set when SESSION_SECRET was missing and a random
	// one was created for this process.
	GeneratedSecret bool
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBDSN:         os.Getenv("DB_DSN"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFile:       os.Getenv("LOG_FILE"),
		ThreatsFile:   os.Getenv("THREATS_FILE"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
		cfg.GeneratedSecret = true
	}

	cfg.MaxUploadMB = 10
	if v, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_MB"), 10, 64); err == nil && v > 0 {
		cfg.MaxUploadMB = min(v, MaxUploadLimitMB)
	}

	return cfg
}

// sessions only need to survive the process lifetime, like the threats
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("config: cannot read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}
