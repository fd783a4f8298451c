package config

import (
	"os"
)

type Config struct {
	Port   string
	DBPath string

	// UseSampleData seeds the message store with demo conversations when
	// it is empty, so a fresh checkout serves a non-empty dashboard.
	UseSampleData bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config
func Load() *Config {
	return &Config{
		Port:          getEnv("FITNESSPRO_PORT", "3000"),
		DBPath:        getEnv("FITNESSPRO_DB_PATH", "storages/fitnesspro.db"),
		UseSampleData: getBoolEnv("FITNESSPRO_USE_SAMPLE_DATA", true),
	}
}
