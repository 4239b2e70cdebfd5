package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	DBPath    string
	PhotoPath string
	LogLevel  string
	LogFile   string
}

// Load reads configuration from the environment. Paths default to a
// "travellog" directory under the user's home so the store stays
// app-private.
func Load() *Config {
	return &Config{
		DBPath:    getEnv("TRAVELLOG_DB_PATH", defaultPath("travellog.db")),
		PhotoPath: getEnv("TRAVELLOG_PHOTO_PATH", defaultPath("photos")),
		LogLevel:  getEnv("TRAVELLOG_LOG_LEVEL", "info"),
		LogFile:   getEnv("TRAVELLOG_LOG_FILE", ""),
	}
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "travellog", name)
	}
	return filepath.Join(home, ".travellog", name)
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
