package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	PhotoPath string
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads the environment after merging in envFiles (".env" when none
// are named). Variables already set in the environment take precedence and
// missing files are ignored.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	return &Config{
		DBPath:    getEnv("STOKOSOR_DB", "stokosor.db"),
		PhotoPath: getEnv("STOKOSOR_PHOTO_PATH", "photos"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
