package config

import (
	"fmt"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	ImageDir    string // directory where uploaded item pictures are stored
}

// Load builds the configuration from the environment. DATABASE_URL wins
// over the discrete DB_* variables when both are set.
func Load() *Config {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "office_supplies"),
			getEnv("DB_PORT", "5432"),
		)
	}

	return &Config{
		HTTPPort:    getEnv("PORT", "3000"),
		DatabaseDSN: dsn,
		ImageDir:    getEnv("ITEM_IMAGE_PATH", "./item-images"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
