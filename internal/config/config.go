package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string
	DataDir          string
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int
	ChartWidth       int
	ChartHeight      int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DataDir:          os.Getenv("DATA_DIR"),
		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		ChartWidth:       getEnvInt("CHART_WIDTH", 960),
		ChartHeight:      getEnvInt("CHART_HEIGHT", 400),
	}

	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("DATA_DIR is required")
	}
	if cfg.ReadTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.WriteTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.IdleTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("SERVER_IDLE_TIMEOUT must be positive")
	}
	if cfg.ChartWidth < 320 || cfg.ChartWidth > 4096 {
		return Config{}, fmt.Errorf("CHART_WIDTH must be between 320 and 4096")
	}
	if cfg.ChartHeight < 240 || cfg.ChartHeight > 2160 {
		return Config{}, fmt.Errorf("CHART_HEIGHT must be between 240 and 2160")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
