// Package server implements paced, the backend service for pace: the
// version-check API for the auto-update flow and the chat proxy to an
// OpenAI-compatible LLM API.
package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds paced settings, read from the environment. A .env file in
// the working directory is loaded first if present.
type Config struct {
	Addr              string
	DBPath            string
	DownloadURLPrefix string

	// Upstream LLM API settings.
	LLMAPIKey           string
	LLMAPIBase          string
	LLMModel            string
	LLMMaxTokens        int
	LLMTemperature      float64
	LLMTopP             float64
	LLMTopK             int
	LLMFrequencyPenalty float64
}

// LoadConfig reads configuration from .env (optional) and the environment.
func LoadConfig() Config {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	return Config{
		Addr:              getenv("PACED_ADDR", ":5010"),
		DBPath:            getenv("PACED_DB_PATH", "versions.db"),
		DownloadURLPrefix: getenv("PACED_DOWNLOAD_URL_PREFIX", ""),

		LLMAPIKey:           os.Getenv("LLM_API_KEY"),
		LLMAPIBase:          getenv("LLM_API_BASE", "https://api.siliconflow.com/v1"),
		LLMModel:            getenv("LLM_MODEL", "Pro/deepseek-ai/DeepSeek-V3"),
		LLMMaxTokens:        getenvInt("LLM_MAX_TOKENS", 512),
		LLMTemperature:      getenvFloat("LLM_TEMPERATURE", 0.7),
		LLMTopP:             getenvFloat("LLM_TOP_P", 0.7),
		LLMTopK:             getenvInt("LLM_TOP_K", 50),
		LLMFrequencyPenalty: getenvFloat("LLM_FREQUENCY_PENALTY", 0.5),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
