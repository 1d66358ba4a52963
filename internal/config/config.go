package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"lingualive/internal/domain"
	"lingualive/internal/languages"
)

// Config stores runtime configuration for the application.
type Config struct {
	Translator TranslatorConfig
	Slots      SlotsConfig
}

type TranslatorConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type SlotsConfig struct {
	User1 domain.SlotSettings
	User2 domain.SlotSettings
}

// Load resolves configuration from environment variables and sensible
// defaults. Invalid language codes and gender tags fall back to defaults
// rather than failing startup.
func Load() (Config, error) {
	cfg := Config{
		Translator: TranslatorConfig{
			BaseURL: envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   envOrDefault("LINGUALIVE_TRANSLATOR_MODEL", "llama3.1"),
			Timeout: time.Duration(envOrDefaultInt("LINGUALIVE_TRANSLATOR_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Slots: SlotsConfig{
			User1: domain.SlotSettings{
				Language: envLanguage("LINGUALIVE_USER1_LANGUAGE", "en"),
				Gender:   envGender("LINGUALIVE_USER1_GENDER", domain.GenderAny),
			},
			User2: domain.SlotSettings{
				Language: envLanguage("LINGUALIVE_USER2_LANGUAGE", "tr"),
				Gender:   envGender("LINGUALIVE_USER2_GENDER", domain.GenderAny),
			},
		},
	}

	if cfg.Translator.Timeout <= 0 {
		cfg.Translator.Timeout = 30 * time.Second
	}
	return cfg, nil
}

func envLanguage(key string, fallback string) string {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if languages.Known(value) {
		return value
	}
	return fallback
}

func envGender(key string, fallback domain.Gender) domain.Gender {
	value := domain.Gender(strings.TrimSpace(strings.ToLower(os.Getenv(key))))
	if value.Valid() {
		return value
	}
	return fallback
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
