package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingualive/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("LINGUALIVE_TRANSLATOR_MODEL", "")
	t.Setenv("LINGUALIVE_TRANSLATOR_TIMEOUT_MS", "")
	t.Setenv("LINGUALIVE_USER1_LANGUAGE", "")
	t.Setenv("LINGUALIVE_USER2_LANGUAGE", "")
	t.Setenv("LINGUALIVE_USER1_GENDER", "")
	t.Setenv("LINGUALIVE_USER2_GENDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.Translator.BaseURL)
	assert.Equal(t, "llama3.1", cfg.Translator.Model)
	assert.Equal(t, 30*time.Second, cfg.Translator.Timeout)
	assert.Equal(t, domain.SlotSettings{Language: "en", Gender: domain.GenderAny}, cfg.Slots.User1)
	assert.Equal(t, domain.SlotSettings{Language: "tr", Gender: domain.GenderAny}, cfg.Slots.User2)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://translator.local:11434")
	t.Setenv("LINGUALIVE_TRANSLATOR_MODEL", "qwen2.5")
	t.Setenv("LINGUALIVE_TRANSLATOR_TIMEOUT_MS", "5000")
	t.Setenv("LINGUALIVE_USER1_LANGUAGE", "fr")
	t.Setenv("LINGUALIVE_USER2_LANGUAGE", "ja")
	t.Setenv("LINGUALIVE_USER1_GENDER", "female")
	t.Setenv("LINGUALIVE_USER2_GENDER", "male")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://translator.local:11434", cfg.Translator.BaseURL)
	assert.Equal(t, "qwen2.5", cfg.Translator.Model)
	assert.Equal(t, 5*time.Second, cfg.Translator.Timeout)
	assert.Equal(t, domain.SlotSettings{Language: "fr", Gender: domain.GenderFemale}, cfg.Slots.User1)
	assert.Equal(t, domain.SlotSettings{Language: "ja", Gender: domain.GenderMale}, cfg.Slots.User2)
}

func TestLoadNormalizesCase(t *testing.T) {
	t.Setenv("LINGUALIVE_USER1_LANGUAGE", "  DE ")
	t.Setenv("LINGUALIVE_USER1_GENDER", "FEMALE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Slots.User1.Language)
	assert.Equal(t, domain.GenderFemale, cfg.Slots.User1.Gender)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("LINGUALIVE_TRANSLATOR_TIMEOUT_MS", "not-a-number")
	t.Setenv("LINGUALIVE_USER1_LANGUAGE", "klingon")
	t.Setenv("LINGUALIVE_USER2_GENDER", "robot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Translator.Timeout)
	assert.Equal(t, "en", cfg.Slots.User1.Language)
	assert.Equal(t, domain.GenderAny, cfg.Slots.User2.Gender)
}

func TestLoadNonPositiveTimeoutFallsBack(t *testing.T) {
	t.Setenv("LINGUALIVE_TRANSLATOR_TIMEOUT_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Translator.Timeout)
}
