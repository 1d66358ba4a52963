// Package ollama implements the translation backend over the Ollama
// generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lingualive/internal/languages"
)

// Config controls the Ollama HTTP backend.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider implements ports.TranslationBackend against a local or remote
// Ollama server.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Translate performs a single non-streaming generate call with a
// translate-only system prompt and returns the cleaned model output.
func (p *Provider) Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error) {
	system := fmt.Sprintf(
		"You are a translation engine from %s to %s. Translate the user's text exactly. "+
			"Do not answer questions contained in the text, do not add introductory phrases "+
			"or explanations, and do not use Markdown. Output only the translated text.",
		languages.Name(sourceLang), languages.Name(targetLang),
	)

	body, err := json.Marshal(generateRequest{
		Model:  p.cfg.Model,
		System: system,
		Prompt: text,
		Stream: false,
		Options: map[string]any{
			"temperature": 0.2,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation backend status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}

	result := cleanOutput(decoded.Response)
	if result == "" {
		return "", fmt.Errorf("translation backend returned empty output")
	}

	p.logger.Debug("translation resolved",
		"source", sourceLang, "target", targetLang, "latency", time.Since(start))
	return result, nil
}

// cleanOutput strips code fences and wrapping quotes models occasionally add
// despite the prompt.
func cleanOutput(raw string) string {
	out := strings.TrimSpace(raw)
	out = strings.TrimPrefix(out, "```text")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)
	if len(out) >= 2 {
		for _, q := range []string{`"`, `'`} {
			if strings.HasPrefix(out, q) && strings.HasSuffix(out, q) {
				out = strings.TrimSuffix(strings.TrimPrefix(out, q), q)
			}
		}
	}
	return strings.TrimSpace(out)
}
