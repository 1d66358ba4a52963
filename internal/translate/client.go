// Package translate normalizes the remote translation call into a result
// that is always safe to store in the conversation log.
package translate

import (
	"context"
	"log/slog"
	"strings"

	"lingualive/internal/languages"
	"lingualive/internal/ports"
)

// UnavailableSentinel is stored in place of a translation when the backend
// call fails or returns unusable output.
const UnavailableSentinel = "Translation currently unavailable. Please try again later."

// errorPrefix marks construction-boundary input errors (unknown language
// codes) surfaced through the same success-shaped channel.
const errorPrefix = "Error:"

// Result carries the resolved text for one translation request. Failure is
// signaled by sentinel prefix, never by error.
type Result struct {
	TranslatedText string
}

// Client invokes the translation backend and converts every failure mode
// into a sentinel result. It performs no same-language short-circuit; the
// orchestrator skips the call entirely in that case.
type Client struct {
	backend ports.TranslationBackend
	logger  *slog.Logger
}

func NewClient(backend ports.TranslationBackend, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{backend: backend, logger: logger}
}

// Translate resolves text from sourceLang to targetLang. It never returns an
// error: backend failures become UnavailableSentinel, unknown language codes
// become an Error-prefixed sentinel.
func (c *Client) Translate(ctx context.Context, text string, sourceLang string, targetLang string) Result {
	if !languages.Known(sourceLang) || !languages.Known(targetLang) {
		c.logger.Warn("translation rejected: unknown language code",
			"source", sourceLang, "target", targetLang)
		return Result{TranslatedText: errorPrefix + " unknown language code"}
	}
	if c.backend == nil {
		return Result{TranslatedText: UnavailableSentinel}
	}

	translated, err := c.backend.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		c.logger.Warn("translation backend failed", "error", err.Error(),
			"source", sourceLang, "target", targetLang)
		return Result{TranslatedText: UnavailableSentinel}
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		c.logger.Warn("translation backend returned empty output",
			"source", sourceLang, "target", targetLang)
		return Result{TranslatedText: UnavailableSentinel}
	}
	return Result{TranslatedText: translated}
}

// IsFailure reports whether a resolved text is one of the failure sentinels.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, UnavailableSentinel) || strings.HasPrefix(text, errorPrefix)
}
