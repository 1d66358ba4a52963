package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBackend struct {
	result string
	err    error
	calls  int
}

func (f *fakeBackend) Translate(_ context.Context, _ string, _ string, _ string) (string, error) {
	f.calls++
	return f.result, f.err
}

func TestTranslateSuccess(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{result: "Merhaba"}
	client := NewClient(backend, nil)

	got := client.Translate(context.Background(), "Hello", "en", "tr")
	assert.Equal(t, "Merhaba", got.TranslatedText)
	assert.False(t, IsFailure(got.TranslatedText))
}

func TestTranslateTrimsOutput(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{result: "  Merhaba \n"}
	client := NewClient(backend, nil)

	got := client.Translate(context.Background(), "Hello", "en", "tr")
	assert.Equal(t, "Merhaba", got.TranslatedText)
}

func TestTranslateBackendErrorBecomesSentinel(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{err: errors.New("connection refused")}
	client := NewClient(backend, nil)

	got := client.Translate(context.Background(), "Hello", "en", "tr")
	assert.Equal(t, UnavailableSentinel, got.TranslatedText)
	assert.True(t, IsFailure(got.TranslatedText))
}

func TestTranslateEmptyOutputBecomesSentinel(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{result: "   "}
	client := NewClient(backend, nil)

	got := client.Translate(context.Background(), "Hello", "en", "tr")
	assert.Equal(t, UnavailableSentinel, got.TranslatedText)
}

func TestTranslateUnknownLanguageCode(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{result: "ignored"}
	client := NewClient(backend, nil)

	got := client.Translate(context.Background(), "Hello", "en", "xx")
	assert.True(t, IsFailure(got.TranslatedText))
	assert.Contains(t, got.TranslatedText, "Error:")
	assert.Zero(t, backend.calls, "backend must not be called for invalid codes")
}

func TestTranslateNilBackend(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, nil)
	got := client.Translate(context.Background(), "Hello", "en", "tr")
	assert.Equal(t, UnavailableSentinel, got.TranslatedText)
}

func TestIsFailure(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFailure(UnavailableSentinel))
	assert.True(t, IsFailure("Error: unknown language code"))
	assert.False(t, IsFailure("Merhaba"))
	assert.False(t, IsFailure(""))
}
