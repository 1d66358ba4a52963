package synth

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"lingualive/internal/domain"
)

func TestSpeakUnavailableEngine(t *testing.T) {
	t.Parallel()

	speaker := NewSpeaker(nil, nil)

	var got string
	speaker.Speak("hello", "en", domain.GenderAny, func(msg string) { got = msg })
	if got == "" {
		t.Fatalf("expected an error message for a missing engine")
	}

	engine := newFakeEngine()
	engine.available = false
	speaker = NewSpeaker(engine, nil)
	got = ""
	speaker.Speak("hello", "en", domain.GenderAny, func(msg string) { got = msg })
	if got == "" {
		t.Fatalf("expected an error message for an unavailable engine")
	}
	if len(engine.spoken) != 0 {
		t.Fatalf("unavailable engine must not receive utterances")
	}
}

func TestSpeakCancelsBeforeSpeaking(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{{Name: "Alice", Lang: "en-US"}}
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("first", "en", domain.GenderAny, nil)
	speaker.Speak("second", "en", domain.GenderAny, nil)

	if engine.cancelCalls < 2 {
		t.Fatalf("expected a cancel before each speak, got %d", engine.cancelCalls)
	}
	if len(engine.spoken) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(engine.spoken))
	}
	if len(engine.order) < 4 || engine.order[0] != "cancel" || engine.order[1] != "speak" {
		t.Fatalf("expected cancel-then-speak ordering, got %v", engine.order)
	}
}

func TestVoiceSelectionLanguageFilter(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{
		{Name: "Hans", Lang: "de-DE"},
		{Name: "Betul", Lang: "tr-TR"},
		{Name: "Tarkan", Lang: "tr"},
	}
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("merhaba", "tr", domain.GenderAny, nil)

	if got := engine.lastUtterance().VoiceName; got != "Betul" {
		t.Fatalf("expected first tr voice (subtag match), got %q", got)
	}
}

func TestVoiceSelectionNoLanguageMatchUsesDefault(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{{Name: "Hans", Lang: "de-DE"}}
	speaker := NewSpeaker(engine, nil)

	errored := false
	speaker.Speak("merhaba", "tr", domain.GenderFemale, func(string) { errored = true })

	if errored {
		t.Fatalf("missing language voice is not an error")
	}
	if got := engine.lastUtterance().VoiceName; got != "" {
		t.Fatalf("expected engine default voice, got %q", got)
	}
}

func TestVoiceSelectionGenderKeyword(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{
		{Name: "Türkçe Erkek Sesi", Lang: "tr-TR"},
		{Name: "Türkçe Kadın Sesi", Lang: "tr-TR"},
	}
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("merhaba", "tr", domain.GenderFemale, nil)
	if got := engine.lastUtterance().VoiceName; got != "Türkçe Kadın Sesi" {
		t.Fatalf("expected keyword-matched female voice, got %q", got)
	}

	speaker.Speak("merhaba", "tr", domain.GenderMale, nil)
	if got := engine.lastUtterance().VoiceName; got != "Türkçe Erkek Sesi" {
		t.Fatalf("expected keyword-matched male voice, got %q", got)
	}
}

func TestVoiceSelectionGenericKeywordFallback(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{
		{Name: "Google UK English Male", Lang: "en-GB"},
		{Name: "Google UK English Female", Lang: "en-GB"},
	}
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("hello", "en", domain.GenderFemale, nil)
	if got := engine.lastUtterance().VoiceName; got != "Google UK English Female" {
		t.Fatalf("expected generic keyword match, got %q", got)
	}
}

func TestVoiceSelectionGenderMissFallsBackToFirst(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{
		{Name: "Voice One", Lang: "en-US"},
		{Name: "Voice Two", Lang: "en-US"},
	}
	speaker := NewSpeaker(engine, nil)

	errored := false
	speaker.Speak("hello", "en", domain.GenderMale, func(string) { errored = true })

	if errored {
		t.Fatalf("gender miss is a soft fallback, not an error")
	}
	if got := engine.lastUtterance().VoiceName; got != "Voice One" {
		t.Fatalf("expected first filtered voice, got %q", got)
	}
}

func TestSpeakDefersUntilVoicesReady(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("hello", "en", domain.GenderAny, nil)
	if len(engine.spoken) != 0 {
		t.Fatalf("expected utterance to be parked while voices are empty")
	}
	if engine.listenerCount() != 1 {
		t.Fatalf("expected one voices listener, got %d", engine.listenerCount())
	}

	engine.setVoices([]domain.Voice{{Name: "Alice", Lang: "en-US"}})

	if len(engine.spoken) != 1 {
		t.Fatalf("expected parked utterance to be spoken, got %d", len(engine.spoken))
	}
	if got := engine.lastUtterance().VoiceName; got != "Alice" {
		t.Fatalf("expected selection to run after voices loaded, got %q", got)
	}
	if engine.listenerCount() != 0 {
		t.Fatalf("voices listener must be detached after firing once")
	}

	// A later notification must not replay anything.
	engine.setVoices([]domain.Voice{{Name: "Bob", Lang: "en-US"}})
	if len(engine.spoken) != 1 {
		t.Fatalf("one-shot listener fired twice")
	}
}

func TestNewerSpeakReplacesParkedUtterance(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("first", "en", domain.GenderAny, nil)
	speaker.Speak("second", "en", domain.GenderAny, nil)

	engine.setVoices([]domain.Voice{{Name: "Alice", Lang: "en-US"}})

	if len(engine.spoken) != 1 {
		t.Fatalf("expected only the latest parked utterance, got %d", len(engine.spoken))
	}
	if got := engine.lastUtterance().Text; got != "second" {
		t.Fatalf("expected last-writer-wins, got %q", got)
	}
}

func TestDirectSpeakSupersedesParkedUtterance(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("stale", "en", domain.GenderAny, nil)
	if engine.listenerCount() != 1 {
		t.Fatalf("expected the first utterance to be parked")
	}

	// Voices become enumerable before the change notification dispatches,
	// so the next Speak goes direct while the old listener is still alive.
	engine.setVoicesQuietly([]domain.Voice{{Name: "Alice", Lang: "en-US"}})
	speaker.Speak("fresh", "en", domain.GenderAny, nil)

	if engine.listenerCount() != 0 {
		t.Fatalf("a direct speak must detach the stale voices listener")
	}

	engine.fireListeners()

	spoken := engine.spokenTexts()
	if len(spoken) != 1 || spoken[0] != "fresh" {
		t.Fatalf("last audible utterance must be the newest Speak, got %v", spoken)
	}
}

func TestVoiceSelectionNeutralUsesFirstVoiceQuietly(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{
		{Name: "Google UK English Female", Lang: "en-GB"},
		{Name: "Google UK English Male", Lang: "en-GB"},
	}
	var logs bytes.Buffer
	speaker := NewSpeaker(engine, slog.New(slog.NewTextHandler(&logs, nil)))

	speaker.Speak("hello", "en", domain.GenderNeutral, nil)

	if got := engine.lastUtterance().VoiceName; got != "Google UK English Female" {
		t.Fatalf("neutral preference takes the first language voice, got %q", got)
	}
	if strings.Contains(logs.String(), "no voice matched") {
		t.Fatalf("neutral preference must not warn about a gender miss: %s", logs.String())
	}
}

func TestCancelDropsParkedUtterance(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	speaker := NewSpeaker(engine, nil)

	speaker.Speak("first", "en", domain.GenderAny, nil)
	speaker.Cancel()
	engine.setVoices([]domain.Voice{{Name: "Alice", Lang: "en-US"}})

	if len(engine.spoken) != 0 {
		t.Fatalf("cancelled parked utterance must not be spoken")
	}
	if engine.listenerCount() != 0 {
		t.Fatalf("cancel must detach the voices listener")
	}
}

func TestUtteranceErrorIsHumanized(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.voices = []domain.Voice{{Name: "Alice", Lang: "en-US"}}
	engine.utteranceErr = "language-unavailable"
	speaker := NewSpeaker(engine, nil)

	var got string
	speaker.Speak("hello", "en", domain.GenderAny, func(msg string) { got = msg })

	if got == "" || got == "language-unavailable" {
		t.Fatalf("expected a human-readable message, got %q", got)
	}
}

type fakeEngine struct {
	mu           sync.Mutex
	available    bool
	voices       []domain.Voice
	spoken       []domain.Utterance
	cancelCalls  int
	order        []string
	utteranceErr string

	listeners    map[int]func()
	nextListener int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{available: true, listeners: make(map[int]func())}
}

func (f *fakeEngine) Available() bool { return f.available }

func (f *fakeEngine) Voices() []domain.Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Voice, len(f.voices))
	copy(out, f.voices)
	return out
}

func (f *fakeEngine) OnVoicesChanged(fn func()) func() {
	f.mu.Lock()
	id := f.nextListener
	f.nextListener++
	f.listeners[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeEngine) Speak(utt domain.Utterance, onError func(string)) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, utt)
	f.order = append(f.order, "speak")
	errCode := f.utteranceErr
	f.mu.Unlock()
	if errCode != "" && onError != nil {
		onError(errCode)
	}
	return nil
}

func (f *fakeEngine) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	f.order = append(f.order, "cancel")
}

func (f *fakeEngine) setVoices(voices []domain.Voice) {
	f.setVoicesQuietly(voices)
	f.fireListeners()
}

// setVoicesQuietly updates the list without notifying, modeling the window
// where voices are already enumerable but the changed dispatch has not run.
func (f *fakeEngine) setVoicesQuietly(voices []domain.Voice) {
	f.mu.Lock()
	f.voices = voices
	f.mu.Unlock()
}

func (f *fakeEngine) fireListeners() {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeEngine) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *fakeEngine) spokenTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.spoken))
	for _, utt := range f.spoken {
		out = append(out, utt.Text)
	}
	return out
}

func (f *fakeEngine) lastUtterance() domain.Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.spoken) == 0 {
		return domain.Utterance{}
	}
	return f.spoken[len(f.spoken)-1]
}
