// Package synth adapts the environment text-to-speech capability, selecting
// voices by language and gender preference.
package synth

import (
	"log/slog"
	"strings"
	"sync"

	"lingualive/internal/domain"
	"lingualive/internal/ports"
)

// Speaker drives the shared speech engine. Only one utterance may be queued
// or audible at a time, so every Speak cancels whatever preceded it. When
// the engine's voice list has not loaded yet, the utterance is parked and
// replayed once on the voices-ready notification.
type Speaker struct {
	engine ports.SpeechEngine
	logger *slog.Logger

	mu           sync.Mutex
	pending      *pendingUtterance
	cancelVoices func()
}

type pendingUtterance struct {
	text    string
	lang    string
	gender  domain.Gender
	onError func(string)
}

func NewSpeaker(engine ports.SpeechEngine, logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{engine: engine, logger: logger}
}

// Available reports whether speech synthesis can be used at all.
func (s *Speaker) Available() bool {
	return s.engine != nil && s.engine.Available()
}

// Speak cancels any current utterance and speaks text in lang with a voice
// matching the gender preference. Failures are reported once through
// onError; Speak never fails synchronously to the caller.
func (s *Speaker) Speak(text string, lang string, gender domain.Gender, onError func(message string)) {
	if onError == nil {
		onError = func(string) {}
	}
	if !s.Available() {
		onError("Speech synthesis is not supported in this environment.")
		return
	}

	s.engine.Cancel()

	// Last-writer-wins: an older parked utterance is superseded even when
	// this call can speak directly, so its listener must not fire later.
	s.mu.Lock()
	s.dropPendingLocked()
	s.mu.Unlock()

	voices := s.engine.Voices()
	if len(voices) == 0 {
		s.park(pendingUtterance{text: text, lang: lang, gender: gender, onError: onError})
		return
	}
	s.speakNow(text, lang, gender, onError)
}

// Cancel stops any audible utterance and drops a parked one.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	s.dropPendingLocked()
	s.mu.Unlock()
	if s.engine != nil {
		s.engine.Cancel()
	}
}

// park holds the utterance until the one-shot voices-ready notification.
// The caller has already dropped any previous parked utterance; the listener
// is detached as soon as it fires.
func (s *Speaker) park(p pendingUtterance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &p
	s.cancelVoices = s.engine.OnVoicesChanged(func() {
		s.mu.Lock()
		pending := s.pending
		s.pending = nil
		if s.cancelVoices != nil {
			s.cancelVoices()
			s.cancelVoices = nil
		}
		s.mu.Unlock()

		if pending != nil {
			s.speakNow(pending.text, pending.lang, pending.gender, pending.onError)
		}
	})
}

func (s *Speaker) dropPendingLocked() {
	s.pending = nil
	if s.cancelVoices != nil {
		s.cancelVoices()
		s.cancelVoices = nil
	}
}

func (s *Speaker) speakNow(text string, lang string, gender domain.Gender, onError func(string)) {
	voice := s.selectVoice(s.engine.Voices(), lang, gender)
	err := s.engine.Speak(domain.Utterance{Text: text, Lang: lang, VoiceName: voice}, func(code string) {
		onError(utteranceErrorMessage(code, lang))
	})
	if err != nil {
		onError("An error occurred during speech synthesis.")
	}
}

// selectVoice filters voices whose language tag equals the code or is a
// sub-tag of it, then applies the gender keyword heuristic. An empty result
// means the engine default voice should be used.
func (s *Speaker) selectVoice(voices []domain.Voice, lang string, gender domain.Gender) string {
	var filtered []domain.Voice
	for _, v := range voices {
		if v.Lang == lang || strings.HasPrefix(v.Lang, lang+"-") {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		s.logger.Warn("no voice found for language, using engine default", "lang", lang)
		return ""
	}
	keywords := keywordsFor(lang, gender)
	if len(keywords) == 0 {
		// any and neutral express no keyword preference.
		return filtered[0].Name
	}

	for _, keyword := range keywords {
		for _, v := range filtered {
			if strings.Contains(strings.ToLower(v.Name), keyword) {
				return v.Name
			}
		}
	}

	s.logger.Warn("no voice matched gender preference, using first language voice",
		"lang", lang, "gender", string(gender))
	return filtered[0].Name
}

func utteranceErrorMessage(code string, lang string) string {
	switch code {
	case "language-unavailable":
		return "Speech synthesis is not available for the selected language (" + lang + ")."
	case "voice-unavailable":
		return "A voice for the selected language (" + lang + ") is not available."
	default:
		return "An error occurred during speech synthesis."
	}
}
