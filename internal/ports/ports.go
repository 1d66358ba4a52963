package ports

import (
	"context"
	"errors"

	"lingualive/internal/domain"
)

// ErrAlreadyListening is returned by a CaptureDevice start when the
// underlying recognizer is already active for that slot. Callers treat it as
// "keep the session that exists" rather than forcing a duplicate start.
var ErrAlreadyListening = errors.New("capture already listening")

// TranslationBackend performs the single opaque remote translation call.
// Implementations may fail with transport or malformed-output errors; they
// never inspect language semantics beyond passing the codes through.
type TranslationBackend interface {
	Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error)
}

// SpeechEngine wraps the environment text-to-speech capability. At most one
// utterance is queued or audible system-wide; Speak implicitly replaces
// nothing, so callers cancel first.
type SpeechEngine interface {
	// Available reports whether synthesis exists in the execution environment.
	Available() bool

	// Voices returns the currently enumerable voice list. The list may be
	// empty shortly after startup while the environment loads voices.
	Voices() []domain.Voice

	// OnVoicesChanged registers a listener invoked when the voice list
	// becomes available or changes. The returned cancel detaches it.
	OnVoicesChanged(fn func()) (cancel func())

	// Speak starts the utterance. onError receives at most one raw engine
	// error code for this utterance (language-unavailable,
	// voice-unavailable, or another environment code); it is never invoked
	// after Cancel.
	Speak(utt domain.Utterance, onError func(code string)) error

	// Cancel stops any queued or audible utterance.
	Cancel()
}

// CaptureDevice wraps the environment speech-to-text capability in
// single-shot, non-continuous mode. Results, errors, and the terminal end
// event come back through the owning capture session, not through this
// interface.
type CaptureDevice interface {
	// Available reports whether recognition exists in the execution
	// environment.
	Available() bool

	// Start begins one single-shot recognition activation for the slot in
	// the given language. Returns ErrAlreadyListening when the underlying
	// recognizer is already active.
	Start(slot domain.Slot, lang string) error

	// Stop requests graceful termination; a buffered result may still be
	// delivered before the end event.
	Stop(slot domain.Slot) error

	// Abort terminates immediately, discarding any pending result.
	Abort(slot domain.Slot) error
}

// EventSink emits backend state and notifications to the UI.
type EventSink interface {
	ConversationAppended(msg domain.Message)
	ConversationPatched(id string, translatedText string)
	SlotTranslating(slot domain.Slot, translating bool)
	CaptureStateChanged(slot domain.Slot, state domain.CaptureState, reason domain.CaptureStateReason)
	Advisory(code domain.AdvisoryCode, detail string)
}
