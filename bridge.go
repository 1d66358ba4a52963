package main

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"lingualive/internal/domain"
	"lingualive/internal/ports"
)

// Events emitted to the webview, which owns the Web Speech APIs. The
// frontend executes these commands and reports outcomes back through the
// App's bound Report methods.
const (
	eventTTSSpeak  = "lingualive:tts:speak"
	eventTTSCancel = "lingualive:tts:cancel"
	eventSTTStart  = "lingualive:stt:start"
	eventSTTStop   = "lingualive:stt:stop"
	eventSTTAbort  = "lingualive:stt:abort"
)

// webviewSpeech implements ports.SpeechEngine over the webview's
// speechSynthesis. Availability and the voice list are pushed in by the
// frontend at startup and whenever voiceschanged fires.
type webviewSpeech struct {
	mu        sync.Mutex
	ctx       context.Context
	available bool
	voices    []domain.Voice
	onError   func(code string)

	listeners    map[int]func()
	nextListener int
}

func newWebviewSpeech() *webviewSpeech {
	return &webviewSpeech{listeners: make(map[int]func())}
}

func (w *webviewSpeech) setContext(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
}

func (w *webviewSpeech) Available() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.available
}

func (w *webviewSpeech) Voices() []domain.Voice {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.Voice, len(w.voices))
	copy(out, w.voices)
	return out
}

func (w *webviewSpeech) OnVoicesChanged(fn func()) (cancel func()) {
	w.mu.Lock()
	id := w.nextListener
	w.nextListener++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

func (w *webviewSpeech) Speak(utt domain.Utterance, onError func(code string)) error {
	w.mu.Lock()
	w.onError = onError
	ctx := w.ctx
	w.mu.Unlock()

	if ctx != nil {
		runtime.EventsEmit(ctx, eventTTSSpeak, utt)
	}
	return nil
}

func (w *webviewSpeech) Cancel() {
	w.mu.Lock()
	w.onError = nil
	ctx := w.ctx
	w.mu.Unlock()

	if ctx != nil {
		runtime.EventsEmit(ctx, eventTTSCancel)
	}
}

// setCapability records whether speechSynthesis exists in the webview.
func (w *webviewSpeech) setCapability(available bool) {
	w.mu.Lock()
	w.available = available
	w.mu.Unlock()
}

// setVoices replaces the voice list and fires registered voices-changed
// listeners outside the lock.
func (w *webviewSpeech) setVoices(voices []domain.Voice) {
	w.mu.Lock()
	w.voices = append([]domain.Voice(nil), voices...)
	fns := make([]func(), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// utteranceError routes one reported utterance failure to the callback of
// the current utterance, at most once.
func (w *webviewSpeech) utteranceError(code string) {
	w.mu.Lock()
	cb := w.onError
	w.onError = nil
	w.mu.Unlock()

	if cb != nil {
		cb(code)
	}
}

// webviewCapture implements ports.CaptureDevice over the webview's
// SpeechRecognition, one single-shot recognizer per slot.
type webviewCapture struct {
	mu        sync.Mutex
	ctx       context.Context
	available bool
	listening map[domain.Slot]bool
}

func newWebviewCapture() *webviewCapture {
	return &webviewCapture{listening: make(map[domain.Slot]bool)}
}

func (w *webviewCapture) setContext(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
}

func (w *webviewCapture) setCapability(available bool) {
	w.mu.Lock()
	w.available = available
	w.mu.Unlock()
}

func (w *webviewCapture) Available() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.available
}

func (w *webviewCapture) Start(slot domain.Slot, lang string) error {
	w.mu.Lock()
	if w.listening[slot] {
		w.mu.Unlock()
		return ports.ErrAlreadyListening
	}
	w.listening[slot] = true
	ctx := w.ctx
	w.mu.Unlock()

	if ctx != nil {
		runtime.EventsEmit(ctx, eventSTTStart, map[string]string{"slot": string(slot), "lang": lang})
	}
	return nil
}

func (w *webviewCapture) Stop(slot domain.Slot) error {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()

	if ctx != nil {
		runtime.EventsEmit(ctx, eventSTTStop, map[string]string{"slot": string(slot)})
	}
	return nil
}

func (w *webviewCapture) Abort(slot domain.Slot) error {
	w.mu.Lock()
	delete(w.listening, slot)
	ctx := w.ctx
	w.mu.Unlock()

	if ctx != nil {
		runtime.EventsEmit(ctx, eventSTTAbort, map[string]string{"slot": string(slot)})
	}
	return nil
}

// ended clears the listening mark once the frontend reports the terminal
// recognition event for the slot.
func (w *webviewCapture) ended(slot domain.Slot) {
	w.mu.Lock()
	delete(w.listening, slot)
	w.mu.Unlock()
}
