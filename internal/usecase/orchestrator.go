package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lingualive/internal/capture"
	"lingualive/internal/conversation"
	"lingualive/internal/domain"
	"lingualive/internal/languages"
	"lingualive/internal/ports"
	"lingualive/internal/synth"
	"lingualive/internal/translate"
)

var (
	ErrSlotBusy       = errors.New("a translation is already in progress for this slot")
	ErrUnknownSlot    = errors.New("unknown conversation slot")
	ErrUnknownLang    = errors.New("unknown language code")
	ErrUnknownGender  = errors.New("unknown gender preference")
	ErrUnknownMessage = errors.New("unknown message id")
)

// Defaults seeds the two slots' initial settings.
type Defaults struct {
	User1 domain.SlotSettings
	User2 domain.SlotSettings
}

type slotState struct {
	settings     domain.SlotSettings
	translating  bool
	lastSpokenID string
	session      *capture.Session
}

// Orchestrator drives the translate-and-speak pipeline for both slots. The
// two pipelines are independent: the mutex guards only slot-state snapshots
// and flags, never the remote translation call, so a pending translation for
// one slot can never block the other.
type Orchestrator struct {
	log        *conversation.Log
	translator *translate.Client
	speaker    *synth.Speaker
	events     ports.EventSink
	logger     *slog.Logger

	mu    sync.Mutex
	slots map[domain.Slot]*slotState
}

func NewOrchestrator(
	log *conversation.Log,
	translator *translate.Client,
	speaker *synth.Speaker,
	device ports.CaptureDevice,
	events ports.EventSink,
	logger *slog.Logger,
	defaults Defaults,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		log:        log,
		translator: translator,
		speaker:    speaker,
		events:     events,
		logger:     logger,
		slots: map[domain.Slot]*slotState{
			domain.SlotUser1: {settings: defaults.User1},
			domain.SlotUser2: {settings: defaults.User2},
		},
	}

	for _, slot := range []domain.Slot{domain.SlotUser1, domain.SlotUser2} {
		slot := slot
		o.slots[slot].session = capture.NewSession(slot, device, events, logger, func(text string) {
			// Captured speech re-enters the pipeline as voice input. The
			// pipeline runs on its own goroutine so the bridge event that
			// delivered the transcript returns immediately.
			go func() {
				_ = o.HandleInput(context.Background(), text, slot, true)
			}()
		})
	}
	return o
}

// HandleInput runs the full pipeline once for one user input: placeholder
// append, translate (or same-language short-circuit), patch, and the
// optional speech trigger. The slot's translating flag is cleared on every
// exit path.
func (o *Orchestrator) HandleInput(ctx context.Context, text string, source domain.Slot, isVoice bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !source.Valid() {
		return ErrUnknownSlot
	}

	o.mu.Lock()
	st := o.slots[source]
	src := st.settings
	tgt := o.slots[source.Other()].settings
	st.translating = true
	o.mu.Unlock()
	o.events.SlotTranslating(source, true)

	defer func() {
		o.mu.Lock()
		st.translating = false
		o.mu.Unlock()
		o.events.SlotTranslating(source, false)
	}()

	// The placeholder must be observable before any asynchronous work, so
	// the log reflects the in-flight message immediately.
	msg := domain.Message{
		ID:             uuid.NewString(),
		OriginalText:   text,
		TranslatedText: domain.PendingTranslation,
		SourceLanguage: src.Language,
		TargetLanguage: tgt.Language,
		User:           source,
		Timestamp:      time.Now(),
		IsVoiceInput:   isVoice,
	}
	o.log.Append(msg)
	o.events.ConversationAppended(msg)

	finalText := text
	failed := false
	if src.Language == tgt.Language {
		o.patch(msg.ID, text)
		o.events.Advisory(domain.AdvisorySameLanguage, "Source and target languages are the same; translation skipped.")
	} else {
		result := o.translator.Translate(ctx, text, src.Language, tgt.Language)
		finalText = result.TranslatedText
		failed = translate.IsFailure(finalText)
		o.patch(msg.ID, finalText)
		if failed {
			o.events.Advisory(domain.AdvisoryTranslationFailed, finalText)
		}
	}

	if isVoice && !failed {
		o.speakForMessage(source, msg.ID, finalText, tgt.Language, tgt.Gender)
	}
	return nil
}

func (o *Orchestrator) patch(id string, text string) {
	o.log.Patch(id, text)
	o.events.ConversationPatched(id, text)
}

// speakForMessage triggers synthesis at most once per message id. The
// per-slot marker survives redundant pipeline entries and duplicate events;
// it is cleared on a speech error so a future distinct message can still be
// attempted, without retrying this one.
func (o *Orchestrator) speakForMessage(source domain.Slot, id string, text string, lang string, gender domain.Gender) {
	if !o.speaker.Available() {
		return
	}

	o.mu.Lock()
	st := o.slots[source]
	if st.lastSpokenID == id {
		o.mu.Unlock()
		return
	}
	st.lastSpokenID = id
	o.mu.Unlock()

	o.speaker.Speak(text, lang, gender, func(message string) {
		o.mu.Lock()
		if st.lastSpokenID == id {
			st.lastSpokenID = ""
		}
		o.mu.Unlock()
		o.events.Advisory(domain.AdvisorySpeechFailed, message)
	})
}

// StartVoiceInput activates the slot's capture session with its current
// language. A slot whose translation is still in flight is rejected with a
// busy advisory.
func (o *Orchestrator) StartVoiceInput(slot domain.Slot) error {
	if !slot.Valid() {
		return ErrUnknownSlot
	}

	o.mu.Lock()
	st := o.slots[slot]
	busy := st.translating
	lang := st.settings.Language
	session := st.session
	o.mu.Unlock()

	if busy {
		o.events.Advisory(domain.AdvisorySlotBusy, "Please wait for the current translation to finish.")
		return ErrSlotBusy
	}
	return session.Start(lang)
}

// StopVoiceInput gracefully ends the slot's capture session. It is an
// idempotent no-op when the slot is not listening.
func (o *Orchestrator) StopVoiceInput(slot domain.Slot) error {
	if !slot.Valid() {
		return ErrUnknownSlot
	}
	o.session(slot).Stop()
	return nil
}

// CaptureResult routes a finalized transcript from the environment to the
// slot's session.
func (o *Orchestrator) CaptureResult(slot domain.Slot, text string) {
	if !slot.Valid() {
		return
	}
	o.session(slot).HandleResult(text)
}

// CaptureError routes a recognition error code from the environment to the
// slot's session.
func (o *Orchestrator) CaptureError(slot domain.Slot, code string) {
	if !slot.Valid() {
		return
	}
	o.session(slot).HandleError(code)
}

// CaptureEnded routes the terminal recognition event to the slot's session.
func (o *Orchestrator) CaptureEnded(slot domain.Slot) {
	if !slot.Valid() {
		return
	}
	o.session(slot).HandleEnd()
}

func (o *Orchestrator) session(slot domain.Slot) *capture.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.slots[slot].session
}

// SetLanguage updates a slot's language. The change applies to the next
// pipeline invocation and capture activation; in-flight work keeps the
// values it captured.
func (o *Orchestrator) SetLanguage(slot domain.Slot, code string) error {
	if !slot.Valid() {
		return ErrUnknownSlot
	}
	if !languages.Known(code) {
		return ErrUnknownLang
	}
	o.mu.Lock()
	o.slots[slot].settings.Language = code
	o.mu.Unlock()
	return nil
}

// SetGender updates a slot's voice gender preference.
func (o *Orchestrator) SetGender(slot domain.Slot, gender domain.Gender) error {
	if !slot.Valid() {
		return ErrUnknownSlot
	}
	if !gender.Valid() {
		return ErrUnknownGender
	}
	o.mu.Lock()
	o.slots[slot].settings.Gender = gender
	o.mu.Unlock()
	return nil
}

// SwapSettings exchanges both slots' language and gender settings as one
// pair under a single lock; no partial swap is ever observable.
func (o *Orchestrator) SwapSettings() {
	o.mu.Lock()
	s1 := o.slots[domain.SlotUser1]
	s2 := o.slots[domain.SlotUser2]
	s1.settings, s2.settings = s2.settings, s1.settings
	o.mu.Unlock()
}

// Settings returns the slot's current settings pair.
func (o *Orchestrator) Settings(slot domain.Slot) (domain.SlotSettings, error) {
	if !slot.Valid() {
		return domain.SlotSettings{}, ErrUnknownSlot
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.slots[slot].settings, nil
}

// Replay speaks an already-resolved message again on explicit user request.
// Unresolved placeholders and failure sentinels are skipped. The voice
// follows the recipient slot's current gender preference.
func (o *Orchestrator) Replay(id string) error {
	msg, ok := o.log.Get(id)
	if !ok {
		return ErrUnknownMessage
	}
	if msg.TranslatedText == domain.PendingTranslation || translate.IsFailure(msg.TranslatedText) {
		return nil
	}

	o.mu.Lock()
	gender := o.slots[msg.User.Other()].settings.Gender
	o.mu.Unlock()

	o.speaker.Speak(msg.TranslatedText, msg.TargetLanguage, gender, func(message string) {
		o.events.Advisory(domain.AdvisorySpeechFailed, message)
	})
	return nil
}

// Conversation returns a copy of the log in insertion order.
func (o *Orchestrator) Conversation() []domain.Message {
	return o.log.Snapshot()
}

// ClearConversation drops the visible history. Late patches from in-flight
// pipelines become no-ops against the cleared log.
func (o *Orchestrator) ClearConversation() {
	o.log.Reset()
}

// Status reports both slots' runtime state for the UI.
func (o *Orchestrator) Status() domain.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return domain.Status{
		User1:    o.slotStatusLocked(domain.SlotUser1),
		User2:    o.slotStatusLocked(domain.SlotUser2),
		Messages: o.log.Len(),
	}
}

func (o *Orchestrator) slotStatusLocked(slot domain.Slot) domain.SlotStatus {
	st := o.slots[slot]
	return domain.SlotStatus{
		Settings:    st.settings,
		Translating: st.translating,
		Capture:     st.session.State(),
	}
}

// Shutdown aborts live capture sessions and cancels any audible speech.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	sessions := []*capture.Session{
		o.slots[domain.SlotUser1].session,
		o.slots[domain.SlotUser2].session,
	}
	o.mu.Unlock()

	for _, s := range sessions {
		s.Abort()
	}
	o.speaker.Cancel()
}
