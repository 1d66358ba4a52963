package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"lingualive/internal/bootstrap"
	"lingualive/internal/config"
	"lingualive/internal/domain"
	"lingualive/internal/languages"
	"lingualive/internal/usecase"
)

const (
	eventConversationAppend = "lingualive:conversation:append"
	eventConversationPatch  = "lingualive:conversation:patch"
	eventSlot               = "lingualive:slot"
	eventCapture            = "lingualive:capture"
	eventAdvisory           = "lingualive:advisory"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	orchestrator *usecase.Orchestrator
	cfg          config.Config
	logger       *slog.Logger
	bootErr      error

	speech   *webviewSpeech
	capturer *webviewCapture
}

func NewApp() *App {
	return &App{
		logger:   slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
		speech:   newWebviewSpeech(),
		capturer: newWebviewCapture(),
	}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.speech.setContext(ctx)
	a.capturer.setContext(ctx)

	services, err := bootstrap.Build(a, a.speech, a.capturer, a.logger)
	if err != nil {
		a.bootErr = err
		a.Advisory(domain.AdvisoryStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.orchestrator = services.Orchestrator
}

func (a *App) shutdown(_ context.Context) {
	if a.orchestrator != nil {
		a.orchestrator.Shutdown()
	}
}

// SendText runs the translation pipeline for typed input. The call returns
// once the message has fully resolved, so the frontend promise doubles as a
// completion signal.
func (a *App) SendText(slot string, text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	s, err := parseSlot(slot)
	if err != nil {
		return err
	}
	return a.orchestrator.HandleInput(a.ctx, text, s, false)
}

// StartVoiceInput begins a single-shot voice capture for the slot.
func (a *App) StartVoiceInput(slot string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	s, err := parseSlot(slot)
	if err != nil {
		return err
	}
	return a.orchestrator.StartVoiceInput(s)
}

// StopVoiceInput gracefully ends the slot's voice capture.
func (a *App) StopVoiceInput(slot string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	s, err := parseSlot(slot)
	if err != nil {
		return err
	}
	return a.orchestrator.StopVoiceInput(s)
}

// SetLanguage updates a slot's conversation language.
func (a *App) SetLanguage(slot string, code string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	s, err := parseSlot(slot)
	if err != nil {
		return err
	}
	return a.orchestrator.SetLanguage(s, code)
}

// SetGender updates a slot's voice gender preference.
func (a *App) SetGender(slot string, gender string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	s, err := parseSlot(slot)
	if err != nil {
		return err
	}
	return a.orchestrator.SetGender(s, domain.Gender(gender))
}

// SwapSettings atomically exchanges the two slots' language/gender pairs.
func (a *App) SwapSettings() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.orchestrator.SwapSettings()
	return nil
}

// GetSettings returns a slot's current settings.
func (a *App) GetSettings(slot string) (domain.SlotSettings, error) {
	if err := a.requireReady(); err != nil {
		return domain.SlotSettings{}, err
	}
	s, err := parseSlot(slot)
	if err != nil {
		return domain.SlotSettings{}, err
	}
	return a.orchestrator.Settings(s)
}

// GetConversation returns the full conversation history in order.
func (a *App) GetConversation() []domain.Message {
	if a.orchestrator == nil {
		return nil
	}
	return a.orchestrator.Conversation()
}

// ClearConversation drops the visible history.
func (a *App) ClearConversation() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.orchestrator.ClearConversation()
	return nil
}

// ReplayMessage speaks a resolved message again.
func (a *App) ReplayMessage(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.orchestrator.Replay(id)
}

// CopyMessage puts a message's translated text on the system clipboard.
func (a *App) CopyMessage(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	for _, msg := range a.orchestrator.Conversation() {
		if msg.ID == id {
			return runtime.ClipboardSetText(a.ctx, msg.TranslatedText)
		}
	}
	return usecase.ErrUnknownMessage
}

// GetLanguages returns the language registry for the settings UI.
func (a *App) GetLanguages() []languages.Language {
	return languages.All()
}

// GetStatus returns the current runtime status.
func (a *App) GetStatus() domain.Status {
	if a.orchestrator == nil {
		if a.bootErr != nil {
			return domain.Status{Message: a.bootErr.Error()}
		}
		return domain.Status{}
	}
	return a.orchestrator.Status()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	return map[string]string{
		"translator":        "Ollama",
		"model":             a.cfg.Translator.Model,
		"user1Language":     a.cfg.Slots.User1.Language,
		"user1LanguageName": languages.Name(a.cfg.Slots.User1.Language),
		"user2Language":     a.cfg.Slots.User2.Language,
		"user2LanguageName": languages.Name(a.cfg.Slots.User2.Language),
	}
}

// ReportCapabilities is called once by the frontend after probing the Web
// Speech APIs. Missing capabilities are surfaced as one-shot advisories and
// the corresponding features stay disabled.
func (a *App) ReportCapabilities(recognition bool, synthesis bool) {
	a.capturer.setCapability(recognition)
	a.speech.setCapability(synthesis)

	if !recognition {
		a.Advisory(domain.AdvisoryVoiceInputUnsupported, "Voice input is not supported in this environment.")
	}
	if !synthesis {
		a.Advisory(domain.AdvisorySpeechOutputUnsupported, "Speech output is not supported in this environment.")
	}
}

// ReportVoices replaces the known synthesis voice list.
func (a *App) ReportVoices(voices []domain.Voice) {
	a.speech.setVoices(voices)
}

// ReportUtteranceError is called when the current utterance fails.
func (a *App) ReportUtteranceError(code string) {
	a.speech.utteranceError(code)
}

// ReportCaptureResult delivers a recognition result. Only finalized results
// enter the session; interim results are dropped here.
func (a *App) ReportCaptureResult(slot string, text string, isFinal bool) {
	if a.orchestrator == nil || !isFinal {
		return
	}
	s, err := parseSlot(slot)
	if err != nil {
		return
	}
	a.orchestrator.CaptureResult(s, text)
}

// ReportCaptureError delivers a recognition error code.
func (a *App) ReportCaptureError(slot string, code string) {
	if a.orchestrator == nil {
		return
	}
	s, err := parseSlot(slot)
	if err != nil {
		return
	}
	a.orchestrator.CaptureError(s, code)
}

// ReportCaptureEnded delivers the terminal recognition event.
func (a *App) ReportCaptureEnded(slot string) {
	if a.orchestrator == nil {
		return
	}
	s, err := parseSlot(slot)
	if err != nil {
		return
	}
	a.capturer.ended(s)
	a.orchestrator.CaptureEnded(s)
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.orchestrator == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func parseSlot(slot string) (domain.Slot, error) {
	s := domain.Slot(slot)
	if !s.Valid() {
		return "", usecase.ErrUnknownSlot
	}
	return s, nil
}

// ConversationAppended emits a new in-flight message to the frontend.
func (a *App) ConversationAppended(msg domain.Message) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventConversationAppend, msg)
}

// ConversationPatched emits the resolved translation for a message id.
func (a *App) ConversationPatched(id string, translatedText string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventConversationPatch, map[string]string{
		"id":             id,
		"translatedText": translatedText,
	})
}

// SlotTranslating emits a slot's busy flag.
func (a *App) SlotTranslating(slot domain.Slot, translating bool) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSlot, map[string]any{
		"slot":        string(slot),
		"translating": translating,
	})
}

// CaptureStateChanged emits capture lifecycle updates.
func (a *App) CaptureStateChanged(slot domain.Slot, state domain.CaptureState, reason domain.CaptureStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCapture, map[string]string{
		"slot":    string(slot),
		"state":   string(state),
		"reason":  string(reason),
		"message": captureReasonMessage(reason),
	})
}

// Advisory emits a non-fatal user-facing notification.
func (a *App) Advisory(code domain.AdvisoryCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventAdvisory, map[string]string{
		"code":   string(code),
		"title":  advisoryTitle(code),
		"detail": detail,
	})
}

func captureReasonMessage(reason domain.CaptureStateReason) string {
	switch reason {
	case domain.CaptureReasonStarted:
		return "Listening..."
	case domain.CaptureReasonTranscript:
		return "Voice input captured"
	case domain.CaptureReasonNoSpeech:
		return "No speech detected"
	case domain.CaptureReasonStopped:
		return "Voice input stopped"
	case domain.CaptureReasonFailed:
		return "Voice input failed"
	case domain.CaptureReasonAborted:
		return "Voice input aborted"
	default:
		return ""
	}
}

func advisoryTitle(code domain.AdvisoryCode) string {
	switch code {
	case domain.AdvisoryStartup:
		return "Startup failed"
	case domain.AdvisoryVoiceInputUnsupported:
		return "Voice input unavailable"
	case domain.AdvisorySpeechOutputUnsupported:
		return "Speech output unavailable"
	case domain.AdvisoryMicPermissionDenied:
		return "Microphone blocked"
	case domain.AdvisoryAudioCaptureFailed:
		return "Microphone error"
	case domain.AdvisoryRecognitionFailed:
		return "Voice recognition error"
	case domain.AdvisoryTranslationFailed:
		return "Translation error"
	case domain.AdvisorySameLanguage:
		return "Translation skipped"
	case domain.AdvisorySlotBusy:
		return "Translation in progress"
	case domain.AdvisorySpeechFailed:
		return "Speech output error"
	default:
		return ""
	}
}
