// Package capture manages one single-shot speech recognition session per
// conversation slot.
package capture

import (
	"errors"
	"log/slog"
	"sync"

	"lingualive/internal/domain"
	"lingualive/internal/ports"
)

var ErrUnsupported = errors.New("speech recognition is not supported")

// Session is the per-slot recognition lifecycle: Idle, then Listening, then
// back to Idle through exactly one end event. The bridge feeds environment
// events in through HandleResult, HandleError, and HandleEnd; the buffered
// transcript is handed to the owner only from HandleEnd, which always fires
// after a successful start.
type Session struct {
	slot   domain.Slot
	device ports.CaptureDevice
	events ports.EventSink
	logger *slog.Logger

	// onTranscript receives the finalized transcript for this activation.
	onTranscript func(text string)

	mu         sync.Mutex
	state      domain.CaptureState
	transcript string
	failed     bool
	disposed   bool
}

func NewSession(slot domain.Slot, device ports.CaptureDevice, events ports.EventSink, logger *slog.Logger, onTranscript func(text string)) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if onTranscript == nil {
		onTranscript = func(string) {}
	}
	return &Session{
		slot:         slot,
		device:       device,
		events:       events,
		logger:       logger,
		onTranscript: onTranscript,
		state:        domain.CaptureStateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() domain.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins one single-shot activation in the given language. It is valid
// only from Idle; a start while listening is a no-op. Unsupported or failed
// starts surface an advisory and leave the session Idle.
func (s *Session) Start(lang string) error {
	if s.device == nil || !s.device.Available() {
		s.events.Advisory(domain.AdvisoryVoiceInputUnsupported, "Voice input is not supported in this environment.")
		return ErrUnsupported
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return errors.New("capture session is disposed")
	}
	if s.state == domain.CaptureStateListening {
		s.mu.Unlock()
		return nil
	}
	s.state = domain.CaptureStateListening
	s.transcript = ""
	s.failed = false
	s.mu.Unlock()

	if err := s.device.Start(s.slot, lang); err != nil {
		if errors.Is(err, ports.ErrAlreadyListening) {
			// The environment recognizer is already running; keep the
			// session attached to it instead of forcing a second start.
			s.logger.Debug("capture start raced an active recognizer", "slot", string(s.slot))
		} else {
			s.mu.Lock()
			s.state = domain.CaptureStateIdle
			s.mu.Unlock()
			s.events.Advisory(domain.AdvisoryAudioCaptureFailed, "Could not start voice capture.")
			return err
		}
	}

	s.events.CaptureStateChanged(s.slot, domain.CaptureStateListening, domain.CaptureReasonStarted)
	return nil
}

// Stop requests graceful termination. Calling it while not listening is an
// idempotent no-op. The buffered transcript, if any, is still delivered by
// the end event.
func (s *Session) Stop() {
	s.mu.Lock()
	listening := s.state == domain.CaptureStateListening
	s.mu.Unlock()
	if !listening {
		return
	}
	if err := s.device.Stop(s.slot); err != nil {
		s.logger.Debug("capture stop failed", "slot", string(s.slot), "error", err.Error())
	}
}

// Abort force-terminates the session on owner teardown. Environment events
// arriving afterwards are ignored, so no callback fires into a dead owner.
func (s *Session) Abort() {
	s.mu.Lock()
	wasListening := s.state == domain.CaptureStateListening
	s.state = domain.CaptureStateIdle
	s.transcript = ""
	s.disposed = true
	s.mu.Unlock()

	if wasListening && s.device != nil {
		if err := s.device.Abort(s.slot); err != nil {
			s.logger.Debug("capture abort failed", "slot", string(s.slot), "error", err.Error())
		}
		s.events.CaptureStateChanged(s.slot, domain.CaptureStateIdle, domain.CaptureReasonAborted)
	}
}

// HandleResult buffers the finalized transcript for this activation.
// Recognition runs single-shot, so at most one result arrives; a repeated
// event overwrites rather than appends. Interim results never reach here.
func (s *Session) HandleResult(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || s.state != domain.CaptureStateListening {
		return
	}
	s.transcript = text
}

// HandleError records a recognition error. The no-speech condition is
// deliberately not surfaced; everything else becomes an advisory. The end
// event still follows and performs the actual cleanup.
func (s *Session) HandleError(code string) {
	s.mu.Lock()
	if s.disposed || s.state != domain.CaptureStateListening {
		s.mu.Unlock()
		return
	}
	if code != "no-speech" {
		s.failed = true
	}
	s.mu.Unlock()

	switch code {
	case "no-speech":
	case "not-allowed", "service-not-allowed":
		s.events.Advisory(domain.AdvisoryMicPermissionDenied, "Microphone permission was denied.")
	case "audio-capture":
		s.events.Advisory(domain.AdvisoryAudioCaptureFailed, "Microphone capture failed.")
	default:
		s.events.Advisory(domain.AdvisoryRecognitionFailed, "Voice recognition failed ("+code+").")
	}
}

// HandleEnd is the single exit point of an activation: it always fires after
// a start (natural end, explicit stop, or error), returns the session to
// Idle, and hands the buffered transcript to the owner when one exists.
func (s *Session) HandleEnd() {
	s.mu.Lock()
	if s.disposed || s.state != domain.CaptureStateListening {
		s.mu.Unlock()
		return
	}
	text := s.transcript
	failed := s.failed
	s.transcript = ""
	s.failed = false
	s.state = domain.CaptureStateIdle
	s.mu.Unlock()

	reason := domain.CaptureReasonNoSpeech
	switch {
	case failed:
		reason = domain.CaptureReasonFailed
	case text != "":
		reason = domain.CaptureReasonTranscript
	}
	s.events.CaptureStateChanged(s.slot, domain.CaptureStateIdle, reason)

	if text != "" {
		s.onTranscript(text)
	}
}
