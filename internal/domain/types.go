package domain

import "time"

// Slot identifies one of the two fixed conversation participants.
type Slot string

const (
	SlotUser1 Slot = "user1"
	SlotUser2 Slot = "user2"
)

// Other returns the opposite conversation participant.
func (s Slot) Other() Slot {
	if s == SlotUser1 {
		return SlotUser2
	}
	return SlotUser1
}

// Valid reports whether the slot is one of the two known participants.
func (s Slot) Valid() bool {
	return s == SlotUser1 || s == SlotUser2
}

// Gender is a synthesized-voice preference attached to a slot.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
	GenderAny     Gender = "any"
)

// Valid reports whether the gender tag is a known preference value.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNeutral, GenderAny:
		return true
	}
	return false
}

// PendingTranslation marks a message whose translation is still in flight.
const PendingTranslation = "..."

// Message is one unit of conversation history. TranslatedText starts as
// PendingTranslation and is patched in place exactly once when translation
// resolves; every other field is fixed at creation.
type Message struct {
	ID             string    `json:"id"`
	OriginalText   string    `json:"originalText"`
	TranslatedText string    `json:"translatedText"`
	SourceLanguage string    `json:"sourceLanguage"`
	TargetLanguage string    `json:"targetLanguage"`
	User           Slot      `json:"user"`
	Timestamp      time.Time `json:"timestamp"`
	IsVoiceInput   bool      `json:"isVoiceInput"`
}

// SlotSettings is the mutable per-slot configuration pair. A swap exchanges
// both fields together, never one.
type SlotSettings struct {
	Language string `json:"language"`
	Gender   Gender `json:"gender"`
}

// CaptureState models the speech capture lifecycle for one slot.
type CaptureState string

const (
	CaptureStateIdle      CaptureState = "idle"
	CaptureStateListening CaptureState = "listening"
)

// CaptureStateReason provides a structured reason for capture transitions.
type CaptureStateReason string

const (
	CaptureReasonStarted    CaptureStateReason = "capture_started"
	CaptureReasonTranscript CaptureStateReason = "transcript_captured"
	CaptureReasonNoSpeech   CaptureStateReason = "no_speech"
	CaptureReasonStopped    CaptureStateReason = "capture_stopped"
	CaptureReasonFailed     CaptureStateReason = "capture_failed"
	CaptureReasonAborted    CaptureStateReason = "capture_aborted"
)

// AdvisoryCode classifies non-fatal user-facing notifications.
type AdvisoryCode string

const (
	AdvisoryStartup                 AdvisoryCode = "startup"
	AdvisoryVoiceInputUnsupported   AdvisoryCode = "voice_input_unsupported"
	AdvisorySpeechOutputUnsupported AdvisoryCode = "speech_output_unsupported"
	AdvisoryMicPermissionDenied     AdvisoryCode = "mic_permission_denied"
	AdvisoryAudioCaptureFailed      AdvisoryCode = "audio_capture_failed"
	AdvisoryRecognitionFailed       AdvisoryCode = "recognition_failed"
	AdvisoryTranslationFailed       AdvisoryCode = "translation_failed"
	AdvisorySameLanguage            AdvisoryCode = "same_language"
	AdvisorySlotBusy                AdvisoryCode = "slot_busy"
	AdvisorySpeechFailed            AdvisoryCode = "speech_failed"
)

// Voice is one synthesized voice exposed by the speech engine. Name carries
// the unstructured display string used for gender keyword inference.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Utterance is one text-to-speech request handed to the speech engine.
// VoiceName is empty when the engine default for Lang should be used.
type Utterance struct {
	Text      string `json:"text"`
	Lang      string `json:"lang"`
	VoiceName string `json:"voiceName"`
}

// SlotStatus summarizes one slot's runtime state for the UI.
type SlotStatus struct {
	Settings    SlotSettings `json:"settings"`
	Translating bool         `json:"translating"`
	Capture     CaptureState `json:"capture"`
}

// Status summarizes the whole conversation runtime.
type Status struct {
	User1    SlotStatus `json:"user1"`
	User2    SlotStatus `json:"user2"`
	Messages int        `json:"messages"`
	Message  string     `json:"message,omitempty"`
}
