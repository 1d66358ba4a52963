package bootstrap

import (
	"log/slog"

	"lingualive/internal/config"
	"lingualive/internal/conversation"
	"lingualive/internal/ports"
	"lingualive/internal/providers/ollama"
	"lingualive/internal/synth"
	"lingualive/internal/translate"
	"lingualive/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Orchestrator *usecase.Orchestrator
	Config       config.Config
}

// Build wires all backend dependencies for the current runtime. The speech
// engine and capture device are environment capabilities owned by the
// caller; everything else is constructed here.
func Build(events ports.EventSink, engine ports.SpeechEngine, device ports.CaptureDevice, logger *slog.Logger) (Services, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	backend := ollama.NewProvider(ollama.Config{
		BaseURL: cfg.Translator.BaseURL,
		Model:   cfg.Translator.Model,
		Timeout: cfg.Translator.Timeout,
	}, logger)

	orchestrator := usecase.NewOrchestrator(
		conversation.NewLog(),
		translate.NewClient(backend, logger),
		synth.NewSpeaker(engine, logger),
		device,
		events,
		logger,
		usecase.Defaults{User1: cfg.Slots.User1, User2: cfg.Slots.User2},
	)

	return Services{Orchestrator: orchestrator, Config: cfg}, nil
}
