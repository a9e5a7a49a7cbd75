package intelligence

import (
	"context"

	"clinicbot/models"
)

// Classifier turns one opaque user turn (plus recent history) into a
// structured intent result. Implementations must only emit intents from the
// closed set in models; Normalize enforces this for anything that leaks out.
type Classifier interface {
	Classify(ctx context.Context, req models.ClassifyRequest) (*models.ClassifyResult, error)
}

// Transcriber converts a voice note into text before classification.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
