package providers

import "context"

// TranscriptionProvider turns recorded speech into text. The triage core
// only ever sees the text output, never the raw audio.
type TranscriptionProvider interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// CaptionProvider turns an image of a situation into descriptive text.
type CaptionProvider interface {
	Describe(ctx context.Context, image []byte, format string) (string, error)
}
