package whisper

import "context"

// Segment is a timestamped span of transcribed speech. Offsets are in
// seconds from the start of the audio; segments arrive in source order.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Transcription is the normalized output of an engine run.
type Transcription struct {
	Text     string
	Language string
	Segments []Segment
}

type TranscriptionRequest struct {
	AudioPath string
	ModelPath string
	Language  string
}

type Engine interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (Transcription, error)
}
