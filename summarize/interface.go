package summarize

import (
	"context"

	"yt-summarizer/models"
)

type Service interface {
	// Prepare resolves the transcript for a request and composes the model
	// prompt. All pre-stream failures are reported here.
	Prepare(ctx context.Context, req models.SummarizeRequest) (*Job, error)

	// Stream forwards a prepared prompt to the model and delivers response
	// fragments to emit in order.
	Stream(ctx context.Context, prompt string, emit func(chunk string) error) error

	// Transcript resolves and returns the (possibly truncated) transcript
	// text for a bare video identifier, for the download artifact.
	Transcript(ctx context.Context, videoID string) (*Job, error)
}

// Job is the per-request state built once per button press and discarded
// after the response stream is consumed.
type Job struct {
	Info   models.TranscriptInfo
	Text   string
	Prompt string
}

// Streamer is the model-facing dependency of the service.
type Streamer interface {
	Stream(ctx context.Context, prompt string, emit func(chunk string) error) error
}

type Config struct {
	// MaxChars is the transcript character ceiling before composition.
	MaxChars int
}
