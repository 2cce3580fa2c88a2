package summarize

import (
	"context"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"yt-summarizer/errors"
	"yt-summarizer/models"
	"yt-summarizer/validation"
	"yt-summarizer/youtube"

	"github.com/rs/zerolog"
)

type service struct {
	resolver  *youtube.Resolver
	agent     Streamer
	validator *validation.Validator
	config    Config
	logger    zerolog.Logger
}

func NewService(
	resolver *youtube.Resolver,
	agent Streamer,
	validator *validation.Validator,
	config Config,
	logger zerolog.Logger,
) Service {
	if config.MaxChars <= 0 {
		config.MaxChars = DefaultMaxChars
	}
	return &service{
		resolver:  resolver,
		agent:     agent,
		validator: validator,
		config:    config,
		logger:    logger,
	}
}

func (s *service) Prepare(ctx context.Context, req models.SummarizeRequest) (*Job, error) {
	const op = "SummarizeService.Prepare"
	logger := s.logger.With().Str("operation", op).Str("url", req.URL).Logger()

	if err := s.validator.ValidateURL(req.URL); err != nil {
		logger.Info().Err(err).Msg("URL validation failed")
		return nil, err
	}

	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, errors.InvalidInput(op, err, "Unknown summary mode")
	}

	videoID := youtube.ExtractVideoID(req.URL)
	if videoID == "" {
		return nil, errors.InvalidInput(op, nil, "Invalid YouTube link. Please check the URL and try again.")
	}

	transcript, err := s.resolve(ctx, op, videoID)
	if err != nil {
		return nil, err
	}

	text, truncated := Truncate(transcript.Text, s.config.MaxChars)
	prompt, _ := ComposePrompt(text, mode, req.Instructions, transcript.Language, s.config.MaxChars)

	logger.Info().
		Str("video_id", videoID).
		Str("language", transcript.Language).
		Int("characters", utf8.RuneCountInString(text)).
		Bool("truncated", truncated).
		Msg("Transcript resolved")

	return &Job{
		Info:   models.NewTranscriptInfo(videoID, transcript.Language, text, truncated),
		Text:   text,
		Prompt: prompt,
	}, nil
}

func (s *service) Stream(ctx context.Context, prompt string, emit func(chunk string) error) error {
	const op = "SummarizeService.Stream"

	if err := s.agent.Stream(ctx, prompt, emit); err != nil {
		s.logger.Error().Err(err).Msg("Model stream failed")
		return errors.Internal(op, err, "An unexpected error occurred while generating the summary")
	}
	return nil
}

func (s *service) Transcript(ctx context.Context, videoID string) (*Job, error) {
	const op = "SummarizeService.Transcript"

	if !youtube.IsVideoID(videoID) {
		return nil, errors.InvalidInput(op, nil, "Invalid video ID")
	}

	transcript, err := s.resolve(ctx, op, videoID)
	if err != nil {
		return nil, err
	}

	text, truncated := Truncate(transcript.Text, s.config.MaxChars)

	return &Job{
		Info: models.NewTranscriptInfo(videoID, transcript.Language, text, truncated),
		Text: text,
	}, nil
}

// resolve fetches the transcript and maps source failures onto the error
// taxonomy surfaced to the client.
func (s *service) resolve(ctx context.Context, op, videoID string) (*youtube.Transcript, error) {
	transcript, err := s.resolver.Resolve(ctx, videoID)
	if err != nil {
		switch {
		case stderrors.Is(err, youtube.ErrTranscriptsDisabled):
			return nil, errors.NotFound(op, err, "Transcripts are disabled for this video")
		case stderrors.Is(err, youtube.ErrNoTranscript):
			return nil, errors.NotFound(op, err, "No transcript available for this video")
		case stderrors.Is(err, youtube.ErrVideoUnavailable):
			return nil, errors.NotFound(op, err, "Video is unavailable or private")
		default:
			return nil, errors.Unavailable(op, err, "Could not fetch transcript")
		}
	}

	if strings.TrimSpace(transcript.Text) == "" {
		return nil, errors.NotFound(op, nil, "Transcript is empty")
	}

	return transcript, nil
}
