package youtube

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Transcript is the selected caption text for one video, tagged with a
// human-readable language label.
type Transcript struct {
	VideoID  string
	Language string
	Text     string
}

// Resolver picks the best available caption track for a video. Selection is
// an ordered chain of lookup strategies; the first track that both matches a
// strategy and fetches successfully wins. A failed fetch at one tier falls
// through to the next.
type Resolver struct {
	source Source
	logger zerolog.Logger
}

func NewResolver(source Source, logger zerolog.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// strategy picks a candidate track and its display label from the available
// set, or reports that no track qualifies.
type strategy func(tracks []Track) (Track, string, bool)

// pickEnglish matches any English variant, but leaves auto-generated English
// to its own tier so it keeps the explicit label.
func pickEnglish(tracks []Track) (Track, string, bool) {
	for _, t := range tracks {
		if t.English() && !t.AutoGenerated() {
			return t, "English", true
		}
	}
	return Track{}, "", false
}

func pickManual(tracks []Track) (Track, string, bool) {
	for _, t := range tracks {
		if !t.AutoGenerated() {
			return t, t.LanguageName, true
		}
	}
	return Track{}, "", false
}

func pickGeneratedEnglish(tracks []Track) (Track, string, bool) {
	for _, t := range tracks {
		if t.AutoGenerated() && t.English() {
			return t, "English (auto-generated)", true
		}
	}
	return Track{}, "", false
}

// Resolve returns the transcript for the given video identifier, or a
// classified error when no caption track can be fetched.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (*Transcript, error) {
	tracks, err := r.source.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}

	strategies := []strategy{
		pickEnglish,
		pickManual,
		pickGeneratedEnglish,
	}

	// Each track is fetched at most once per resolution; later tiers only
	// see tracks no earlier tier has already tried.
	attempted := make(map[string]bool, len(tracks))
	remaining := func() []Track {
		out := make([]Track, 0, len(tracks))
		for _, t := range tracks {
			if !attempted[t.BaseURL] {
				out = append(out, t)
			}
		}
		return out
	}

	for _, pick := range strategies {
		track, label, ok := pick(remaining())
		if !ok {
			continue
		}
		attempted[track.BaseURL] = true
		text, err := r.fetchText(ctx, track)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("video_id", videoID).
				Str("language", track.LanguageCode).
				Msg("Caption track fetch failed, falling through")
			continue
		}
		return &Transcript{VideoID: videoID, Language: label, Text: text}, nil
	}

	// Last resort: whatever remains, in source enumeration order.
	for _, track := range remaining() {
		attempted[track.BaseURL] = true
		text, err := r.fetchText(ctx, track)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("video_id", videoID).
				Str("language", track.LanguageCode).
				Msg("Caption track fetch failed, trying next")
			continue
		}
		return &Transcript{VideoID: videoID, Language: track.LanguageName, Text: text}, nil
	}

	return nil, ErrNoTranscript
}

func (r *Resolver) fetchText(ctx context.Context, track Track) (string, error) {
	segments, err := r.source.FetchTrack(ctx, track)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " "), nil
}
