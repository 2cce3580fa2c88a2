package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Classified transcript failures. Everything else from the source surfaces
// as a wrapped fetch error.
var (
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrNoTranscript        = errors.New("no transcript available")
	ErrVideoUnavailable    = errors.New("video is unavailable or private")
)

// Track describes one available caption stream for a video.
type Track struct {
	BaseURL      string
	LanguageCode string
	LanguageName string
	Kind         string // "asr" for auto-generated tracks
}

// AutoGenerated reports whether the track is machine-generated.
func (t Track) AutoGenerated() bool { return t.Kind == "asr" }

// English reports whether the track language is any English variant.
func (t Track) English() bool {
	return t.LanguageCode == "en" || strings.HasPrefix(t.LanguageCode, "en-")
}

// Segment is one caption entry. Timing is carried but unused downstream.
type Segment struct {
	Text     string
	Start    float64
	Duration float64
}

// Source enumerates available caption tracks for a video and fetches a
// track's segments on demand.
type Source interface {
	ListTracks(ctx context.Context, videoID string) ([]Track, error)
	FetchTrack(ctx context.Context, track Track) ([]Segment, error)
}

// Client fetches caption data from YouTube's innertube player endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// playerRequest is the innertube player call payload.
type playerRequest struct {
	VideoID string        `json:"videoId"`
	Context playerContext `json:"context"`
}

type playerContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		TracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t captionTrack) languageName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var sb strings.Builder
	for _, run := range t.Name.Runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// ListTracks enumerates the caption tracks available for a video.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	payload, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{
			Client: innertubeClient{
				ClientName:    "WEB",
				ClientVersion: "2.20240101.00.00",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling player request: %w", err)
	}

	url := c.baseURL + "/youtubei/v1/player"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching player data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player endpoint returned status %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}

	switch player.PlayabilityStatus.Status {
	case "", "OK":
	case "LOGIN_REQUIRED", "UNPLAYABLE", "ERROR":
		return nil, ErrVideoUnavailable
	default:
		return nil, fmt.Errorf("video not playable: %s", player.PlayabilityStatus.Reason)
	}

	if player.Captions == nil {
		return nil, ErrTranscriptsDisabled
	}

	raw := player.Captions.TracklistRenderer.CaptionTracks
	if len(raw) == 0 {
		return nil, ErrNoTranscript
	}

	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, Track{
			BaseURL:      t.BaseURL,
			LanguageCode: t.LanguageCode,
			LanguageName: t.languageName(),
			Kind:         t.Kind,
		})
	}
	return tracks, nil
}

// timedtext json3 payload
type timedTextResponse struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// FetchTrack downloads a caption track as a sequence of text segments.
func (c *Client) FetchTrack(ctx context.Context, track Track) ([]Segment, error) {
	if track.BaseURL == "" {
		return nil, fmt.Errorf("track has no URL")
	}

	url := track.BaseURL
	if strings.Contains(url, "?") {
		url += "&fmt=json3"
	} else {
		url += "?fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating caption request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading caption body: %w", err)
	}

	var timedText timedTextResponse
	if err := json.Unmarshal(body, &timedText); err != nil {
		return nil, fmt.Errorf("decoding caption payload: %w", err)
	}

	var segments []Segment
	for _, event := range timedText.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}
	return segments, nil
}
