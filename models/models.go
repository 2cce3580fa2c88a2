package models

import (
	"strings"
	"unicode/utf8"
)

// SummarizeRequest represents the incoming request for a video summary.
type SummarizeRequest struct {
	URL          string `json:"url"`
	Mode         string `json:"mode"`
	Instructions string `json:"instructions,omitempty"`
}

// TranscriptInfo carries per-request transcript statistics surfaced to the UI.
type TranscriptInfo struct {
	VideoID            string `json:"video_id"`
	Language           string `json:"language"`
	Words              int    `json:"words"`
	Characters         int    `json:"characters"`
	ReadingTimeMinutes int    `json:"reading_time_minutes"`
	Truncated          bool   `json:"truncated"`
}

// NewTranscriptInfo derives statistics from the (possibly truncated) text.
// Characters counts runes so multi-byte text reports the same number the
// truncation ceiling is measured in.
func NewTranscriptInfo(videoID, language, text string, truncated bool) TranscriptInfo {
	words := len(strings.Fields(text))
	return TranscriptInfo{
		VideoID:            videoID,
		Language:           language,
		Words:              words,
		Characters:         utf8.RuneCountInString(text),
		ReadingTimeMinutes: words / 200,
		Truncated:          truncated,
	}
}
