package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Mode selects one of the fixed summary styles.
type Mode string

const (
	ModeComprehensive Mode = "comprehensive"
	ModeKeyPoints     Mode = "key_points"
	ModeQuickOverview Mode = "quick_overview"
	ModeDetailed      Mode = "detailed_analysis"
)

// DefaultMaxChars is the transcript character ceiling applied before prompt
// composition.
const DefaultMaxChars = 30000

var taskInstructions = map[Mode]string{
	ModeComprehensive: "Provide a detailed, comprehensive summary covering all major topics and subtopics.",
	ModeKeyPoints:     "Extract and list the key points and main takeaways in bullet format.",
	ModeQuickOverview: "Provide a brief, concise overview in 3-4 sentences.",
	ModeDetailed:      "Provide an in-depth analysis including themes, arguments, and insights.",
}

// ParseMode maps a UI mode value to a Mode. Both the canonical form and the
// display label are accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comprehensive":
		return ModeComprehensive, nil
	case "key_points", "key points":
		return ModeKeyPoints, nil
	case "quick_overview", "quick overview":
		return ModeQuickOverview, nil
	case "detailed_analysis", "detailed analysis":
		return ModeDetailed, nil
	}
	return "", fmt.Errorf("unknown summary mode %q", s)
}

// Modes lists the accepted canonical mode values.
func Modes() []Mode {
	return []Mode{ModeComprehensive, ModeKeyPoints, ModeQuickOverview, ModeDetailed}
}

const promptFormat = `You are an expert video content analyst.
**Task:** %s
**Additional User Instructions:** %s
**Video Transcript (Language: %s):**
%s
Please provide a well-structured response with clear sections and formatting.`

// Truncate cuts text to at most maxChars characters and reports whether a
// cut happened. The ceiling counts runes, not bytes, so multi-byte text is
// never split mid-character.
func Truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}
	return string([]rune(text)[:maxChars]), true
}

// ComposePrompt merges transcript text, the selected mode's task instruction,
// optional user instructions, and the language label into one instruction
// string. Text beyond maxChars characters is cut to exactly maxChars; the
// returned flag reports whether that happened. The caller must reject empty
// transcripts beforehand.
func ComposePrompt(text string, mode Mode, instructions, language string, maxChars int) (string, bool) {
	text, truncated := Truncate(text, maxChars)

	if strings.TrimSpace(instructions) == "" {
		instructions = "None"
	}

	task, ok := taskInstructions[mode]
	if !ok {
		task = taskInstructions[ModeComprehensive]
	}

	return fmt.Sprintf(promptFormat, task, instructions, language, text), truncated
}
