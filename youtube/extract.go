package youtube

import "regexp"

// Accepted URL shapes, tried in order. The first captured 11-character
// identifier wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`watch\?v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
}

var videoIDExact = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// ExtractVideoID pulls the canonical 11-character video identifier out of a
// URL string. Returns "" when no pattern matches. Never errors.
func ExtractVideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// IsVideoID reports whether s is a bare video identifier.
func IsVideoID(s string) bool {
	return videoIDExact.MatchString(s)
}
