package journey

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OtherKey is the bucket for tracks without a mood.
const OtherKey = "other"

// Labels maps known mood keys to display names.
var Labels = map[string]string{
	"high_energy": "High Energy",
	"vibey":       "Vibey & Ambient",
	"melancholic": "Melancholic & Nostalgic",
	"sad":         "Emotional & Sad",
	"upbeat":      "Upbeat & Bouncy",
	"custom":      "Your Requested Tracks",
	"energetic":   "Energetic",
	"chill":       "Chill & Relaxed",
	"nostalgic":   "Nostalgic",
	"emotional":   "Emotional",
	"happy":       "Happy & Upbeat",
}

// PositionalOrder is the fixed mood sequence used by [GroupPositional].
var PositionalOrder = []string{"high_energy", "vibey", "melancholic", "sad", "upbeat"}

// Label returns the display name for a mood key.
//
// [OtherKey] is shown as is. Unknown keys fall back to the key with its first letter upper-cased.
func Label(key string) string {
	if key == OtherKey {
		return OtherKey
	}
	if label, ok := Labels[key]; ok {
		return label
	}
	return capitalize(key)
}

// NormalizeKey lowercases and trims a raw mood, mapping blank moods to [OtherKey].
func NormalizeKey(mood string) string {
	key := strings.ToLower(strings.TrimSpace(mood))
	if key == "" {
		return OtherKey
	}
	return key
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
