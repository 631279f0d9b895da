package sentiment

import (
	"regexp"

	"github.com/forPelevin/gomoji"
)

// unicodeSpace is every Unicode whitespace rune. RE2's \s is ASCII only and
// misses \v, NBSP and the separators.
const unicodeSpace = `\s\v\p{Z}\x{85}\x{1c}-\x{1f}`

var (
	urlPattern         = regexp.MustCompile(`http[^` + unicodeSpace + `]+`)
	nonAlphanumPattern = regexp.MustCompile(`[^A-Za-z0-9` + unicodeSpace + `]+`)
)

// Sanitize strips emoji, URLs and any remaining character that is not an
// ASCII letter, digit or (Unicode) whitespace, in that order.
//
// Removing punctuation can splice a new "http..." run together (e.g. "ht.tp"),
// so the passes repeat until the text stops changing.
func Sanitize(text string) string {
	for {
		cleaned := sanitizePass(text)
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

func sanitizePass(text string) string {
	text = gomoji.RemoveEmojis(text)
	text = urlPattern.ReplaceAllString(text, "")
	return nonAlphanumPattern.ReplaceAllString(text, "")
}

// SanitizeAll returns a new slice with every comment sanitized, index aligned with comments.
func SanitizeAll(comments []string) []string {
	out := make([]string, len(comments))
	for i, c := range comments {
		out[i] = Sanitize(c)
	}
	return out
}
