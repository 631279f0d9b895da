package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_RemovesEmoji(t *testing.T) {
	got := Sanitize("loved it 😀🔥 so much")
	assert.Equal(t, []string{"loved", "it", "so", "much"}, strings.Fields(got))
}

func TestSanitize_RemovesURLs(t *testing.T) {
	got := Sanitize("watch https://youtu.be/abc?t=10 and http://example.com/x now")
	assert.Equal(t, []string{"watch", "and", "now"}, strings.Fields(got))
	assert.NotContains(t, got, "http")
}

func TestSanitize_RemovesPunctuation(t *testing.T) {
	got := Sanitize("Wow!!! This, honestly... is GREAT?")
	assert.Equal(t, "Wow This honestly is GREAT", got)
}

func TestSanitize_NonASCIILettersRemoved(t *testing.T) {
	assert.Equal(t, "caf nave", Sanitize("café naïve"))
}

func TestSanitize_UnicodeWhitespaceKept(t *testing.T) {
	tests := map[string]string{
		"no-break space":      "awesome\u00a0video",
		"vertical tab":        "awesome\vvideo",
		"line separator":      "awesome\u2028video",
		"ideographic space":   "awesome\u3000video",
		"narrow no-break":     "awesome\u202fvideo",
		"next line":           "awesome\u0085video",
		"information sep one": "awesome\x1fvideo",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, in, Sanitize(in))
		})
	}

	assert.Equal(t, []string{"awesome", "video"}, strings.Fields(Sanitize("awesome!\u00a0video")))
}

func TestSanitize_URLEndsAtUnicodeWhitespace(t *testing.T) {
	got := Sanitize("see https://youtu.be/abc\u00a0now")
	assert.Equal(t, []string{"see", "now"}, strings.Fields(got))
}

func TestSanitize_EmptyAndWhitespace(t *testing.T) {
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, "", strings.TrimSpace(Sanitize("!!! ??? 😀")))
}

func TestSanitize_SplicedURLIsRemoved(t *testing.T) {
	got := Sanitize("see ht.tp//spam here")
	assert.Equal(t, []string{"see", "here"}, strings.Fields(got))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"Best video ever!!! 😍😍 https://t.co/xyz",
		"ht.tpabc trailing",
		"h.t.t.p.s.:.//weird",
		"tabs\tand\nnewlines ok",
		"emoji👍glued😀together",
		"nbsp\u00a0and\u2028separators",
		"“smart quotes” — dashes – and ellipsis…",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeAll_PreservesOrder(t *testing.T) {
	got := SanitizeAll([]string{"a!", "b?", "c."})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestTopWords(t *testing.T) {
	got := TopWords([]string{"Great video great", "the video is great", "meh"}, 2)
	assert.Equal(t, []WordCount{{Word: "great", Count: 3}, {Word: "video", Count: 2}}, got)
}

func TestTopWords_Empty(t *testing.T) {
	assert.Empty(t, TopWords(nil, 5))
}
