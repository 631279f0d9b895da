package sentiment

import (
	"sort"
	"strings"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "i": {}, "in": {}, "is": {}, "it": {}, "its": {},
	"me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "so": {}, "that": {}, "the": {}, "this": {},
	"to": {}, "was": {}, "we": {}, "with": {}, "you": {}, "your": {},
}

type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// TopWords counts lower-cased words across sanitized comments, skipping stop
// words, and returns the n most frequent. Ties sort alphabetically.
func TopWords(sanitized []string, n int) []WordCount {
	counts := make(map[string]int)
	for _, c := range sanitized {
		for _, w := range strings.Fields(strings.ToLower(c)) {
			if _, skip := stopWords[w]; skip {
				continue
			}
			counts[w]++
		}
	}

	words := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		words = append(words, WordCount{Word: w, Count: c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if n > 0 && len(words) > n {
		words = words[:n]
	}
	return words
}
