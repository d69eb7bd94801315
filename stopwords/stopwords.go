// Package stopwords filters high-frequency Malay function words out
// of corpus runs so wordlists are not dominated by yang and dan.
package stopwords

import (
	_ "embed"
	"strings"
)

//go:embed data/stopwords.txt
var raw string

var set map[string]struct{}

func init() {
	set = make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		w := strings.TrimSpace(line)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		set[w] = struct{}{}
	}
}

// IsStop reports whether the lowercase word is a stopword.
func IsStop(word string) bool {
	_, ok := set[word]
	return ok
}

// Filter returns tokens with stopwords removed.
func Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsStop(t) {
			out = append(out, t)
		}
	}
	return out
}
