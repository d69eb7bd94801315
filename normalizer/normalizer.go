// Package normalizer case-folds and de-accents tokens so the stemmer
// sees canonical lowercase spellings. Older romanized Malay texts and
// OCR output carry stray diacritics (é, ā) that would keep affix
// rules from matching.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks via NFD decomposition.
func Fold(s string) string {
	s = strings.ToLower(s)
	d := norm.NFD.String(s)
	out := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, d)
	return norm.NFC.String(out)
}

// FoldAll folds every token, dropping any that fold to nothing.
func FoldAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if f := Fold(t); f != "" {
			out = append(out, f)
		}
	}
	return out
}
