// Package tokenizer splits raw text into word tokens for stemming.
package tokenizer

import "regexp"

// reWord matches runs of letters, keeping internal apostrophes and
// hyphens so contracted and reduplicated spellings survive as one
// token (mata-mata, sa'at).
var reWord = regexp.MustCompile(`[\pL]+(?:['’-][\pL]+)*`)

// Tokenize returns the word tokens of text in order. Digits and
// punctuation are skipped; case is left untouched (see normalizer).
func Tokenize(text string) []string {
	return reWord.FindAllString(text, -1)
}
