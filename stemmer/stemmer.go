// Package stemmer extracts root words (lemmas) from Malay surface
// forms by iteratively stripping derivational and inflectional
// affixes.
//
// The rule set follows the standard academic description of Malay
// morphology: ordered circumfix, suffix, and prefix classes, with the
// nasal me-/pe- variants undone by morphophonological reversal so the
// recovered root keeps its dictionary spelling (menulis -> tulis, not
// ulis). A curated exception table overrides the general rules for
// irregular and high-value forms, mostly Arabic loanwords.
//
// The package provides two API layers:
//
//   - Convenience: Stem returns just the root string, and Stems is a
//     batch wrapper for tokenized input.
//   - Structured: Analyze additionally reports the affixes removed, in
//     strip order.
//
// A Stemmer is immutable after New and safe for concurrent use by
// multiple goroutines.
//
// Input is expected to be a single lowercase token; tokenizing and
// case-folding raw text is the caller's job (see the tokenizer and
// normalizer packages).
package stemmer

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// minStem is the shortest root the stripper may produce. Malay
	// roots are almost never shorter than three letters; stripping
	// below that floor over-stems (beri must not become eri).
	minStem = 3

	// maxPasses bounds the strip loop. Genuine Malay words carry at
	// most four affix slots; the bound only matters for degenerate
	// input or a future rule-set mistake, and exceeding it yields the
	// current partial stem rather than an error.
	maxPasses = 8
)

// AffixKind classifies a stripped affix.
type AffixKind int

const (
	Prefix AffixKind = iota
	Suffix
	Circumfix
	Reduplication
)

var affixKindNames = [...]string{"prefix", "suffix", "circumfix", "reduplication"}

func (k AffixKind) String() string {
	if k < 0 || int(k) >= len(affixKindNames) {
		return "unknown"
	}
	return affixKindNames[k]
}

// MarshalJSON encodes the kind as its string name.
func (k AffixKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Affix is one morpheme removed during stemming.
type Affix struct {
	Form string    `json:"form"` // surface text, circumfixes as "ke...an"
	Kind AffixKind `json:"kind"`
}

// Analysis is the structured result of stemming a single word.
type Analysis struct {
	Word      string  `json:"word"`
	Root      string  `json:"root"`
	Affixes   []Affix `json:"affixes,omitempty"`
	Exception bool    `json:"exception,omitempty"` // root came from the exception table
	Converged bool    `json:"converged"`           // false when the pass bound was hit
}

// Stemmer holds the immutable rule tables. Construct with New.
type Stemmer struct {
	exceptions map[string]string
	tableRaw   []byte // exception table source, set before loading
	log        *zap.SugaredLogger
	audit      rate.Sometimes // throttles non-convergence log lines
}

// Option configures a Stemmer.
type Option func(*Stemmer)

// WithLogger attaches a logger used only for the non-convergence
// audit trail. Without it the stemmer is silent.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Stemmer) { s.log = log }
}

// WithExceptionTable replaces the embedded exception table with raw
// JSON in the same array-of-{form,root} format. Deployments curate
// their own tables for specific corpora.
func WithExceptionTable(raw []byte) Option {
	return func(s *Stemmer) { s.tableRaw = raw }
}

// New builds a Stemmer, loading and validating the exception table. A
// malformed or duplicated table is a fatal error, not a warning:
// accuracy claims depend on exact table contents.
func New(opts ...Option) (*Stemmer, error) {
	s := &Stemmer{
		tableRaw: exceptionsRaw,
		audit:    rate.Sometimes{First: 3, Interval: time.Minute},
	}
	for _, opt := range opts {
		opt(s)
	}
	exceptions, err := loadExceptions(s.tableRaw)
	if err != nil {
		return nil, err
	}
	s.exceptions = exceptions
	return s, nil
}

// Stem returns the root of a single lowercase Malay word. Degenerate
// input (empty, too short, non-letter characters) passes through
// unchanged; a corpus scan may hand the stemmer digits or OCR noise
// and that must not fail.
func (s *Stemmer) Stem(word string) string {
	return s.Analyze(word).Root
}

// Stems stems every word of a tokenized slice. Returns nil for nil.
func (s *Stemmer) Stems(words []string) []string {
	if words == nil {
		return nil
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = s.Stem(w)
	}
	return out
}

// Analyze stems word and reports the affixes removed, in strip order.
func (s *Stemmer) Analyze(word string) Analysis {
	a := Analysis{Word: word, Root: word, Converged: true}
	if strings.TrimSpace(word) == "" || !stemmable(word) {
		return a
	}

	// The exception table is checked once, against the full input
	// only; partial stems inside the loop are rule territory.
	if root, ok := s.exceptions[word]; ok {
		a.Root = root
		a.Exception = true
		return a
	}

	// Reduplicated forms: stem each half, collapse when they agree
	// (mata-mata -> mata, berlari-lari -> lari).
	if i := strings.IndexByte(word, '-'); i > 0 && i < len(word)-1 {
		return s.analyzeReduplicated(word)
	}

	if utf8.RuneCountInString(word) < minStem {
		return a
	}

	cur := word
	for pass := 0; pass < maxPasses; pass++ {
		next, affix, ok := s.stripOnce(cur)
		if !ok {
			a.Root = cur
			return a
		}
		a.Affixes = append(a.Affixes, affix)
		cur = next
	}

	// Pass bound exceeded: keep the partial stem, log for audit.
	a.Root = cur
	a.Converged = false
	if s.log != nil {
		s.audit.Do(func() {
			s.log.Warnw("stemming did not converge", "word", word, "partial", cur, "passes", maxPasses)
		})
	}
	return a
}

// stripOnce removes the highest-priority affix that applies to cur:
// circumfixes first (both ends atomically), then suffixes, then
// prefixes with nasal reversal. Reports false when no rule matches,
// which is the convergence condition.
func (s *Stemmer) stripOnce(cur string) (string, Affix, bool) {
	for _, cf := range circumfixRules {
		if !strings.HasPrefix(cur, cf.prefix) || !strings.HasSuffix(cur, cf.suffix) {
			continue
		}
		mid := cur[len(cf.prefix) : len(cur)-len(cf.suffix)]
		if r, ok := nasalPrefix(cf.prefix); ok {
			mid = recoverOnset(mid, r)
		}
		if !plausibleStem(mid) {
			continue
		}
		return mid, Affix{Form: cf.prefix + "..." + cf.suffix, Kind: Circumfix}, true
	}

	for _, suf := range suffixRules {
		if !strings.HasSuffix(cur, suf) {
			continue
		}
		rest := cur[:len(cur)-len(suf)]
		if !plausibleStem(rest) {
			continue
		}
		return rest, Affix{Form: suf, Kind: Suffix}, true
	}

	for _, pr := range prefixRules {
		if !strings.HasPrefix(cur, pr.form) {
			continue
		}
		rest := cur[len(pr.form):]
		if pr.drop != 0 {
			rest = recoverOnset(rest, pr)
		}
		if !plausibleStem(rest) {
			continue
		}
		return rest, Affix{Form: pr.form, Kind: Prefix}, true
	}

	return cur, Affix{}, false
}

// plausibleStem gates every rule application: the remaining material
// must be long enough and look like a possible Malay root. Malay
// roots carry a vowel and never open with a consonant cluster, so a
// candidate like rja (kerja minus a spurious ke-) rejects the rule
// instead of over-stemming.
func plausibleStem(s string) bool {
	if utf8.RuneCountInString(s) < minStem {
		return false
	}
	hasVowel := false
	for _, r := range s {
		if isVowel(r) {
			hasVowel = true
			break
		}
	}
	if !hasVowel {
		return false
	}
	runes := []rune(s)
	if !isVowel(runes[0]) && !isVowel(runes[1]) {
		return false
	}
	return true
}

// isVowel reports whether r is a Malay vowel.
func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// analyzeReduplicated handles hyphenated forms. Full and affixed
// reduplication both reduce to a single stemmed half when the halves
// agree; anything else is rejoined as-is so compound spellings
// degrade gracefully.
func (s *Stemmer) analyzeReduplicated(word string) Analysis {
	parts := strings.Split(word, "-")
	stems := make([]string, len(parts))
	for i, p := range parts {
		stems[i] = s.Stem(p)
	}
	same := true
	for _, st := range stems[1:] {
		if st != stems[0] {
			same = false
			break
		}
	}
	if same && utf8.RuneCountInString(stems[0]) >= minStem {
		return Analysis{
			Word:      word,
			Root:      stems[0],
			Affixes:   []Affix{{Form: "-" + parts[len(parts)-1], Kind: Reduplication}},
			Converged: true,
		}
	}
	return Analysis{Word: word, Root: strings.Join(stems, "-"), Converged: true}
}

// stemmable reports whether the rules can meaningfully apply: letters
// only, with hyphens allowed for reduplicated spellings. Digits,
// punctuation fragments, and mixed tokens pass through untouched.
func stemmable(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}
