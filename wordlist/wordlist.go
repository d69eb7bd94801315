// Package wordlist aggregates stemming results into a root-frequency
// table: every root maps to the surface forms that reduced to it and
// their occurrence counts.
package wordlist

import "sort"

// Builder accumulates (form, root) observations. Not safe for
// concurrent use; corpus runs feed it from a single goroutine.
type Builder struct {
	roots  map[string]*entry
	tokens int
}

type entry struct {
	freq  int
	forms map[string]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{roots: make(map[string]*entry)}
}

// Add records n occurrences of a surface form stemmed to root.
func (b *Builder) Add(form, root string, n int) {
	if n <= 0 {
		return
	}
	e := b.roots[root]
	if e == nil {
		e = &entry{forms: make(map[string]int)}
		b.roots[root] = e
	}
	e.freq += n
	e.forms[form] += n
	b.tokens += n
}

// Form is one surface form with its count, for a Row.
type Form struct {
	Form  string `json:"form"`
	Count int    `json:"count"`
}

// Row is one root with its aggregate frequency and derivative forms,
// forms ordered by descending count then alphabetically.
type Row struct {
	Root  string `json:"root"`
	Freq  int    `json:"freq"`
	Forms []Form `json:"forms"`
}

// Rows returns the aggregated table ordered by descending root
// frequency, ties broken alphabetically for reproducible output.
func (b *Builder) Rows() []Row {
	rows := make([]Row, 0, len(b.roots))
	for root, e := range b.roots {
		forms := make([]Form, 0, len(e.forms))
		for f, c := range e.forms {
			forms = append(forms, Form{Form: f, Count: c})
		}
		sort.Slice(forms, func(i, j int) bool {
			if forms[i].Count != forms[j].Count {
				return forms[i].Count > forms[j].Count
			}
			return forms[i].Form < forms[j].Form
		})
		rows = append(rows, Row{Root: root, Freq: e.freq, Forms: forms})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Freq != rows[j].Freq {
			return rows[i].Freq > rows[j].Freq
		}
		return rows[i].Root < rows[j].Root
	})
	return rows
}

// Stats summarizes a built wordlist.
type Stats struct {
	Tokens       int     `json:"tokens"`       // total counted occurrences
	Forms        int     `json:"forms"`        // distinct surface forms
	Roots        int     `json:"roots"`        // distinct roots
	FormsPerRoot float64 `json:"formsPerRoot"` // mean derivative forms per root
}

// Stats computes summary figures over the current state.
func (b *Builder) Stats() Stats {
	s := Stats{Tokens: b.tokens, Roots: len(b.roots)}
	for _, e := range b.roots {
		s.Forms += len(e.forms)
	}
	if s.Roots > 0 {
		s.FormsPerRoot = float64(s.Forms) / float64(s.Roots)
	}
	return s
}
