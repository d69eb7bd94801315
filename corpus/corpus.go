// Package corpus streams raw text through the stemming pipeline:
// normalize, tokenize, optionally drop stopwords, stem, aggregate.
// Each document is an independent unit of work; a run carries its own
// identity and timing so results can be persisted and compared.
package corpus

import (
	"bufio"
	"context"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/malaynlp/melayu/normalizer"
	"github.com/malaynlp/melayu/stemmer"
	"github.com/malaynlp/melayu/stopwords"
	"github.com/malaynlp/melayu/tokenizer"
	"github.com/malaynlp/melayu/wordlist"
)

// minTokenLen drops fragments below the stemmer's useful range, the
// same cutoff the wordlist research applied.
const minTokenLen = 3

// Run is the result of processing one corpus source.
type Run struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Stats      wordlist.Stats `json:"stats"`
	Rows       []wordlist.Row `json:"rows"`
}

// Processor wires a Stemmer into the streaming pipeline.
type Processor struct {
	stem      *stemmer.Stemmer
	log       *zap.SugaredLogger
	dropStops bool
}

// NewProcessor returns a Processor around st. When dropStops is set,
// stopwords are excluded from aggregation.
func NewProcessor(st *stemmer.Stemmer, log *zap.SugaredLogger, dropStops bool) *Processor {
	return &Processor{stem: st, log: log, dropStops: dropStops}
}

// Process reads text from r line by line, stems every token, and
// returns the aggregated run. ctx cancellation stops the scan between
// lines; partial aggregation is discarded with the returned error.
func (p *Processor) Process(ctx context.Context, source string, r io.Reader) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	b := wordlist.NewBuilder()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for _, tok := range tokenizer.Tokenize(sc.Text()) {
			w := normalizer.Fold(tok)
			if utf8.RuneCountInString(w) < minTokenLen {
				continue
			}
			if p.dropStops && stopwords.IsStop(w) {
				continue
			}
			b.Add(w, p.stem.Stem(w), 1)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	run.FinishedAt = time.Now().UTC()
	run.Stats = b.Stats()
	run.Rows = b.Rows()
	if p.log != nil {
		p.log.Infow("corpus processed",
			"run", run.ID,
			"source", source,
			"tokens", run.Stats.Tokens,
			"roots", run.Stats.Roots,
			"took", run.FinishedAt.Sub(run.StartedAt))
	}
	return run, nil
}
