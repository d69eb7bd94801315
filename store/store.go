// Package store persists corpus runs and their wordlists in SQLite so
// repeated analyses of the same material can be listed and compared.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oarkflow/squealx"
	_ "modernc.org/sqlite"

	"github.com/malaynlp/melayu/corpus"
	"github.com/malaynlp/melayu/wordlist"
)

// ErrNotFound is returned when a run ID has no stored row.
var ErrNotFound = errors.New("store: run not found")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		tokens      INTEGER NOT NULL,
		forms       INTEGER NOT NULL,
		roots       INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS roots (
		run_id TEXT NOT NULL,
		root   TEXT NOT NULL,
		freq   INTEGER NOT NULL,
		PRIMARY KEY (run_id, root)
	)`,
	`CREATE TABLE IF NOT EXISTS forms (
		run_id TEXT NOT NULL,
		root   TEXT NOT NULL,
		form   TEXT NOT NULL,
		count  INTEGER NOT NULL,
		PRIMARY KEY (run_id, root, form)
	)`,
}

// Store wraps the database handle. Open with New, close with Close.
type Store struct {
	db *squealx.DB
}

// New opens the SQLite database at dsn (":memory:" works for tests)
// and ensures the schema exists.
func New(dsn string) (*Store, error) {
	db, err := squealx.Open("sqlite", dsn, "melayu")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run with its full wordlist.
func (s *Store) SaveRun(run *corpus.Run) error {
	_, err := s.db.NamedExec(
		`INSERT INTO runs (id, source, started_at, finished_at, tokens, forms, roots)
		 VALUES (:id, :source, :started_at, :finished_at, :tokens, :forms, :roots)`,
		map[string]any{
			"id":          run.ID,
			"source":      run.Source,
			"started_at":  run.StartedAt.Format(time.RFC3339Nano),
			"finished_at": run.FinishedAt.Format(time.RFC3339Nano),
			"tokens":      run.Stats.Tokens,
			"forms":       run.Stats.Forms,
			"roots":       run.Stats.Roots,
		})
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, row := range run.Rows {
		if _, err := s.db.NamedExec(
			`INSERT INTO roots (run_id, root, freq) VALUES (:run_id, :root, :freq)`,
			map[string]any{"run_id": run.ID, "root": row.Root, "freq": row.Freq},
		); err != nil {
			return fmt.Errorf("insert root %q: %w", row.Root, err)
		}
		for _, f := range row.Forms {
			if _, err := s.db.NamedExec(
				`INSERT INTO forms (run_id, root, form, count) VALUES (:run_id, :root, :form, :count)`,
				map[string]any{"run_id": run.ID, "root": row.Root, "form": f.Form, "count": f.Count},
			); err != nil {
				return fmt.Errorf("insert form %q: %w", f.Form, err)
			}
		}
	}
	return nil
}

// RunSummary is a stored run without its wordlist rows.
type RunSummary struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Tokens     int       `json:"tokens"`
	Forms      int       `json:"forms"`
	Roots      int       `json:"roots"`
}

type runRow struct {
	ID         string `db:"id"`
	Source     string `db:"source"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
	Tokens     int    `db:"tokens"`
	Forms      int    `db:"forms"`
	Roots      int    `db:"roots"`
}

func (r runRow) summary() RunSummary {
	started, _ := time.Parse(time.RFC3339Nano, r.StartedAt)
	finished, _ := time.Parse(time.RFC3339Nano, r.FinishedAt)
	return RunSummary{
		ID: r.ID, Source: r.Source,
		StartedAt: started, FinishedAt: finished,
		Tokens: r.Tokens, Forms: r.Forms, Roots: r.Roots,
	}
}

// Runs lists stored runs, newest first.
func (s *Store) Runs() ([]RunSummary, error) {
	var rows []runRow
	err := s.db.Select(&rows, `SELECT * FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]RunSummary, len(rows))
	for i, r := range rows {
		out[i] = r.summary()
	}
	return out, nil
}

// Wordlist loads the aggregated rows of one run, in stored frequency
// order.
func (s *Store) Wordlist(runID string) ([]wordlist.Row, error) {
	var runs []runRow
	err := s.db.Select(&runs, `SELECT * FROM runs WHERE id = :id`, map[string]any{"id": runID})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}

	type rootRow struct {
		Root string `db:"root"`
		Freq int    `db:"freq"`
	}
	var roots []rootRow
	err = s.db.Select(&roots,
		`SELECT root, freq FROM roots WHERE run_id = :id ORDER BY freq DESC, root ASC`,
		map[string]any{"id": runID})
	if err != nil {
		return nil, fmt.Errorf("load roots: %w", err)
	}

	type formRow struct {
		Root  string `db:"root"`
		Form  string `db:"form"`
		Count int    `db:"count"`
	}
	var forms []formRow
	err = s.db.Select(&forms,
		`SELECT root, form, count FROM forms WHERE run_id = :id ORDER BY count DESC, form ASC`,
		map[string]any{"id": runID})
	if err != nil {
		return nil, fmt.Errorf("load forms: %w", err)
	}

	byRoot := make(map[string][]wordlist.Form, len(roots))
	for _, f := range forms {
		byRoot[f.Root] = append(byRoot[f.Root], wordlist.Form{Form: f.Form, Count: f.Count})
	}
	rows := make([]wordlist.Row, len(roots))
	for i, r := range roots {
		rows[i] = wordlist.Row{Root: r.Root, Freq: r.Freq, Forms: byRoot[r.Root]}
	}
	return rows, nil
}
