// Package export writes corpus runs in the formats the wordlist
// research consumes: a CSV table, a plain roots file, JSON, and a
// compact binary snapshot for reloading runs.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/malaynlp/melayu/corpus"
)

// WriteCSV writes the run's wordlist as a CSV table, one row per root
// with derivative forms folded into the last column, most frequent
// first.
func WriteCSV(w io.Writer, run *corpus.Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"root", "frequency", "forms", "derivative_forms"}); err != nil {
		return err
	}
	for _, row := range run.Rows {
		forms := make([]string, len(row.Forms))
		for i, f := range row.Forms {
			forms[i] = fmt.Sprintf("%s (%d)", f.Form, f.Count)
		}
		rec := []string{
			row.Root,
			strconv.Itoa(row.Freq),
			strconv.Itoa(len(row.Forms)),
			strings.Join(forms, ", "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRoots writes the bare "root [frequency]" listing.
func WriteRoots(w io.Writer, run *corpus.Run) error {
	for _, row := range run.Rows {
		if _, err := fmt.Fprintf(w, "%s [%d]\n", row.Root, row.Freq); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the full run, indented for inspection.
func WriteJSON(w io.Writer, run *corpus.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// Snapshot encodes the run as msgpack for compact storage.
func Snapshot(run *corpus.Run) ([]byte, error) {
	return msgpack.Marshal(run)
}

// LoadSnapshot decodes a snapshot produced by Snapshot.
func LoadSnapshot(data []byte) (*corpus.Run, error) {
	var run corpus.Run
	if err := msgpack.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run snapshot: %w", err)
	}
	return &run, nil
}
