package stemmer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
	"github.com/oarkflow/json"
)

// The exception table maps irregular or high-value surface forms to
// their canonical roots. It is consulted before any affix rule and a
// hit ends stemming immediately. Entries cover Arabic loanwords that
// look affixed but are not (selamat, sejarah territory), irregular
// verb paradigms, and forms whose nasalization the general rules
// cannot reconstruct (mengerti -> erti).
//
//go:embed data/exceptions.json
var exceptionsRaw []byte

// exceptionEntry is one row of data/exceptions.json. The file is an
// array of pairs rather than an object so duplicate surface forms are
// representable and can be rejected at load time.
type exceptionEntry struct {
	Form string `json:"form"`
	Root string `json:"root"`
}

const exceptionSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["form", "root"],
		"properties": {
			"form": {"type": "string", "minLength": 1},
			"root": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}
}`

// loadExceptions parses and validates raw exception data. Any
// malformed entry, duplicate surface form, or non-lowercase text is a
// hard error: downstream accuracy depends on the exact table.
func loadExceptions(raw []byte) (map[string]string, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(exceptionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile exception schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse exception table: %w", err)
	}
	if result := schema.Validate(doc); !result.IsValid() {
		return nil, fmt.Errorf("exception table does not match schema")
	}

	var entries []exceptionEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode exception table: %w", err)
	}

	table := make(map[string]string, 2*len(entries))
	for i, e := range entries {
		if e.Form != strings.ToLower(e.Form) || e.Root != strings.ToLower(e.Root) {
			return nil, fmt.Errorf("exception entry %d (%q): table must be lowercase", i, e.Form)
		}
		if prev, dup := table[e.Form]; dup {
			return nil, fmt.Errorf("duplicate exception entry %q (roots %q and %q)", e.Form, prev, e.Root)
		}
		table[e.Form] = e.Root
	}
	// The mapped roots are canonical lemmas; register each as a fixed
	// point so re-stemming a table-produced root never strips it
	// further (terima would otherwise lose its ter-).
	for _, e := range entries {
		if _, ok := table[e.Root]; !ok {
			table[e.Root] = e.Root
		}
	}
	return table, nil
}
