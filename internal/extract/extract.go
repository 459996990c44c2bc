// Package extract turns bank-statement files into normalized transactions.
//
// Each supported format has an Extractor; a Registry picks one by file
// extension. All extractors share the same column-detection and row-merging
// machinery and produce the same Result shape, so downstream stages never
// care which format the statement arrived in.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/profile"
)

// ErrNoTransactions is returned when a file yields no transactions at all.
// Row-level defects degrade to ValidationIssues instead; this error means
// the whole file is unusable.
var ErrNoTransactions = errors.New("no transactions extracted")

// Result is the output of one extraction run.
type Result struct {
	Transactions []*model.Transaction
	Issues       []model.ValidationIssue
	Profile      profile.Profile
	Roles        Roles
}

// Summary aggregates the extracted transactions.
func (r *Result) Summary() model.Summary {
	return model.Summarize(r.Transactions)
}

// Extractor converts one statement file into a Result.
type Extractor interface {
	Extract(path string) (*Result, error)
	Format() string
}

// Registry holds extractors keyed by format name.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register adds an extractor. Panics on duplicate format.
func (r *Registry) Register(e Extractor) {
	key := strings.ToLower(e.Format())
	if _, ok := r.extractors[key]; ok {
		panic("duplicate extractor format: " + key)
	}
	r.extractors[key] = e
}

// Get returns the extractor for a format name, or nil.
func (r *Registry) Get(format string) Extractor {
	return r.extractors[strings.ToLower(format)]
}

// ForFile picks an extractor from the file extension.
func (r *Registry) ForFile(path string) (Extractor, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xls":
		ext = "xlsx"
	}
	e := r.Get(ext)
	if e == nil {
		return nil, fmt.Errorf("unsupported statement format %q", ext)
	}
	return e, nil
}

// DefaultRegistry returns a registry with all built-in extractors sharing
// one profile registry.
func DefaultRegistry(profiles *profile.Registry) *Registry {
	r := NewRegistry()
	r.Register(&CSV{Profiles: profiles})
	r.Register(&XLSX{Profiles: profiles})
	return r
}
