// Package runlog keeps an append-only audit trail of processing runs.
// Every invocation that touches a statement records what it read and how
// the transactions were resolved, so reruns and review sessions can be
// traced later.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	Source       string // input statement path
	Transactions int
	RuleMatched  int
	Classified   int
	Flagged      int
	Reconciled   string // "pass", "fail", or "" when skipped
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,source,transactions,rule_matched,classified,flagged,reconciled"

const (
	numFields       = 8
	logFile         = "run-log.csv"
	colTimestamp    = 0
	colRunID        = 1
	colSource       = 2
	colTransactions = 3
	colRuleMatched  = 4
	colClassified   = 5
	colFlagged      = 6
	colReconciled   = 7
)

// NewRunID returns a fresh identifier for one processing run.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colRuleMatched] = strconv.Itoa(e.RuleMatched)
	row[colClassified] = strconv.Itoa(e.Classified)
	row[colFlagged] = strconv.Itoa(e.Flagged)
	row[colReconciled] = e.Reconciled
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Source:     record[colSource],
		Reconciled: record[colReconciled],
	}
	for _, f := range []struct {
		col int
		dst *int
	}{
		{colTransactions, &e.Transactions},
		{colRuleMatched, &e.RuleMatched},
		{colClassified, &e.Classified},
		{colFlagged, &e.Flagged},
	} {
		n, err := strconv.Atoi(record[f.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[f.col], err)
		}
		*f.dst = n
	}
	return e, nil
}

// Append writes entries to <dir>/run-log.csv, creating the file and header
// if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return cw.Error()
}

// Read returns all entries from <dir>/run-log.csv. A missing file reads as
// empty.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
