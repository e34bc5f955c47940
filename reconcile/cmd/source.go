package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/howeyc/reconcile"
	"github.com/howeyc/reconcile/reconcile/iif"
	"github.com/howeyc/reconcile/reconcile/internal/logger"
	"github.com/howeyc/reconcile/reconcile/journal"
	"github.com/howeyc/reconcile/reconcile/qif"
	date "github.com/joyt/godate"
)

var (
	ErrArityMismatch = errors.New("inconsistent number of fields")
)

// autoDateFormat asks the CSV reader to detect the date layout.
const autoDateFormat = "auto"

// SourceOptions controls how a ledger file is turned into records.
type SourceOptions struct {
	Delimiter  string
	Header     bool
	DateFormat string
	// Account keeps only journal postings whose account contains it.
	Account string
}

// LoadLedger reads the ledger at path, choosing the reader by extension.
// A ".br" suffix is decompressed first and the remaining extension picks
// the format. "-" reads CSV from stdin. Every returned record has the same
// number of fields.
func LoadLedger(ctx context.Context, path string, opts SourceOptions) ([]reconcile.Record, error) {
	log := logger.FromContext(ctx)

	var r io.Reader = os.Stdin
	name := path
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if strings.EqualFold(filepath.Ext(name), ".br") {
		r = brotli.NewReader(r)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	var (
		records []reconcile.Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".qif":
		var txs []*qif.Transaction
		if txs, err = qif.ParseQIF(r); err == nil {
			records = qif.Records(txs)
		}
	case ".iif":
		var f *iif.File
		if f, err = iif.NewDecoder(r).Decode(); err == nil {
			records = f.Records()
		}
	case ".ledger", ".journal", ".dat":
		var txs []*journal.Transaction
		if name == path {
			txs, err = journal.ParseFile(path)
		} else {
			txs, err = journal.Parse(r)
		}
		if err == nil {
			records = journal.Records(txs, opts.Account)
		}
	default:
		records, err = readCSV(ctx, r, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := checkArity(records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().Str("file", path).Int("records", len(records)).Msg("loaded ledger")
	return records, nil
}

func checkArity(records []reconcile.Record) error {
	if len(records) == 0 {
		return nil
	}
	want := len(records[0])
	for i, rec := range records {
		if len(rec) != want {
			return fmt.Errorf("record %d has %d fields, want %d: %w", i+1, len(rec), want, ErrArityMismatch)
		}
	}
	return nil
}

// fieldDelimiter returns the first rune of s, accepting a literal `\t`.
func fieldDelimiter(s string) rune {
	if s == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func readCSV(ctx context.Context, r io.Reader, opts SourceOptions) ([]reconcile.Record, error) {
	log := logger.FromContext(ctx)

	csvReader := csv.NewReader(r)
	csvReader.Comma = fieldDelimiter(opts.Delimiter)
	// Arity is checked for all formats alike after loading.
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	first := 1
	if opts.Header && len(rows) > 0 {
		rows = rows[1:]
		first = 2
	}

	dates := dateNormalizer{layout: opts.DateFormat}
	records := make([]reconcile.Record, 0, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			d, ok := dates.normalize(row[0])
			if !ok {
				log.Warn().Int("row", first+i).Str("date", row[0]).Msg("unparseable date, entry will be reported missing")
			}
			row[0] = d
		}
		records = append(records, reconcile.Record(row))
	}
	return records, nil
}

// dateNormalizer rewrites input dates to reconcile.DateLayout. With the
// auto layout, the layout detected for one value is tried first on the
// next, as exports use a single layout throughout.
type dateNormalizer struct {
	layout string
	last   string
}

// normalize returns the date in canonical form and true, or the input
// unchanged and false when it cannot be parsed.
func (d *dateNormalizer) normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	layout := d.layout
	if layout == "" {
		layout = reconcile.DateLayout
	}

	if layout != autoDateFormat {
		t, err := time.Parse(layout, s)
		if err != nil {
			return s, false
		}
		return t.Format(reconcile.DateLayout), true
	}

	if d.last != "" {
		if t, err := time.Parse(d.last, s); err == nil {
			return t.Format(reconcile.DateLayout), true
		}
	}
	t, detected, err := date.ParseAndGetLayout(s)
	if err != nil {
		return s, false
	}
	d.last = detected
	return t.Format(reconcile.DateLayout), true
}
