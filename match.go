package reconcile

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRecord = errors.New("record has no fields")
)

// Match annotates every source record, in input order, with whether it has
// a counterpart in the opposing index. Matching consumes index slots.
//
// A record matches a slot with the same identity key dated on the record's
// day or one day either side. When the record's own day is available the
// day before is still claimed first. A record whose exact (date, key) pair already matched
// in this pass is a duplicate and is reported Missing.
func Match(source []Record, opposing *Index) ([]Annotated, error) {
	if opposing == nil {
		opposing = NewIndex(nil)
	}

	out := make([]Annotated, len(source))
	matched := make(map[dated]bool)
	for i, r := range source {
		if len(r) == 0 {
			return nil, fmt.Errorf("record %d: %w", i+1, ErrEmptyRecord)
		}
		out[i] = Annotated{Record: r, Status: Missing}

		w, err := newWindow(r.Date())
		if err != nil {
			continue
		}

		pair := dated{date: w.day, key: r.IdentityKey()}
		if matched[pair] {
			continue
		}

		if claim(opposing, pair.key, w) {
			matched[pair] = true
			out[i].Status = Found
		}
	}
	return out, nil
}

func claim(idx *Index, key string, w window) bool {
	if !idx.Has(key) {
		return false
	}
	if idx.Available(key, w.day) {
		if idx.Claim(key, w.before) {
			return true
		}
		return idx.Claim(key, w.day)
	}
	return idx.Claim(key, w.before) || idx.Claim(key, w.after)
}
