package reconcile

// Index maps an identity key to the dates it occurs on in one ledger, with
// a consumed flag per date. Each (key, date) pair is a single slot: a
// ledger holding the same pair twice still has one slot to claim.
//
// An Index belongs to a single matcher pass and must not be shared.
type Index struct {
	slots    map[string]map[string]bool
	consumed int
}

// NewIndex builds the index of records in input order. Records without a
// valid calendar date register nothing.
func NewIndex(records []Record) *Index {
	idx := &Index{slots: make(map[string]map[string]bool)}
	for _, r := range records {
		d, err := parseDay(r.Date())
		if err != nil {
			continue
		}
		key := r.IdentityKey()
		dates, ok := idx.slots[key]
		if !ok {
			dates = make(map[string]bool)
			idx.slots[key] = dates
		}
		dates[d.Format(DateLayout)] = false
	}
	return idx
}

// Has reports whether key occurs in the ledger at all.
func (idx *Index) Has(key string) bool {
	_, ok := idx.slots[key]
	return ok
}

// Available reports whether the (key, date) slot exists and is unconsumed.
func (idx *Index) Available(key, date string) bool {
	consumed, ok := idx.slots[key][date]
	return ok && !consumed
}

// Claim consumes the (key, date) slot if it is available.
func (idx *Index) Claim(key, date string) bool {
	if !idx.Available(key, date) {
		return false
	}
	idx.slots[key][date] = true
	idx.consumed++
	return true
}

// Len returns the number of slots.
func (idx *Index) Len() int {
	n := 0
	for _, dates := range idx.slots {
		n += len(dates)
	}
	return n
}

// Consumed returns the number of claimed slots.
func (idx *Index) Consumed() int {
	return idx.consumed
}
