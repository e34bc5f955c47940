package reconcile

import "strings"

// Status is the outcome of looking a record up in the opposing ledger.
type Status string

const (
	Found   Status = "FOUND"
	Missing Status = "MISSING"
)

// keySep joins identity fields. It is a control character so that field
// values containing commas cannot collide with neighbouring fields.
const keySep = "\x1f"

// Record is one ledger entry as split string fields. Field 0 is the date
// (YYYY-MM-DD); the remaining fields identify the kind of transaction.
type Record []string

// Date returns the date field, or "" for a record without fields.
func (r Record) Date() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// IdentityKey joins every field except the date. Records with equal keys
// are the same kind of transaction.
func (r Record) IdentityKey() string {
	if len(r) < 2 {
		return ""
	}
	return strings.Join(r[1:], keySep)
}

// Annotated is a source record paired with the result of matching it.
type Annotated struct {
	Record Record
	Status Status
}

// Fields returns a copy of the record with the status appended as the
// trailing field.
func (a Annotated) Fields() []string {
	out := make([]string, 0, len(a.Record)+1)
	out = append(out, a.Record...)
	return append(out, string(a.Status))
}

// dated is the literal (date, identity) pair used to detect the same
// record appearing twice within one ledger.
type dated struct {
	date string
	key  string
}
