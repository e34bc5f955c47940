// Package journal reads plain-text ledger journals so their postings can
// take part in a reconciliation.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one account line of a transaction.
type Posting struct {
	Account string
	Amount  decimal.Decimal
	Comment string
}

// Transaction is a dated journal entry. The date has no meaningful time of
// day. Postings of a parsed Transaction always sum to zero.
type Transaction struct {
	Date         time.Time
	Payee        string
	PayeeComment string
	Postings     []Posting
	Comments     []string
}
