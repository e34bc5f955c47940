package journal

import (
	"errors"
	"strings"

	"github.com/howeyc/reconcile"
	"github.com/shopspring/decimal"
)

var (
	ErrNeedAtLeastTwoPostings        = errors.New("need at least two postings")
	ErrNoEmptyAccountForExtraBalance = errors.New("unable to balance transaction: no empty account to place extra balance")
	ErrMoreThanOneEmptyAccountInTx   = errors.New("unable to balance transaction: more than one account empty")
)

// IsBalanced returns nil if the transaction is balanced to 0, otherwise an
// error. A single posting without an amount receives the balancing amount.
func (t *Transaction) IsBalanced() error {
	if len(t.Postings) < 2 {
		return ErrNeedAtLeastTwoPostings
	}

	transBal := decimal.Zero
	var numEmpty int
	var emptyIdx int

	for i, p := range t.Postings {
		if p.Amount.IsZero() {
			numEmpty++
			emptyIdx = i
		}
		transBal = transBal.Add(p.Amount)
	}

	if !transBal.IsZero() {
		switch numEmpty {
		case 0:
			return ErrNoEmptyAccountForExtraBalance
		case 1:
			t.Postings[emptyIdx].Amount = transBal.Neg()
		default:
			return ErrMoreThanOneEmptyAccountInTx
		}
	}

	return nil
}

// Records flattens postings into reconciliation records of the form
// (date, account, amount, payee). Only postings whose account contains
// accountFilter are kept; an empty filter keeps every posting.
func Records(transactions []*Transaction, accountFilter string) []reconcile.Record {
	var out []reconcile.Record
	for _, t := range transactions {
		for _, p := range t.Postings {
			if !strings.Contains(p.Account, accountFilter) {
				continue
			}
			out = append(out, reconcile.Record{
				t.Date.Format(reconcile.DateLayout),
				p.Account,
				p.Amount.StringFixed(2),
				t.Payee,
			})
		}
	}
	return out
}
