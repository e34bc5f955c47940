package iif

import (
	"strings"
	"time"

	"github.com/howeyc/reconcile"
	"github.com/shopspring/decimal"
)

// QuickBooks writes dates as M/D/YYYY.
const dateLayout = "1/2/2006"

// Line is the reconciliation-relevant part of a TRNS or SPL row.
type Line struct {
	TransactionType string
	Date            string
	Account         string
	Name            string
	Amount          string
	Memo            string
}

// Transaction is a TRNS row with the SPL rows that follow it.
type Transaction struct {
	Tr     Line
	Splits []Line
}

func lineFromRecord(r Record) Line {
	return Line{
		TransactionType: r.Fields["TRNSTYPE"],
		Date:            r.Fields["DATE"],
		Account:         r.Fields["ACCNT"],
		Name:            r.Fields["NAME"],
		Amount:          r.Fields["AMOUNT"],
		Memo:            r.Fields["MEMO"],
	}
}

// Transactions collects every TRNS group of the file in order.
func (f *File) Transactions() []Transaction {
	var out []Transaction
	for _, b := range f.Blocks {
		for _, group := range b.Records {
			if len(group) == 0 || group[0].Type != "TRNS" {
				continue
			}
			tx := Transaction{Tr: lineFromRecord(group[0])}
			for _, r := range group[1:] {
				if r.Type == "SPL" {
					tx.Splits = append(tx.Splits, lineFromRecord(r))
				}
			}
			out = append(out, tx)
		}
	}
	return out
}

// Record converts the TRNS row to (date, account, amount, name). When the
// TRNS row has no name the first split's name is used.
func (t Transaction) Record() reconcile.Record {
	name := t.Tr.Name
	if name == "" && len(t.Splits) > 0 {
		name = t.Splits[0].Name
	}
	return reconcile.Record{
		normalizeDate(t.Tr.Date),
		strings.TrimSpace(t.Tr.Account),
		normalizeAmount(t.Tr.Amount),
		strings.TrimSpace(name),
	}
}

// Records converts every transaction of the file.
func (f *File) Records() []reconcile.Record {
	txs := f.Transactions()
	out := make([]reconcile.Record, len(txs))
	for i, tx := range txs {
		out[i] = tx.Record()
	}
	return out
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(reconcile.DateLayout)
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	dec, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return s
	}
	return dec.StringFixed(2)
}
