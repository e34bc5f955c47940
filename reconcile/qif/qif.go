// Package qif decodes non-investment Quicken Interchange Format exports
// into reconciliation records.
package qif

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/howeyc/reconcile"
	"github.com/shopspring/decimal"
)

var (
	ErrUnexpectedEOF = errors.New("qif: unexpected EOF while reading transaction")
)

// Date layouts tried in order. QIF dates are locale specific.
var dateLayouts = []string{"01/02/2006", "02/01/2006", "2006-01-02"}

// Transaction holds the fields of one QIF entry that take part in
// reconciliation. Only the first split is kept.
type Transaction struct {
	Type     string // from the "!Type:" header
	Date     string // D
	Amount   string // T, or U when present
	Num      string // N
	Payee    string // P
	Memo     string // M, repeated lines joined with '\n'
	Cleared  string // C
	Category string // L

	SplitCategory string // S
	SplitMemo     string // E
	SplitAmount   string // $
}

// Decoder reads QIF data from an input stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a new QIF decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads every transaction up to EOF.
func (d *Decoder) Decode() ([]*Transaction, error) {
	var (
		transactions []*Transaction
		currentType  string
	)

	for {
		line, err := d.readLine()
		if err == io.EOF {
			return transactions, nil
		}
		if err != nil {
			return nil, err
		}

		switch {
		case len(line) == 0:
		case strings.HasPrefix(line, "!Type:"):
			currentType = strings.TrimSpace(line[len("!Type:"):])
		case line[0] == 'D':
			tx, err := d.decodeTransaction(currentType, line)
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, tx)
		}
	}
}

// decodeTransaction reads fields after the already consumed 'D' line until
// the '^' end marker.
func (d *Decoder) decodeTransaction(txType string, firstLine string) (*Transaction, error) {
	tx := &Transaction{Type: txType}
	tx.assign(firstLine)

	for {
		line, err := d.readLine()
		if err == io.EOF {
			return nil, ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		if line[0] == '^' {
			return tx, nil
		}
		tx.assign(line)
	}
}

func (tx *Transaction) assign(line string) {
	value := line[1:]
	switch line[0] {
	case 'D':
		tx.Date = value
	case 'T', 'U':
		tx.Amount = value
	case 'N':
		tx.Num = value
	case 'P':
		tx.Payee = value
	case 'M':
		if tx.Memo != "" {
			value = tx.Memo + "\n" + value
		}
		tx.Memo = value
	case 'C':
		tx.Cleared = value
	case 'L':
		tx.Category = value
	case 'S':
		if tx.SplitCategory == "" {
			tx.SplitCategory = value
		}
	case 'E':
		if tx.SplitMemo == "" {
			tx.SplitMemo = value
		}
	case '$':
		if tx.SplitAmount == "" {
			tx.SplitAmount = value
		}
	}
}

// readLine reads one line without its '\n' or '\r\n'.
func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && len(line) == 0 {
		return "", io.EOF
	}
	return line, nil
}

// ParseQIF parses all transactions from a QIF stream.
func ParseQIF(reader io.Reader) ([]*Transaction, error) {
	return NewDecoder(reader).Decode()
}

// Record converts tx to (date, category, amount, payee). The date is
// rewritten as YYYY-MM-DD and the amount to two decimals; values that do
// not parse are kept verbatim.
func (tx *Transaction) Record() reconcile.Record {
	return reconcile.Record{
		normalizeDate(tx.Date),
		strings.TrimSpace(tx.Category),
		normalizeAmount(tx.Amount),
		strings.TrimSpace(tx.Payee),
	}
}

// Records converts every transaction with Record.
func Records(transactions []*Transaction) []reconcile.Record {
	out := make([]reconcile.Record, len(transactions))
	for i, tx := range transactions {
		out[i] = tx.Record()
	}
	return out
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(reconcile.DateLayout)
		}
	}
	return s
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	dec, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return s
	}
	return dec.StringFixed(2)
}
