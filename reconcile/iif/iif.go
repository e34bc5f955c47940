// Package iif decodes QuickBooks Intuit Interchange Format exports.
//
// An IIF file is tab separated. Rows starting with '!' declare the field
// names of a record type; the rows that follow hold records of the
// declared types. Transactions span TRNS, SPL... and ENDTRNS rows.
package iif

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrUnknownRecordType = errors.New("iif: unknown record type")
	ErrEmptyHeader       = errors.New("iif: record before any header")
)

const endTransaction RecordType = "ENDTRNS"

type RecordType string

type Header struct {
	Type   RecordType
	Fields []string
}

type Record struct {
	Type   RecordType
	Fields map[string]string
}

// Block is a run of header rows followed by the records they describe.
// Records are grouped: a TRNS group runs up to its ENDTRNS row, any other
// record is a group of its own.
type Block struct {
	Headers []Header
	Records [][]Record
}

type File struct {
	Blocks []Block
}

type Decoder struct {
	r *csv.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false
	reader.FieldsPerRecord = -1
	return &Decoder{r: reader}
}

// MapFields pairs the header field names with the values of a row.
func (h Header) MapFields(fields []string) map[string]string {
	m := make(map[string]string, len(h.Fields))
	for i, f := range h.Fields {
		if i >= len(fields) {
			break
		}
		m[f] = fields[i]
	}
	return m
}

func (b *Block) header(t RecordType) (Header, bool) {
	for _, h := range b.Headers {
		if h.Type == t {
			return h, true
		}
	}
	return Header{}, false
}

// Decode reads the whole file.
func (d *Decoder) Decode() (*File, error) {
	f := &File{}
	bi := -1
	inData := false
	var group []Record

	flush := func() {
		if len(group) > 0 {
			f.Blocks[bi].Records = append(f.Blocks[bi].Records, group)
			group = nil
		}
	}

	for {
		row, err := d.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		line, _ := d.r.FieldPos(0)

		if strings.HasPrefix(row[0], "!") {
			if bi < 0 || inData {
				if bi >= 0 {
					flush()
				}
				f.Blocks = append(f.Blocks, Block{})
				bi = len(f.Blocks) - 1
				inData = false
			}
			f.Blocks[bi].Headers = append(f.Blocks[bi].Headers, Header{
				Type:   RecordType(row[0][1:]),
				Fields: trimLine(row[1:]),
			})
			continue
		}

		if bi < 0 {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyHeader)
		}
		inData = true
		h, ok := f.Blocks[bi].header(RecordType(row[0]))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %s", line, ErrUnknownRecordType, row[0])
		}
		group = append(group, Record{Type: h.Type, Fields: h.MapFields(row[1:])})
		if h.Type == endTransaction || len(f.Blocks[bi].Headers) == 1 {
			flush()
		}
	}
	if bi >= 0 {
		flush()
	}
	return f, nil
}

// trimLine drops the empty trailing fields QuickBooks pads header rows with.
func trimLine(fields []string) []string {
	for i, r := range fields {
		if r == "" {
			return fields[:i]
		}
	}
	return fields
}
