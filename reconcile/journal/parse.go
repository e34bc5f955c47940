package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alfredxing/calc/compute"
	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"
)

// Regex groups:
// 1: account name
// 2: amount (number or parenthesized expression)
var postingRE = regexp.MustCompile(
	`^(?P<name>.+?)` +
		`(?:(?:\s{2,}|\t)` +
		`(?P<amount>[\-]?\d+(?:\.\d+)?|\([0-9+\-*\/. ]+\)))?\s*$`,
)

// ParseFile parses a journal file and returns its transactions in file
// order. "include <glob>" directives are resolved relative to the file and
// parsed in place.
func ParseFile(filename string) ([]*Transaction, error) {
	ifile, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer ifile.Close()
	return parse(filename, ifile)
}

// Parse parses a journal from r.
func Parse(r io.Reader) ([]*Transaction, error) {
	return parse("", r)
}

type lineScanner struct {
	*bufio.Scanner
	name string
	line int
}

func (s *lineScanner) Scan() bool {
	if s.Scanner.Scan() {
		s.line++
		return true
	}
	return false
}

type parser struct {
	scanner *lineScanner

	dateLayout  string
	strPrevDate string
	prevDateErr error
	prevDate    time.Time
}

func parse(filename string, r io.Reader) ([]*Transaction, error) {
	lp := parser{
		scanner:    &lineScanner{Scanner: bufio.NewScanner(r), name: filename},
		dateLayout: "2006/01/02",
	}

	var tlist []*Transaction
	comments := []string{}
	for lp.scanner.Scan() {
		trimmedLine := strings.TrimSpace(lp.scanner.Text())

		var currentComment string
		if commentIdx := strings.Index(trimmedLine, ";"); commentIdx >= 0 {
			currentComment = trimmedLine[commentIdx:]
			trimmedLine = strings.TrimSpace(trimmedLine[:commentIdx])
		}

		if len(trimmedLine) == 0 {
			if len(currentComment) > 0 {
				comments = append(comments, currentComment)
			}
			continue
		}

		before, after, split := strings.Cut(trimmedLine, " ")
		if !split {
			return nil, lp.errorf("unable to parse payee line: %s", trimmedLine)
		}
		switch before {
		case "account":
			lp.skipAccount()
		case "include":
			included, err := lp.include(after)
			if err != nil {
				return nil, err
			}
			tlist = append(tlist, included...)
		default:
			trans, err := lp.parseTransaction(before, after, currentComment, comments)
			comments = []string{}
			if err != nil {
				return nil, lp.errorf("%w", err)
			}
			tlist = append(tlist, trans)
		}
	}
	if err := lp.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return tlist, nil
}

func (lp *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: unable to parse transaction: %w", lp.scanner.name, lp.scanner.line, fmt.Errorf(format, args...))
}

func (lp *parser) include(pattern string) ([]*Transaction, error) {
	paths, _ := filepath.Glob(filepath.Join(filepath.Dir(lp.scanner.name), pattern))
	if len(paths) < 1 {
		return nil, fmt.Errorf("%s:%d: unable to include file(%s): %w", lp.scanner.name, lp.scanner.line, pattern, errors.New("not found"))
	}
	var out []*Transaction
	for _, incpath := range paths {
		trans, err := ParseFile(incpath)
		if err != nil {
			return nil, err
		}
		out = append(out, trans...)
	}
	return out, nil
}

func (lp *parser) skipAccount() {
	for lp.scanner.Scan() {
		// Read until blank line (ignore all sub-directives)
		if len(lp.scanner.Text()) == 0 {
			return
		}
	}
}

func (lp *parser) parseDate(dateString string) (transDate time.Time, err error) {
	// seen before, skip parse
	if lp.strPrevDate == dateString {
		return lp.prevDate, lp.prevDateErr
	}

	transDate, err = time.Parse(lp.dateLayout, dateString)
	if err != nil {
		var layout string
		transDate, layout, err = date.ParseAndGetLayout(dateString)
		if err != nil {
			err = fmt.Errorf("unable to parse date(%s): %w", dateString, err)
		} else {
			lp.dateLayout = layout
		}
	}

	lp.strPrevDate = dateString
	lp.prevDate = transDate
	lp.prevDateErr = err

	return
}

func parsePosting(trimmedLine string, comment string) (p Posting, err error) {
	m := postingRE.FindStringSubmatch(strings.TrimSpace(trimmedLine))
	if m == nil {
		return p, fmt.Errorf("invalid posting: %q", trimmedLine)
	}

	p.Account = m[1]
	p.Comment = comment

	switch {
	case m[2] == "":
	case strings.HasPrefix(m[2], "("):
		bal, err := compute.Evaluate(m[2])
		if err != nil {
			return p, fmt.Errorf("invalid amount %s: %w", m[2], err)
		}
		p.Amount = decimal.NewFromFloat(bal)
	default:
		p.Amount, err = decimal.NewFromString(m[2])
		if err != nil {
			return p, err
		}
	}
	return p, nil
}

func (lp *parser) parseTransaction(dateString, payeeString, payeeComment string, comments []string) (*Transaction, error) {
	transDate, err := lp.parseDate(dateString)
	if err != nil {
		return nil, err
	}

	trans := &Transaction{
		Date:         transDate,
		Payee:        payeeString,
		PayeeComment: payeeComment,
	}
	for lp.scanner.Scan() {
		line := lp.scanner.Text()
		postingComment := ""
		if commentIdx := strings.Index(line, ";"); commentIdx >= 0 {
			currentComment := line[commentIdx:]
			line = strings.TrimSpace(line[:commentIdx])
			if len(line) == 0 {
				comments = append(comments, currentComment)
				continue
			}
			postingComment = currentComment
		}
		if len(strings.TrimSpace(line)) == 0 {
			break
		}

		posting, err := parsePosting(line, postingComment)
		if err != nil {
			return nil, err
		}
		trans.Postings = append(trans.Postings, posting)
	}

	if len(comments) > 0 {
		trans.Comments = comments
	}

	if err := trans.IsBalanced(); err != nil {
		return nil, err
	}
	return trans, nil
}
