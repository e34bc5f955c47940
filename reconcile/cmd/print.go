package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/howeyc/reconcile"
	"github.com/howeyc/reconcile/reconcile/internal/fastcolor"
	"golang.org/x/term"
)

const (
	newLine     = "\n"
	statusWidth = 7
)

// terminalColumns widens the default width to the terminal when wide is
// set, as long as the width was not chosen explicitly.
func terminalColumns(columns int, wide bool) int {
	if columns == 80 && wide {
		columns = 132
		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			tw, _, err := term.GetSize(fd)
			if err == nil {
				columns = tw
			}
		}
	}
	return columns
}

// PrintReport writes both sides of res as fixed-width tables titled with
// the ledger names.
func PrintReport(w io.Writer, res *reconcile.Result, names [2]string, columns int, missingOnly bool) {
	// date, status and the two separating spaces are fixed; the identity
	// fields get the rest
	if columns < 30 {
		columns = 30
		fmt.Fprintf(os.Stderr, "warning: `columns` too small, setting to %d\n", columns)
	}
	descWidth := columns - 10 - statusWidth - 2

	colorTitle := fastcolor.Bold
	colorDate := fastcolor.FgGray
	colorFound := fastcolor.FgGreen
	colorMissing := fastcolor.FgRed
	colorReset := fastcolor.Reset

	buf := bufio.NewWriter(w)
	for i, side := range []reconcile.Side{reconcile.SideA, reconcile.SideB} {
		if i > 0 {
			buf.WriteString(newLine)
		}
		colorTitle.WriteString(buf, side.String()+": "+names[i])
		buf.WriteString(newLine)
		buf.WriteString(strings.Repeat("-", columns))
		buf.WriteString(newLine)

		for _, a := range res.Side(side) {
			if missingOnly && a.Status == reconcile.Found {
				continue
			}
			statusColor := colorFound
			if a.Status == reconcile.Missing {
				statusColor = colorMissing
			}
			colorDate.WriteStringFixed(buf, a.Record.Date(), 10, false)
			buf.WriteString(" ")
			var desc string
			if len(a.Record) > 1 {
				desc = strings.Join(a.Record[1:], "  ")
			}
			colorReset.WriteStringFixed(buf, desc, descWidth, false)
			buf.WriteString(" ")
			statusColor.WriteStringFixed(buf, string(a.Status), statusWidth, true)
			buf.WriteString(newLine)
		}
	}
	buf.Flush()
}

// WriteAnnotated writes annotated records as delimited rows, each record
// followed by its status.
func WriteAnnotated(w io.Writer, annotated []reconcile.Annotated, comma rune, missingOnly bool) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = comma
	for _, a := range annotated {
		if missingOnly && a.Status == reconcile.Found {
			continue
		}
		if err := csvWriter.Write(a.Fields()); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// PrintCSV writes both sides of res to w, each row prefixed by its side.
func PrintCSV(w io.Writer, res *reconcile.Result, comma rune, missingOnly bool) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = comma
	for _, side := range []reconcile.Side{reconcile.SideA, reconcile.SideB} {
		for _, a := range res.Side(side) {
			if missingOnly && a.Status == reconcile.Found {
				continue
			}
			row := append([]string{side.String()}, a.Fields()...)
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeAnnotatedFile writes one side of the result to path.
func writeAnnotatedFile(path string, annotated []reconcile.Annotated, comma rune, missingOnly bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteAnnotated(f, annotated, comma, missingOnly); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
