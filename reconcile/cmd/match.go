package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/howeyc/reconcile"
	"github.com/howeyc/reconcile/reconcile/internal/fastcolor"
	"github.com/howeyc/reconcile/reconcile/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var outFileA, outFileB string
var missingOnly bool
var amountField int
var outputFormat string
var columnWidth int
var columnWide bool
var delimiterFlag string
var headerFlag bool
var dateFormatFlag string
var accountFlag string

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <ledger-a> <ledger-b>",
	Args:  cobra.ExactArgs(2),
	Short: "Mark every entry of two ledgers FOUND or MISSING in the other",
	Example: `  reconcile match books.csv statement.csv
  reconcile match --date-format auto --header --out-b unmatched.csv books.ledger bank.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := uuid.NewString()
		log := logger.FromContext(cmd.Context()).With().Str("run_id", runID).Logger()
		ctx := logger.WithContext(cmd.Context(), log)

		opts := sourceOptions(cmd)
		start := time.Now()

		a, err := LoadLedger(ctx, args[0], opts)
		if err != nil {
			return err
		}
		b, err := LoadLedger(ctx, args[1], opts)
		if err != nil {
			return err
		}

		res, err := reconcile.Reconcile(a, b)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		field := cfg.AmountField
		if cmd.Flags().Changed("amount-field") {
			field = amountField
		}
		totals := [2]sideTotals{
			newSideTotals(res, reconcile.SideA, field),
			newSideTotals(res, reconcile.SideB, field),
		}
		for i, t := range totals {
			ev := log.Info().
				Str("side", reconcile.Side(i).String()).
				Int("total", t.Total).
				Int("found", t.Found).
				Int("missing", t.Missing)
			if field > 0 {
				ev = ev.Str("missing_amount", t.MissingAmount.StringFixed(2))
			}
			ev.Msg("reconciled")
		}
		log.Debug().Str("elapsed", durafmt.Parse(elapsed).LimitFirstN(2).String()).Msg("done")

		comma := fieldDelimiter(opts.Delimiter)
		out := cmd.OutOrStdout()
		switch outputFormat {
		case "table":
			PrintReport(out, res, [2]string{args[0], args[1]}, terminalColumns(columnWidth, columnWide), missingOnly)
			printSummary(out, totals, field > 0, elapsed)
		case "csv":
			if err := PrintCSV(out, res, comma, missingOnly); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q", outputFormat)
		}

		if outFileA != "" {
			if err := writeAnnotatedFile(outFileA, res.A, comma, missingOnly); err != nil {
				return err
			}
		}
		if outFileB != "" {
			if err := writeAnnotatedFile(outFileB, res.B, comma, missingOnly); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&outFileA, "out-a", "", "Write the annotated first ledger to this file.")
	matchCmd.Flags().StringVar(&outFileB, "out-b", "", "Write the annotated second ledger to this file.")
	matchCmd.Flags().BoolVar(&missingOnly, "missing-only", false, "Only output entries reported MISSING.")
	matchCmd.Flags().IntVar(&amountField, "amount-field", 0, "Index of the amount field summed for MISSING entries\n(the date is field 0; 0 disables totals).")
	matchCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table or csv.")
	matchCmd.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
	matchCmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
	matchCmd.Flags().StringVar(&delimiterFlag, "delimiter", ",", "Field delimiter.")
	matchCmd.Flags().BoolVar(&headerFlag, "header", false, "CSV inputs start with a header row.")
	matchCmd.Flags().StringVar(&dateFormatFlag, "date-format", reconcile.DateLayout, "Date layout of CSV inputs, or \"auto\" to detect it.")
	matchCmd.Flags().StringVar(&accountFlag, "account", "", "Only use journal postings to accounts containing this string.")
}

// sourceOptions merges flags set on the command line over the loaded
// configuration.
func sourceOptions(cmd *cobra.Command) SourceOptions {
	opts := SourceOptions{
		Delimiter:  cfg.Delimiter,
		Header:     cfg.Header,
		DateFormat: cfg.DateFormat,
		Account:    cfg.Account,
	}
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		opts.Delimiter = delimiterFlag
	}
	if flags.Changed("header") {
		opts.Header = headerFlag
	}
	if flags.Changed("date-format") {
		opts.DateFormat = dateFormatFlag
	}
	if flags.Changed("account") {
		opts.Account = accountFlag
	}
	return opts
}

type sideTotals struct {
	reconcile.Summary
	MissingAmount decimal.Decimal
	// Unparsed counts MISSING entries whose amount field is not a number.
	Unparsed int
}

func newSideTotals(res *reconcile.Result, side reconcile.Side, field int) sideTotals {
	t := sideTotals{Summary: res.Summary(side), MissingAmount: decimal.Zero}
	if field <= 0 {
		return t
	}
	for _, a := range res.Side(side) {
		if a.Status != reconcile.Missing {
			continue
		}
		if field >= len(a.Record) {
			t.Unparsed++
			continue
		}
		amt, err := decimal.NewFromString(strings.TrimSpace(a.Record[field]))
		if err != nil {
			t.Unparsed++
			continue
		}
		t.MissingAmount = t.MissingAmount.Add(amt)
	}
	return t
}

func printSummary(w io.Writer, totals [2]sideTotals, withAmounts bool, elapsed time.Duration) {
	colorMissing := fastcolor.FgRed
	colorReset := fastcolor.Reset

	var sb strings.Builder
	sb.WriteString(newLine)
	for i, t := range totals {
		fmt.Fprintf(&sb, "%s: %d entries, %d found, ", reconcile.Side(i), t.Total, t.Found)
		c := colorReset
		if t.Missing > 0 {
			c = colorMissing
		}
		c.WriteString(&sb, fmt.Sprintf("%d missing", t.Missing))
		if withAmounts {
			sb.WriteString(" (")
			c.WriteString(&sb, t.MissingAmount.StringFixedBank(2))
			if t.Unparsed > 0 {
				fmt.Fprintf(&sb, ", %d without amount", t.Unparsed)
			}
			sb.WriteString(")")
		}
		sb.WriteString(newLine)
	}
	fmt.Fprintf(&sb, "reconciled in %s", durafmt.Parse(elapsed).LimitFirstN(2))
	sb.WriteString(newLine)
	io.WriteString(w, sb.String())
}
