package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/howeyc/reconcile"
	"github.com/howeyc/reconcile/reconcile/internal/fastcolor"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	booksCSV = "2024-03-01,food,10.00,lunch\n" +
		"2024-03-05,rent,900.00,flat\n"
	statementCSV = "2024-03-02,food,10.00,lunch\n" +
		"2024-03-09,misc,1.00,x\n"
)

// execute runs the root command with args, starting from default flags
// and without a config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RECONCILE_CONFIG", filepath.Join(t.TempDir(), "none.toml"))

	defer func(e bool) { fastcolor.Enabled = e }(fastcolor.Enabled)
	fastcolor.Enabled = false

	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchCmd_CSV(t *testing.T) {
	a := writeFile(t, "a.csv", booksCSV)
	b := writeFile(t, "b.csv", statementCSV)

	out, err := execute(t, "match", "--format", "csv", a, b)
	require.NoError(t, err)
	assert.Equal(t, "A,2024-03-01,food,10.00,lunch,FOUND\n"+
		"A,2024-03-05,rent,900.00,flat,MISSING\n"+
		"B,2024-03-02,food,10.00,lunch,FOUND\n"+
		"B,2024-03-09,misc,1.00,x,MISSING\n", out)
}

func TestMatchCmd_OutFiles(t *testing.T) {
	a := writeFile(t, "a.csv", booksCSV)
	b := writeFile(t, "b.csv", statementCSV)
	dir := t.TempDir()
	outA := filepath.Join(dir, "a.out.csv")
	outB := filepath.Join(dir, "b.out.csv")

	_, err := execute(t, "match", "--format", "csv", "--out-a", outA, "--out-b", outB, a, b)
	require.NoError(t, err)

	gotA, err := os.ReadFile(outA)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01,food,10.00,lunch,FOUND\n2024-03-05,rent,900.00,flat,MISSING\n", string(gotA))

	_, err = execute(t, "match", "--format", "csv", "--missing-only", "--out-b", outB, a, b)
	require.NoError(t, err)
	gotB, err := os.ReadFile(outB)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09,misc,1.00,x,MISSING\n", string(gotB))
}

func TestMatchCmd_Table(t *testing.T) {
	a := writeFile(t, "a.csv", booksCSV)
	b := writeFile(t, "b.csv", statementCSV)

	out, err := execute(t, "match", "--amount-field", "2", a, b)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "A: "+a, lines[0])
	assert.Equal(t, strings.Repeat("-", 80), lines[1])
	assert.Len(t, lines[2], 80)
	assert.True(t, strings.HasPrefix(lines[2], "2024-03-01 food  10.00  lunch"))
	assert.True(t, strings.HasSuffix(lines[2], "  FOUND"))
	assert.True(t, strings.HasSuffix(lines[3], "MISSING"))
	assert.Contains(t, out, "A: 2 entries, 1 found, 1 missing (900.00)")
	assert.Contains(t, out, "B: 2 entries, 1 found, 1 missing (1.00)")
	assert.Contains(t, out, "reconciled in ")
}

func TestMatchCmd_ConfigFile(t *testing.T) {
	a := writeFile(t, "a.csv", "day;what\n01.03.2024;food\n")
	b := writeFile(t, "b.csv", "day;what\n02.03.2024;food\n")
	conf := writeFile(t, "reconcile.toml", "delimiter = \";\"\nheader = true\ndate_format = \"02.01.2006\"\n")

	out, err := execute(t, "match", "--config", conf, "--format", "csv", a, b)
	require.NoError(t, err)
	assert.Equal(t, "A;2024-03-01;food;FOUND\nB;2024-03-02;food;FOUND\n", out)
}

func TestMatchCmd_Errors(t *testing.T) {
	a := writeFile(t, "a.csv", booksCSV)
	bad := writeFile(t, "bad.csv", "2024-03-01,food\n2024-03-02\n")

	_, err := execute(t, "match", a, bad)
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = execute(t, "match", "--format", "xml", a, a)
	assert.EqualError(t, err, `unknown output format "xml"`)

	_, err = execute(t, "match", a)
	assert.Error(t, err)
}

func TestNewSideTotals(t *testing.T) {
	res := &reconcile.Result{
		A: []reconcile.Annotated{
			{Record: reconcile.Record{"2024-03-01", "x", "1.25"}, Status: reconcile.Missing},
			{Record: reconcile.Record{"2024-03-01", "y", "100"}, Status: reconcile.Found},
			{Record: reconcile.Record{"2024-03-02", "z", "-0.25"}, Status: reconcile.Missing},
			{Record: reconcile.Record{"2024-03-02", "z", "n/a"}, Status: reconcile.Missing},
			{Record: reconcile.Record{"2024-03-02"}, Status: reconcile.Missing},
		},
	}

	got := newSideTotals(res, reconcile.SideA, 2)
	assert.Equal(t, reconcile.Summary{Total: 5, Found: 1, Missing: 4}, got.Summary)
	assert.True(t, decimal.NewFromInt(1).Equal(got.MissingAmount))
	assert.Equal(t, 2, got.Unparsed)

	got = newSideTotals(res, reconcile.SideA, 0)
	assert.True(t, got.MissingAmount.IsZero())
	assert.Zero(t, got.Unparsed)
}

func TestPrintSummary(t *testing.T) {
	defer func(e bool) { fastcolor.Enabled = e }(fastcolor.Enabled)
	fastcolor.Enabled = false

	var buf bytes.Buffer
	printSummary(&buf, [2]sideTotals{
		{Summary: reconcile.Summary{Total: 3, Found: 3}, MissingAmount: decimal.Zero},
		{Summary: reconcile.Summary{Total: 2, Found: 1, Missing: 1}, MissingAmount: decimal.RequireFromString("-7.5"), Unparsed: 1},
	}, true, 1500*time.Millisecond)

	assert.Contains(t, buf.String(), "A: 3 entries, 3 found, 0 missing (0.00)\n")
	assert.Contains(t, buf.String(), "B: 2 entries, 1 found, 1 missing (-7.50, 1 without amount)\n")
	assert.Contains(t, buf.String(), "reconciled in 1 second")
}
