package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/howeyc/reconcile/reconcile/internal/fastcolor"
	"github.com/howeyc/reconcile/reconcile/internal/logger"
	"github.com/howeyc/reconcile/reconcile/memo"
	"github.com/howeyc/reconcile/reconcile/tail"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var tailLines int
var tailFollow bool
var tailReverse bool

// tailCmd represents the tail command
var tailCmd = &cobra.Command{
	Use:   "tail <file>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Print the last entries of ledger files",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := cfg.Tail.Lines
		if cmd.Flags().Changed("lines") {
			n = tailLines
		}
		interval := cfg.Tail.PollInterval()

		ctx := cmd.Context()
		if tailFollow {
			var stop context.CancelFunc
			ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
		}
		return runTail(ctx, cmd.OutOrStdout(), args, n, interval)
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)

	tailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of lines to print.")
	tailCmd.Flags().BoolVar(&tailFollow, "follow", false, "Keep printing lines as they are appended.")
	tailCmd.Flags().BoolVarP(&tailReverse, "reverse", "r", false, "Print the newest line first.")
}

// fileLines returns a memoized line index of path that is rebuilt when
// the file's size or modification time changes.
func fileLines(path string) *memo.Value[*tail.Lines] {
	stat := func() os.FileInfo {
		fi, err := os.Stat(path)
		if err != nil {
			return nil
		}
		return fi
	}
	return memo.New(func() (*tail.Lines, error) {
		return tail.ReadFile(path)
	}, memo.Deps{
		"size": func() any {
			if fi := stat(); fi != nil {
				return fi.Size()
			}
			return int64(-1)
		},
		"modtime": func() any {
			if fi := stat(); fi != nil {
				return fi.ModTime()
			}
			return nil
		},
	})
}

func runTail(ctx context.Context, w io.Writer, paths []string, n int, interval time.Duration) error {
	log := logger.FromContext(ctx)
	// Values of files no longer polled are dropped after a few missed
	// rounds.
	group := memo.NewGroup[*tail.Lines](10 * interval)
	seen := make(map[string]int, len(paths))

	buf := bufio.NewWriter(w)
	for i, path := range paths {
		lines, err := group.Value(path, func() *memo.Value[*tail.Lines] { return fileLines(path) }).Get()
		if err != nil {
			return err
		}
		if len(paths) > 1 {
			if i > 0 {
				buf.WriteString(newLine)
			}
			fastcolor.Bold.WriteString(buf, "==> "+path+" <==")
			buf.WriteString(newLine)
		}
		writeLines(buf, lines, n)
		seen[path] = lines.Len()
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if !tailFollow {
		return nil
	}

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	last := ""
	for {
		if err := limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, path := range paths {
			v := group.Value(path, func() *memo.Value[*tail.Lines] { return fileLines(path) })
			if !v.Changed() {
				continue
			}
			lines, err := v.Get()
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("unable to read file")
				continue
			}

			added := lines.Len() - seen[path]
			if added < 0 {
				log.Warn().Str("file", path).Msg("file truncated")
				added = min(n, lines.Len())
			}
			seen[path] = lines.Len()
			if added == 0 {
				continue
			}
			if len(paths) > 1 && last != path {
				fastcolor.Bold.WriteString(buf, "==> "+path+" <==")
				buf.WriteString(newLine)
			}
			last = path
			writeLines(buf, lines, added)
		}
		if err := buf.Flush(); err != nil {
			return err
		}
	}
}

// writeLines writes the last n lines, newest first with --reverse.
func writeLines(w *bufio.Writer, lines *tail.Lines, n int) {
	if !tailReverse {
		for _, line := range lines.Last(n) {
			w.WriteString(line)
			w.WriteString(newLine)
		}
		return
	}
	for line := range lines.All() {
		if n <= 0 {
			break
		}
		w.WriteString(line)
		w.WriteString(newLine)
		n--
	}
}
