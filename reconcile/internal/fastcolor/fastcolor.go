// Package fastcolor writes fixed-width, optionally coloured, terminal
// columns without allocating per call.
package fastcolor

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
)

const resetSeq = "\x1b[0m"

// Enabled reports whether escape sequences are written. It defaults to
// whether stdout is a terminal.
var Enabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// Color is an SGR escape sequence. The zero value writes plain text.
type Color struct {
	seq string
}

var (
	Reset   = Color{}
	Bold    = Color{seq: "\x1b[1m"}
	FgRed   = Hex("#e0474c")
	FgGreen = Hex("#4ab04a")
	FgBlue  = Hex("#4a90d9")
	FgGray  = Hex("#8a8a8a")
)

// Hex returns a 24-bit foreground colour. It panics on a malformed hex
// string, so it is meant for package-level palettes.
func Hex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("fastcolor: %s: %v", s, err))
	}
	r, g, b := c.RGB255()
	return Color{seq: fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)}
}

var spaces = "                                                                                "

func pad(w io.StringWriter, n int) {
	for n > len(spaces) {
		w.WriteString(spaces)
		n -= len(spaces)
	}
	if n > 0 {
		w.WriteString(spaces[:n])
	}
}

// WriteStringFixed writes s truncated or padded to exactly width runes.
func (c Color) WriteStringFixed(w io.StringWriter, s string, width int, rightAlign bool) {
	if width < 0 {
		width = 0
	}
	n := utf8.RuneCountInString(s)
	if n > width {
		cut := 0
		for i := 0; i < width; i++ {
			_, size := utf8.DecodeRuneInString(s[cut:])
			cut += size
		}
		s = s[:cut]
		n = width
	}

	if rightAlign {
		pad(w, width-n)
	}
	if Enabled && c.seq != "" {
		w.WriteString(c.seq)
		w.WriteString(s)
		w.WriteString(resetSeq)
	} else {
		w.WriteString(s)
	}
	if !rightAlign {
		pad(w, width-n)
	}
}

// WriteString writes s in colour with no width handling.
func (c Color) WriteString(w io.StringWriter, s string) {
	if Enabled && c.seq != "" {
		w.WriteString(c.seq)
		w.WriteString(s)
		w.WriteString(resetSeq)
		return
	}
	w.WriteString(s)
}
