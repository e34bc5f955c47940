// Package tail reads the lines of a file from the last one to the first.
//
// The whole file is held as one byte region and the offsets of its line
// terminators are indexed up front, so walking backwards is a cursor move
// rather than a series of seeks.
package tail

import (
	"bytes"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
)

// Lines is a single-pass reverse iterator over the lines of a buffer.
type Lines struct {
	buf []byte
	// ends[i] is the offset just past line i's content, excluding its
	// terminator. starts[i] is where line i begins.
	starts []int
	ends   []int
	cursor int
}

// New indexes the lines of buf. A final terminator does not start an
// empty line; "\r\n" and "\n" both terminate lines.
func New(buf []byte) *Lines {
	l := &Lines{buf: buf}
	start := 0
	for start < len(buf) {
		nl := bytes.IndexByte(buf[start:], '\n')
		if nl < 0 {
			l.starts = append(l.starts, start)
			l.ends = append(l.ends, len(buf))
			break
		}
		end := start + nl
		if end > start && buf[end-1] == '\r' {
			end--
		}
		l.starts = append(l.starts, start)
		l.ends = append(l.ends, end)
		start += nl + 1
	}
	l.cursor = len(l.starts)
	return l
}

// ReadFile loads path and indexes its lines. Files named *.br are brotli
// decompressed first.
func ReadFile(path string) (*Lines, error) {
	if !strings.HasSuffix(path, ".br") {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return New(buf), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := io.ReadAll(brotli.NewReader(f))
	if err != nil {
		return nil, err
	}
	return New(buf), nil
}

// Len returns the number of lines in the buffer.
func (l *Lines) Len() int {
	return len(l.starts)
}

// Remaining returns how many lines Next has yet to return.
func (l *Lines) Remaining() int {
	return l.cursor
}

// Next returns the line before the cursor and moves the cursor back.
// It returns false once the first line has been returned.
func (l *Lines) Next() (string, bool) {
	if l.cursor == 0 {
		return "", false
	}
	l.cursor--
	return string(l.buf[l.starts[l.cursor]:l.ends[l.cursor]]), true
}

// All yields the remaining lines, last first.
func (l *Lines) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, ok := l.Next()
			if !ok || !yield(line) {
				return
			}
		}
	}
}

// Last returns up to n of the final lines in file order. It does not move
// the cursor.
func (l *Lines) Last(n int) []string {
	if n > len(l.starts) {
		n = len(l.starts)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	first := len(l.starts) - n
	for i := range out {
		out[i] = string(l.buf[l.starts[first+i]:l.ends[first+i]])
	}
	return out
}
