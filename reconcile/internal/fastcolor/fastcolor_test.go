package fastcolor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteStringFixed(t *testing.T) {
	defer func(e bool) { Enabled = e }(Enabled)
	Enabled = false

	tests := []struct {
		name  string
		s     string
		width int
		right bool
		want  string
	}{
		{"pad left aligned", "abc", 5, false, "abc  "},
		{"pad right aligned", "abc", 5, true, "  abc"},
		{"exact", "abcde", 5, false, "abcde"},
		{"truncate", "abcdefg", 4, false, "abcd"},
		{"runes", "Überweisung", 3, false, "Übe"},
		{"zero width", "abc", 0, true, ""},
		{"wider than pad buffer", "x", 100, true, strings.Repeat(" ", 99) + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			FgRed.WriteStringFixed(&b, tt.s, tt.width, tt.right)
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestWriteStringFixed_Enabled(t *testing.T) {
	defer func(e bool) { Enabled = e }(Enabled)
	Enabled = true

	var b strings.Builder
	Hex("#ff0000").WriteStringFixed(&b, "no", 4, true)
	assert.Equal(t, "  \x1b[38;2;255;0;0mno\x1b[0m", b.String())

	b.Reset()
	Reset.WriteStringFixed(&b, "no", 3, false)
	assert.Equal(t, "no ", b.String())
}

func TestHex_Invalid(t *testing.T) {
	assert.Panics(t, func() { Hex("red") })
}
