// Package render provides the column-aware text helpers used by the format
// directives: display width, padding with column increments, truncation with
// an ellipsis, column tracking and gap distribution. Widths are measured in
// terminal cells, so wide runes count twice.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultEllipsis replaces the last visible character of truncated text.
const DefaultEllipsis = '…'

// Width returns the display width of s.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Repeat returns ch repeated n times, or "" when n is not positive.
func Repeat(ch rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(ch), n)
}

// Truncate shortens s to at most maxcol cells. When more than one cell
// remains, the last one is replaced by ellipsis.
func Truncate(s string, maxcol int, ellipsis rune) string {
	if maxcol <= 0 {
		return ""
	}
	if Width(s) <= maxcol {
		return s
	}
	if maxcol == 1 {
		return runewidth.Truncate(s, maxcol, "")
	}
	return runewidth.Truncate(s, maxcol, string(ellipsis))
}

// PadSpec describes how a rendered value is padded to a column width.
type PadSpec struct {
	MinCol   int
	ColInc   int
	MinPad   int
	PadChar  rune
	MaxCol   int // ignored unless HasMax
	HasMax   bool
	Ellipsis rune
	Left     bool // pad on the left
	Right    bool // pad on the right
}

// Pad pads s according to spec. At least MinPad pad characters are added and
// the total grows in steps of ColInc until MinCol is reached. Text wider than
// MaxCol is truncated instead. When both Left and Right are set the padding
// is split, with the odd column going left.
func Pad(s string, spec PadSpec) string {
	count := Width(s)
	if spec.HasMax && count > spec.MaxCol {
		return Truncate(s, spec.MaxCol, spec.Ellipsis)
	}
	if count >= spec.MinCol && spec.MinPad <= 0 {
		return s
	}
	colinc := spec.ColInc
	if colinc < 1 {
		colinc = 1
	}
	padcount := ((spec.MinCol-count-spec.MinPad+colinc-1)/colinc)*colinc + spec.MinPad
	if padcount < spec.MinPad {
		padcount = spec.MinPad
	}
	if spec.HasMax && padcount+count > spec.MaxCol {
		padcount = spec.MaxCol - count
	}
	switch {
	case spec.Left && spec.Right:
		return Repeat(spec.PadChar, padcount-padcount/2) + s + Repeat(spec.PadChar, padcount/2)
	case spec.Left:
		return Repeat(spec.PadChar, padcount) + s
	default:
		return s + Repeat(spec.PadChar, padcount)
	}
}

// PadLeft right-aligns s in a field of width cells.
func PadLeft(s string, width int, padchar rune) string {
	return Repeat(padchar, width-Width(s)) + s
}

// Column returns the output column after writing s, counting from the last
// newline. Tabs advance to the next multiple of tabSize.
func Column(s string, tabSize int) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if tabSize < 1 {
		tabSize = 1
	}
	col := 0
	for _, seg := range strings.SplitAfter(s, "\t") {
		text, tab := strings.CutSuffix(seg, "\t")
		col += Width(text)
		if tab {
			col += tabSize - col%tabSize
		}
	}
	return col
}

// Distribute spreads total columns over n gaps as evenly as possible. The
// remainder goes to the leftmost gaps.
func Distribute(total, n int) []int {
	if n <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	gaps := make([]int, n)
	base, rem := total/n, total%n
	for i := range gaps {
		gaps[i] = base
		if i < rem {
			gaps[i]++
		}
	}
	return gaps
}
