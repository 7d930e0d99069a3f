package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/render"
	"golang.org/x/text/language"
)

// DecimalStyle configures Decimal.
type DecimalStyle struct {
	MinCol    int
	PadChar   rune
	GroupSep  rune // 0 uses ','
	GroupSize int  // 0 uses 3
	Group     bool
	ForceSign bool
	UseLocale bool // locale digit grouping
	Locale    language.Tag
}

// Decimal renders n in base ten, right-aligned in MinCol columns. Floats
// print with their shortest fraction.
func Decimal(n Number, s DecimalStyle) string {
	neg := n.Negative()
	var body string
	if mag, ok := n.magnitude(); ok && n.IsInteger() {
		switch {
		case s.UseLocale:
			body = localeDecimal(s.Locale, mag)
		case s.Group:
			body = group(strconv.FormatUint(mag, 10), groupSep(s.GroupSep, ','), s.GroupSize)
		default:
			body = strconv.FormatUint(mag, 10)
		}
	} else {
		f := math.Abs(n.Float64())
		switch {
		case math.IsNaN(f):
			body = "nan"
		case math.IsInf(f, 0):
			body = "inf"
		case s.UseLocale:
			body = localeDecimal(s.Locale, f)
		default:
			ip, fp, hasFrac := strings.Cut(strconv.FormatFloat(f, 'f', -1, 64), ".")
			body = assemble(ip, fp, hasFrac, grouping{enabled: s.Group, sep: s.GroupSep, size: s.GroupSize}, false, s.Locale)
		}
	}
	return render.PadLeft(sign(neg, s.ForceSign)+body, s.MinCol, padChar(s.PadChar))
}

// RadixStyle configures Radix.
type RadixStyle struct {
	MinCol    int
	PadChar   rune
	GroupSep  rune
	GroupSize int
	Group     bool
	ForceSign bool
	Upper     bool
}

// Radix renders n in the given radix (2..36). Only integral values can be
// represented; anything else returns ErrCannotRepresent.
func Radix(n Number, radix int, s RadixStyle) (string, error) {
	if radix < 2 || radix > 36 {
		return "", fmt.Errorf("%w: radix %d out of range", ErrCannotRepresent, radix)
	}
	mag, ok := n.magnitude()
	if !ok {
		return "", fmt.Errorf("%w: %s in radix %d", ErrCannotRepresent, n, radix)
	}
	digits := strconv.FormatUint(mag, radix)
	if s.Upper {
		digits = strings.ToUpper(digits)
	}
	if s.Group {
		digits = group(digits, groupSep(s.GroupSep, ','), s.GroupSize)
	}
	return render.PadLeft(sign(n.Negative(), s.ForceSign)+digits, s.MinCol, padChar(s.PadChar)), nil
}

func groupSep(sep, def rune) string {
	if sep == 0 {
		return string(def)
	}
	return string(sep)
}

func padChar(ch rune) rune {
	if ch == 0 {
		return ' '
	}
	return ch
}
