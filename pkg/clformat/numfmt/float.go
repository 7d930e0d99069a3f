package numfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/render"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
	"golang.org/x/text/language"
)

// Auto marks a digit count that is derived from the value itself.
const Auto = -1

// FixedStyle configures Fixed. Width 0 disables padding; Digits Auto prints
// as many fraction digits as fit.
type FixedStyle struct {
	Width        int
	Digits       int
	Scale        int
	OverflowChar rune // 0 means overflowing output is kept
	PadChar      rune
	GroupSep     rune
	GroupSize    int
	Group        bool
	ForceSign    bool
	UseLocale    bool
	Locale       language.Tag
}

// Fixed renders n as a fixed-format floating point number scaled by
// 10^Scale.
func Fixed(n Number, s FixedStyle) string {
	x := scale(n.Float64(), s.Scale)
	neg := math.Signbit(x) && x != 0
	ax := math.Abs(x)
	if special, ok := nonFinite(ax); ok {
		return fit(sign(neg, s.ForceSign)+special, s.Width, s.OverflowChar, s.PadChar)
	}

	var str string
	if s.Digits >= 0 {
		str = strconv.FormatFloat(ax, 'f', s.Digits, 64)
	} else {
		maxFrac := 98
		if s.Width > 1 {
			maxFrac = s.Width - len(strconv.FormatFloat(math.Trunc(ax), 'f', 0, 64)) - 1
		}
		str = shortestFixed(ax, maxFrac)
	}
	ip, fp, hasFrac := strings.Cut(str, ".")
	body := assemble(ip, fp, hasFrac, grouping{enabled: s.Group, sep: s.GroupSep, size: s.GroupSize}, s.UseLocale, s.Locale)
	return fit(sign(neg, s.ForceSign)+body, s.Width, s.OverflowChar, s.PadChar)
}

// shortestFixed returns the shortest fixed rendering of x, rounded to at most
// maxFrac fraction digits and keeping at least one.
func shortestFixed(x float64, maxFrac int) string {
	if maxFrac < 1 {
		maxFrac = 1
	}
	str := strconv.FormatFloat(x, 'f', -1, 64)
	_, frac, ok := strings.Cut(str, ".")
	switch {
	case !ok:
		return str + ".0"
	case len(frac) > maxFrac:
		return strconv.FormatFloat(x, 'f', maxFrac, 64)
	}
	return str
}

// ExponentStyle configures Exponential. Digits and ExpDigits accept Auto.
type ExponentStyle struct {
	Width        int
	Digits       int
	ExpDigits    int
	Scale        int
	OverflowChar rune
	PadChar      rune
	ExpChar      rune // 0 uses 'E'
	ForceSign    bool
	UseLocale    bool
	Locale       language.Tag
}

// Exponential renders n in scientific notation. A positive Scale k puts k
// digits before the decimal point; zero or a negative Scale puts -k zeros
// after it.
func Exponential(n Number, s ExponentStyle) string {
	x := n.Float64()
	neg := math.Signbit(x) && x != 0
	ax := math.Abs(x)
	if special, ok := nonFinite(ax); ok {
		return fit(sign(neg, s.ForceSign)+special, s.Width, s.OverflowChar, s.PadChar)
	}

	var intPart, frac string
	var exp int
	k := s.Scale
	if k > 0 {
		intDigits := k
		sig := -1
		if s.Digits >= 0 {
			intDigits = min(s.Digits+1, k)
			sig = s.Digits + 1
		}
		digits, e := mantissaDigits(ax, sig)
		if len(digits) < intDigits {
			digits += strings.Repeat("0", intDigits-len(digits))
		}
		intPart, frac = digits[:intDigits], digits[intDigits:]
		if s.Digits < 0 && frac == "" {
			frac = "0"
		}
		exp = e - intDigits + 1
	} else {
		d := s.Digits
		if d < 0 {
			d = 1 - k
		}
		zeros := -max(1-d, k)
		sig := -1
		if s.Digits >= 0 {
			sig = max(d-zeros, 1)
		}
		digits, e := mantissaDigits(ax, sig)
		intPart = "0"
		frac = strings.Repeat("0", zeros) + digits
		exp = e + 1 + zeros
	}
	if ax == 0 {
		exp = 0
	}

	body := assemble(intPart, frac, frac != "", grouping{}, s.UseLocale, s.Locale)
	expChar := s.ExpChar
	if expChar == 0 {
		expChar = 'E'
	}
	expStr := strconv.Itoa(abs(exp))
	if s.ExpDigits > 0 && len(expStr) < s.ExpDigits {
		expStr = strings.Repeat("0", s.ExpDigits-len(expStr)) + expStr
	}
	expSign := "+"
	if exp < 0 {
		expSign = "-"
	}
	return fit(sign(neg, s.ForceSign)+body+string(expChar)+expSign+expStr, s.Width, s.OverflowChar, s.PadChar)
}

// mantissaDigits returns the significant digits of x and its decimal
// exponent. sig < 0 selects the shortest representation.
func mantissaDigits(x float64, sig int) (string, int) {
	prec := -1
	if sig > 0 {
		prec = sig - 1
	}
	str := strconv.FormatFloat(x, 'e', prec, 64)
	mant, expPart, _ := strings.Cut(str, "e")
	e, _ := strconv.Atoi(expPart)
	return strings.Replace(mant, ".", "", 1), e
}

// GeneralStyle configures General.
type GeneralStyle struct {
	Width        int
	Digits       int
	ExpDigits    int
	Scale        int
	OverflowChar rune
	PadChar      rune
	ExpChar      rune
	ForceSign    bool
	UseLocale    bool
	Locale       language.Tag
}

// General picks fixed or exponential notation depending on the magnitude of
// n. Fixed output is followed by as many blanks as an exponent would take.
func General(n Number, s GeneralStyle) string {
	x := n.Float64()
	ax := math.Abs(x)
	if _, ok := nonFinite(ax); ok {
		return Fixed(n, FixedStyle{Width: s.Width, Digits: s.Digits, OverflowChar: s.OverflowChar,
			PadChar: s.PadChar, ForceSign: s.ForceSign})
	}

	mag := 0
	if ax != 0 {
		mag = int(math.Floor(math.Log10(ax))) + 1
	}
	ee := 4
	if s.ExpDigits >= 0 {
		ee = s.ExpDigits + 2
	}
	var dd, nd int
	if s.Digits < 0 {
		q := len(value.FormatFloat(ax))
		nd = max(q, min(mag, 7))
		dd = nd - mag - 1
	} else {
		nd = s.Digits
		dd = s.Digits - mag
	}

	if dd >= 0 && dd <= nd {
		ww := 0
		if s.Width > 0 {
			ww = max(s.Width-ee, 1)
		}
		fixed := Fixed(n, FixedStyle{
			Width:        ww,
			Digits:       dd,
			OverflowChar: s.OverflowChar,
			PadChar:      s.PadChar,
			ForceSign:    s.ForceSign,
			UseLocale:    s.UseLocale,
			Locale:       s.Locale,
		})
		return fixed + strings.Repeat(" ", ee)
	}
	return Exponential(n, ExponentStyle{
		Width:        s.Width,
		Digits:       s.Digits,
		ExpDigits:    s.ExpDigits,
		Scale:        s.Scale,
		OverflowChar: s.OverflowChar,
		PadChar:      s.PadChar,
		ExpChar:      s.ExpChar,
		ForceSign:    s.ForceSign,
		UseLocale:    s.UseLocale,
		Locale:       s.Locale,
	})
}

// fit pads str on the left to width. When str is wider and an overflow
// character is set, the whole field is filled with it instead.
func fit(str string, width int, overflow, pad rune) string {
	if width <= 0 {
		return str
	}
	if render.Width(str) > width && overflow != 0 {
		return render.Repeat(overflow, width)
	}
	return render.PadLeft(str, width, padChar(pad))
}

func scale(x float64, k int) float64 {
	switch {
	case k > 0:
		return x * math.Pow10(k)
	case k < 0:
		return x / math.Pow10(-k)
	}
	return x
}

func nonFinite(ax float64) (string, bool) {
	switch {
	case math.IsNaN(ax):
		return "nan", true
	case math.IsInf(ax, 0):
		return "inf", true
	}
	return "", false
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
