package numfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/render"
	"golang.org/x/text/language"
)

// MoneyStyle configures Money.
type MoneyStyle struct {
	Digits        int // fraction digits
	MinIntDigits  int
	Width         int
	PadChar       rune
	CurChar       rune // printed before the digits when set
	GroupSep      rune
	GroupSize     int
	Group         bool
	ForceSign     bool
	SignBeforePad bool
	UseLocale     bool // locale separators and currency symbol
	Locale        language.Tag
}

// Money renders n as a monetary amount with a fixed number of fraction digits
// and a minimum number of integer digits, padded on the left to Width.
func Money(n Number, s MoneyStyle) string {
	x := n.Float64()
	neg := math.Signbit(x) && x != 0
	ax := math.Abs(x)
	sgn := sign(neg, s.ForceSign)
	if special, ok := nonFinite(ax); ok {
		return render.PadLeft(sgn+special, s.Width, padChar(s.PadChar))
	}

	digits := max(s.Digits, 0)
	ip, fp, hasFrac := strings.Cut(strconv.FormatFloat(ax, 'f', digits, 64), ".")
	if len(ip) < s.MinIntDigits {
		ip = strings.Repeat("0", s.MinIntDigits-len(ip)) + ip
	}
	rest := assemble(ip, fp, hasFrac, grouping{enabled: s.Group, sep: s.GroupSep, size: s.GroupSize}, s.UseLocale, s.Locale)
	switch {
	case s.CurChar != 0:
		rest = string(s.CurChar) + rest
	case s.UseLocale:
		rest = currencySymbol(s.Locale) + rest
	}

	pad := render.Repeat(padChar(s.PadChar), s.Width-render.Width(sgn+rest))
	if s.SignBeforePad {
		return sgn + pad + rest
	}
	return pad + sgn + rest
}
