package numfmt

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used by locale-aware styles when no locale is configured.
var DefaultLocale = language.AmericanEnglish

func effectiveLocale(tag language.Tag) language.Tag {
	if tag == language.Und {
		return DefaultLocale
	}
	return tag
}

type separators struct {
	decimal string
	group   string
}

var separatorCache sync.Map // tag string -> separators

// localeSeparators derives the decimal and grouping separators of a locale
// by rendering a sample number.
func localeSeparators(tag language.Tag) separators {
	tag = effectiveLocale(tag)
	key := tag.String()
	if s, ok := separatorCache.Load(key); ok {
		return s.(separators)
	}
	sample := message.NewPrinter(tag).Sprint(number.Decimal(1234567.5,
		number.MinFractionDigits(1), number.MaxFractionDigits(1)))

	var runs []string
	var cur strings.Builder
	for _, r := range sample {
		if unicode.IsDigit(r) {
			if cur.Len() > 0 {
				runs = append(runs, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}

	seps := separators{decimal: ".", group: ","}
	if len(runs) > 0 {
		seps.decimal = runs[len(runs)-1]
	}
	if len(runs) > 1 {
		seps.group = runs[0]
	}
	separatorCache.Store(key, seps)
	return seps
}

// localeDecimal renders an unsigned value with the locale's digit grouping.
func localeDecimal(tag language.Tag, x any) string {
	return message.NewPrinter(effectiveLocale(tag)).Sprint(number.Decimal(x))
}

// currencySymbol returns the symbol of the currency used in the locale's
// region, e.g. "$" for en-US or "€" for de-DE.
func currencySymbol(tag language.Tag) string {
	tag = effectiveLocale(tag)
	unit, _ := currency.FromTag(tag)
	return message.NewPrinter(tag).Sprint(currency.Symbol(unit))
}

// assemble joins an integer part and fraction digits, applying digit
// grouping and locale separators.
func assemble(intPart, frac string, hasFrac bool, grp grouping, useLocale bool, tag language.Tag) string {
	dec := "."
	sep := ","
	if grp.sep != 0 {
		sep = string(grp.sep)
	}
	if useLocale {
		seps := localeSeparators(tag)
		dec = seps.decimal
		if grp.sep == 0 {
			sep = seps.group
		}
	}
	if grp.enabled {
		intPart = group(intPart, sep, grp.size)
	}
	if !hasFrac {
		return intPart
	}
	return intPart + dec + frac
}

// grouping configures digit grouping of integer parts.
type grouping struct {
	enabled bool
	sep     rune // 0 uses the default or locale separator
	size    int  // 0 uses 3
}

// group inserts sep between groups of size digits, counting from the right.
func group(digits, sep string, size int) string {
	if size <= 0 {
		size = 3
	}
	if len(digits) <= size {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % size
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += size {
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(digits[i : i+size])
	}
	return sb.String()
}
