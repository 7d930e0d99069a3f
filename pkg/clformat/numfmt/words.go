package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var romanTable = []struct {
	value  uint64
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"},
	{1, "I"},
}

var oldRomanTable = []struct {
	value  uint64
	symbol string
}{
	{1000, "M"}, {500, "D"}, {100, "C"}, {50, "L"},
	{10, "X"}, {5, "V"}, {1, "I"},
}

// Roman renders n as a Roman numeral. Modern numerals cover 1..3999. Old
// numerals use no subtractive pairs (4 is IIII) and cover 1..4999.
func Roman(n Number, old bool) (string, error) {
	limit := uint64(3999)
	table := romanTable
	if old {
		limit = 4999
		table = oldRomanTable
	}
	mag, ok := n.magnitude()
	if !ok || n.Negative() || mag == 0 || mag > limit {
		return "", fmt.Errorf("%w: %s as a roman numeral", ErrCannotRepresent, n)
	}
	var sb strings.Builder
	for _, entry := range table {
		for mag >= entry.value {
			sb.WriteString(entry.symbol)
			mag -= entry.value
		}
	}
	return sb.String(), nil
}

// Ordinal renders an integer with its English ordinal suffix, as in 1st,
// 22nd or 113th.
func Ordinal(n Number) (string, error) {
	mag, ok := n.magnitude()
	if !ok {
		return "", fmt.Errorf("%w: %s as an ordinal", ErrCannotRepresent, n)
	}
	suffix := "th"
	if mag%100 < 11 || mag%100 > 13 {
		switch mag % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return sign(n.Negative(), false) + strconv.FormatUint(mag, 10) + suffix, nil
}

var (
	smallWords = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tensWords = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
	}
	scaleWords = []string{
		"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion",
	}
)

// Cardinal spells n out in English words. Fractions are read digit by digit
// after "point".
func Cardinal(n Number) (string, error) {
	var words string
	if mag, ok := n.magnitude(); ok {
		words = spellUint(mag)
	} else {
		ax := math.Abs(n.Float64())
		if math.IsNaN(ax) || math.IsInf(ax, 0) || ax >= math.MaxUint64 {
			return "", fmt.Errorf("%w: %s in words", ErrCannotRepresent, n)
		}
		ip, fp, _ := strings.Cut(strconv.FormatFloat(ax, 'f', -1, 64), ".")
		whole, _ := strconv.ParseUint(ip, 10, 64)
		parts := []string{spellUint(whole), "point"}
		for _, d := range fp {
			parts = append(parts, smallWords[d-'0'])
		}
		words = strings.Join(parts, " ")
	}
	if n.Negative() {
		return "minus " + words, nil
	}
	return words, nil
}

func spellUint(u uint64) string {
	if u == 0 {
		return smallWords[0]
	}
	var groups []string
	for scale := 0; u > 0; scale++ {
		chunk := u % 1000
		u /= 1000
		if chunk == 0 {
			continue
		}
		words := spellHundreds(chunk)
		if scaleWords[scale] != "" {
			words += " " + scaleWords[scale]
		}
		groups = append([]string{words}, groups...)
	}
	return strings.Join(groups, " ")
}

func spellHundreds(n uint64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, smallWords[n/100], "hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, smallWords[n])
	case n%10 == 0:
		parts = append(parts, tensWords[n/10])
	default:
		parts = append(parts, tensWords[n/10]+"-"+smallWords[n%10])
	}
	return strings.Join(parts, " ")
}
