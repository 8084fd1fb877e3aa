// Package format holds the value-scale and sign helpers shared by the
// metrics, comments and render packages. Record amounts are in millions of
// yen; display amounts are in 億 (hundreds of millions).
package format

import (
	"math"
	"strconv"
	"strings"
)

// NotComputable is printed in place of a ratio whose denominator is zero.
const NotComputable = "-"

// Fixed formats v with exactly decimals fractional digits, rounding half
// away from zero. Negative zero prints without a sign.
func Fixed(v float64, decimals int) string {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0 // clears the sign bit of -0
	}
	return strconv.FormatFloat(r, 'f', decimals, 64)
}

// Number prints v in its shortest decimal form (78.4, 15, -2.5).
func Number(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ToOku converts millions to 億 with no decimals: 7995 -> "80".
func ToOku(v float64) string { return Fixed(v/100, 0) }

// ToOkuDecimal converts millions to 億 with one decimal: 7995 -> "80.0".
func ToOkuDecimal(v float64) string { return Fixed(v/100, 1) }

// SignedOkuDecimal is ToOkuDecimal with a "▲" prefix for negative values
// and the magnitude printed unsigned: -2954 -> "▲29.5".
func SignedOkuDecimal(v float64) string {
	if v < 0 {
		return "▲" + ToOkuDecimal(math.Abs(v))
	}
	return ToOkuDecimal(v)
}

// Ratio returns part/total*100 with the given decimals, or NotComputable
// when total is zero.
func Ratio(part, total float64, decimals int) string {
	if total == 0 {
		return NotComputable
	}
	return Fixed(part/total*100, decimals)
}

// PercentOf returns part/total*100 with one decimal: (50, 200) -> "25.0".
func PercentOf(part, total float64) string { return Ratio(part, total, 1) }

// IsNegativeChange reports whether a YoY label marks a decrease.
func IsNegativeChange(s string) bool {
	return strings.HasPrefix(s, "▲") || strings.HasPrefix(s, "-")
}

// Comma formats v rounded to decimals with thousands separators.
func Comma(v float64, decimals int) string {
	s := Fixed(v, decimals)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	out := make([]byte, 0, n+n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, intPart[:rem]...)
	for i := rem; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, intPart[i:i+3]...)
	}
	return sign + string(out) + frac
}
