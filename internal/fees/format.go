package fees

import (
	"math/big"
	"strconv"
	"strings"
)

var (
	ratTiny     = big.NewRat(1, 10000)
	ratOne      = big.NewRat(1, 1)
	ratThousand = big.NewRat(1000, 1)
)

// FormatAmount renders a raw non-negative token amount for display. Precision
// depends on the magnitude of the decimal-shifted value: dust amounts use
// scientific notation to stay legible, sub-unit amounts keep six fractional
// digits, mid-range amounts four, and large amounts get thousands grouping
// with two fractional digits.
func FormatAmount(raw *big.Int, decimals uint8) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}

	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value := new(big.Rat).SetFrac(raw, denom)

	switch {
	case value.Cmp(ratTiny) < 0:
		f, _ := value.Float64()
		return strconv.FormatFloat(f, 'e', 4, 64)
	case value.Cmp(ratOne) < 0:
		return value.FloatString(6)
	case value.Cmp(ratThousand) < 0:
		return value.FloatString(4)
	default:
		return groupThousands(value.FloatString(2))
	}
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
