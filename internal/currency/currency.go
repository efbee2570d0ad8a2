package currency

// Package currency renders whole-unit COP amounts the way the storefront
// displays them: "$89.900", dot-grouped thousands, no fraction digits.

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount as a display string. Fractional amounts (the
// volume discount can be a tenth of a unit) round half-up to the whole unit.
func Format(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	negative := rounded.IsNegative()
	digits := rounded.Abs().BigInt().String()

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteByte('$')

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}

	return b.String()
}

// FormatInt renders a whole-unit amount.
func FormatInt(amount int64) string {
	return Format(decimal.NewFromInt(amount))
}
