package services

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// FormatMoney renders amount in the given ISO 4217 currency, e.g. "$1,800.00".
// Unknown codes fall back to USD.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return formatLarge(minor, cur)
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

// formatLarge lays out minor units that do not fit in an int64 the same way
// go-money's Formatter does.
func formatLarge(minor decimal.Decimal, cur *money.Currency) string {
	digits := minor.Abs().String()
	if len(digits) <= cur.Fraction {
		digits = strings.Repeat("0", cur.Fraction-len(digits)+1) + digits
	}

	whole, frac := digits[:len(digits)-cur.Fraction], digits[len(digits)-cur.Fraction:]
	if cur.Thousand != "" {
		for i := len(whole) - 3; i > 0; i -= 3 {
			whole = whole[:i] + cur.Thousand + whole[i:]
		}
	}
	if cur.Fraction > 0 {
		whole += cur.Decimal + frac
	}

	out := strings.Replace(cur.Template, "1", whole, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if minor.IsNegative() {
		out = "-" + out
	}
	return out
}
