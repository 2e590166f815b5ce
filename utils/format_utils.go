package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money formats an amount with two decimals, e.g. "$31.50".
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// WholeMoney formats an amount rounded to whole units, e.g. "$900".
func WholeMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(0)
}

// Percent formats a percentage value with two decimals, e.g. "42.10%".
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// OneDecimal formats a rate such as average daily sales.
func OneDecimal(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// Date formats a date for tables; the zero time renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}
