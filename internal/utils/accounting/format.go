// Package accounting formats time and money values the way accountants
// read them in reports.
package accounting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatSecondsToHours renders a seconds count as hours: whole hours
// without decimals ("40 hours"), fractional with two ("40.50 hours").
func FormatSecondsToHours(seconds int64) string {
	if seconds == 0 {
		return "0 hours"
	}
	hours := decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
	if hours.IsInteger() {
		return fmt.Sprintf("%s hours", hours.String())
	}
	return fmt.Sprintf("%s hours", hours.StringFixed(2))
}

// FormatCurrency renders an amount as dollars with thousands separators
// and two decimal places: $1,234.50.
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	whole, frac, _ := strings.Cut(fixed, ".")
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	out := "$" + strings.Join(groups, ",") + "." + frac
	if negative {
		return "-" + out
	}
	return out
}
