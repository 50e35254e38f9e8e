package shared

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount with two decimals and thousands grouping,
// e.g. 1234.5 -> "1,234.50". Rounding is half away from zero on the decimal
// value, not on the binary float.
func FormatMoney(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	whole, frac, _ := strings.Cut(fixed, ".")
	var grouped string
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = groupPrinter.Sprintf("%d", n)
	} else {
		grouped = groupDigits(whole)
	}
	out := grouped + "." + frac
	if negative && out != "0.00" {
		return "-" + out
	}
	return out
}

// groupDigits inserts thousands separators into a digit string too long for
// int64.
func groupDigits(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatQty renders quantities without trailing zeros.
func FormatQty(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

// FormatPercent renders a tax rate such as 18 or 2.5.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
