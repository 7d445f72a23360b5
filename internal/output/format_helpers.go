package output

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// rupeePrinter groups digits the Indian way (12,34,567).
var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency formats a decimal as rupees with 2 decimals and Indian digit grouping.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + "₹" + rupeePrinter.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(i int) string { return strconv.Itoa(i) }
