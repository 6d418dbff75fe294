package analytics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders amount as US dollars, e.g. $1,234.50 or -$5.00.
// The sign follows the unrounded amount, so -0.004 renders as -$0.00.
func FormatCurrency(amount float64) string {
	if !finite(amount) {
		return fmt.Sprintf("$%v", amount)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	f, _ := decimal.NewFromFloat(math.Abs(amount)).Round(2).Float64()
	return sign + "$" + usPrinter.Sprintf("%.2f", f)
}

// FormatPercentage renders value with one decimal and an explicit sign,
// e.g. +12.5% or -0.0% for a small negative value.
func FormatPercentage(value float64) string {
	if !finite(value) {
		return fmt.Sprintf("%v%%", value)
	}
	sign := "+"
	if value < 0 {
		sign = "-"
	}
	return sign + decimal.NewFromFloat(math.Abs(value)).Round(1).StringFixed(1) + "%"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
