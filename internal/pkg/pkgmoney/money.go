// Package pkgmoney formats amounts for display.
package pkgmoney

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSymbol is prefixed when no symbol is configured.
const DefaultSymbol = "$"

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// Format renders v the way the summary dialog shows it: symbol, US English
// digit grouping, exactly two decimals ("$1,234.56"). Negative totals keep the
// sign after the symbol ("$-12.00"). NaN and infinities render as "$0.00".
func Format(symbol string, v float64) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return symbol + usPrinter.Sprintf("%.2f", v)
}
