package dispatch

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// formatWon renders an amount with digit grouping, e.g. 100,000원.
func formatWon(amount int64) string {
	return printer.Sprintf("%d원", amount)
}

// shortWon renders round amounts in 만 units for example phrasings.
func shortWon(amount int64) string {
	if amount >= 10_000 && amount%10_000 == 0 {
		return printer.Sprintf("%d만원", amount/10_000)
	}
	return formatWon(amount)
}
