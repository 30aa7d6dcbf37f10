package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatEUR renders a decimal amount as a user-facing euro string for
// notification payloads, e.g. "€22.15".
func FormatEUR(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return moneyPrinter.Sprintf("€%.2f", f)
}
