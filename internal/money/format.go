package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LabelStyle selects how a formatted amount is labelled.
type LabelStyle string

const (
	// LabelSymbol prefixes the currency symbol: "$1,234.50".
	LabelSymbol LabelStyle = "symbol"
	// LabelCode suffixes the ISO code: "1,234.50 USD".
	LabelCode LabelStyle = "code"
)

// Formatter renders amounts with grouped digits and a currency label.
type Formatter struct {
	symbol  string
	code    string
	style   LabelStyle
	printer *message.Printer
}

// NewFormatter builds a Formatter from the stored settings fields.
func NewFormatter(symbol, code string, style LabelStyle) *Formatter {
	if symbol == "" {
		symbol = "$"
	}
	if code == "" {
		code = "USD"
	}
	if style != LabelCode {
		style = LabelSymbol
	}
	return &Formatter{
		symbol:  symbol,
		code:    code,
		style:   style,
		printer: message.NewPrinter(language.English),
	}
}

// Format renders the amount per the configured label style.
func (f *Formatter) Format(amount float64) string {
	n := f.printer.Sprintf("%.2f", amount)
	if f.style == LabelCode {
		return n + " " + f.code
	}
	return f.symbol + n
}
