package exporter

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Round2 rounds half away from zero to two decimal places
func Round2(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	return math.Round(f*100) / 100
}

// formatFloat formats a value with exactly 2 decimal places for machine-readable output
func formatFloat(f float64) string {
	return strconv.FormatFloat(Round2(f), 'f', 2, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatHours renders an interval bound, empty for an unbounded upper limit
func formatHours(h float64) string {
	if math.IsInf(h, 1) {
		return ""
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// NumberFormatter renders numbers for humans in a given locale
type NumberFormatter struct {
	printer *message.Printer
	tag     language.Tag
}

// NewNumberFormatter creates a formatter for a BCP 47 locale, falling back to
// English when the locale cannot be parsed
func NewNumberFormatter(locale string) *NumberFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &NumberFormatter{printer: message.NewPrinter(tag), tag: tag}
}

// Locale returns the resolved locale tag
func (f *NumberFormatter) Locale() string {
	return f.tag.String()
}

// Int formats an integer with locale grouping
func (f *NumberFormatter) Int(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Decimal formats a value rounded to two decimals with locale separators
func (f *NumberFormatter) Decimal(v float64) string {
	return f.printer.Sprint(number.Decimal(Round2(v), number.Scale(2)))
}

// Percent formats a 0-100 percentage
func (f *NumberFormatter) Percent(p float64) string {
	return fmt.Sprintf("%s%%", f.Decimal(p))
}
