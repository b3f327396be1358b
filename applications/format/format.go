// Package format turns raw booking field values into the strings printed on
// invoices and shown in the listing views. Every function is pure.
package format

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// CurrencyPrefix is used on the PDF, the core fonts have no rupee glyph.
	CurrencyPrefix = "Rs. "
	// RupeeSymbol is used by the listing and detail views.
	RupeeSymbol = "₹"

	dateLayout      = "02 Jan 2006"
	timeLayout      = "03:04 pm"
	generatedLayout = "02/01/2006"

	addressLineLimit = 30
	addressBreakFrom = 25
	addressBreakTo   = 35
)

var (
	nonAmountChars = regexp.MustCompile(`[^0-9.]`)
	amountPrefix   = regexp.MustCompile(`^[0-9]*\.?[0-9]*`)
	nonLabelChars  = regexp.MustCompile(`[^a-zA-Z0-9]`)

	printer = message.NewPrinter(language.MustParse("en-IN"))

	// Inputs come from date / datetime-local form controls or from RFC 3339
	// timestamps. Zone-less values are read as wall clock time.
	dateParser = &now.Config{
		TimeLocation: time.UTC,
		TimeFormats: []string{
			time.RFC3339Nano,
			"2006-01-02T15:04:05",
			"2006-01-02T15:04",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
			"02/01/2006",
			"02-01-2006",
		},
	}
)

// ParseAmount reads a currency value that may arrive as a number or as a
// formatted string. Everything except digits and dots is stripped from strings
// before parsing; missing or unparseable values are zero.
func ParseAmount(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		f = parseAmountString(x)
	case *string:
		if x == nil {
			return 0
		}
		f = parseAmountString(*x)
	case json.Number:
		f = parseAmountString(x.String())
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseAmountString(s string) float64 {
	cleaned := amountPrefix.FindString(nonAmountChars.ReplaceAllString(s, ""))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatNumber groups thousands the en-IN way with at most three fraction digits.
func FormatNumber(f float64) string {
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

// FormatCurrency renders v with the PDF currency prefix.
func FormatCurrency(v any) string {
	return CurrencyPrefix + FormatNumber(ParseAmount(v))
}

// FormatRupees renders v with the rupee symbol.
func FormatRupees(v any) string {
	return RupeeSymbol + FormatNumber(ParseAmount(v))
}

// ParseDate parses the date and date-time shapes the booking form produces.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateParser.Parse(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate prints a date as "05 Mar 2025". Unparseable input is echoed back.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(dateLayout)
}

// FormatDateTime prints a date-time as "05 Mar 2025 02:30 pm". Unparseable
// input is echoed back.
func FormatDateTime(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(dateLayout + " " + timeLayout)
}

// FormatTimestamp prints an already parsed instant the way FormatDate does.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// FormatGeneratedDate prints the invoice generation date.
func FormatGeneratedDate(t time.Time) string {
	return t.Format(generatedLayout)
}

// SplitAddress keeps addresses of up to 30 characters on one line. Longer
// ones break at the first space or comma between offsets 25 and 35, or hard
// at 30 when there is none.
func SplitAddress(address string) []string {
	runes := []rune(address)
	if len(runes) <= addressLineLimit {
		return []string{address}
	}

	breakAt := -1
	for i := addressBreakFrom; i <= addressBreakTo && i < len(runes); i++ {
		if runes[i] == ' ' || runes[i] == ',' {
			breakAt = i
			break
		}
	}
	if breakAt == -1 {
		breakAt = addressLineLimit
	}
	return []string{string(runes[:breakAt]), strings.TrimSpace(string(runes[breakAt:]))}
}

// SanitizeLabel replaces every non-alphanumeric character with '_' so a
// selection label can be used inside a form field name.
func SanitizeLabel(label string) string {
	return nonLabelChars.ReplaceAllString(label, "_")
}
