package reports

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/schema"
)

// Formatter renders report cells to display strings, one formatted string
// per cell. Formatting is idempotent: a cell that is already a formatted
// string passes through unchanged when reapplied.
type Formatter struct {
	printer    *message.Printer
	unit       currency.Unit
	dateLayout string
	trueLabel  string
	falseLabel string
}

type FormatterOptions struct {
	Locale     string
	Currency   string
	DateLayout string
	TrueLabel  string
	FalseLabel string
}

func NewFormatter(opts FormatterOptions) *Formatter {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		tag = language.English
	}
	unit, err := currency.ParseISO(opts.Currency)
	if err != nil {
		unit = currency.USD
	}
	formatter := &Formatter{
		printer:    message.NewPrinter(tag),
		unit:       unit,
		dateLayout: opts.DateLayout,
		trueLabel:  opts.TrueLabel,
		falseLabel: opts.FalseLabel,
	}
	if formatter.dateLayout == "" {
		formatter.dateLayout = "2006-01-02"
	}
	if formatter.trueLabel == "" {
		formatter.trueLabel = "Yes"
	}
	if formatter.falseLabel == "" {
		formatter.falseLabel = "No"
	}
	return formatter
}

// FormatCell renders a single value for its declared field type. A value
// that cannot be coerced degrades to the empty string, it never aborts the
// report.
func (f *Formatter) FormatCell(value interface{}, fieldType schema.FieldType) string {
	formatted, _ := f.Format("", value, fieldType)
	return formatted
}

// Format renders a cell and reports an uncoercible value as a FormatError
// while still returning the empty-string fallback. Strings that cannot be
// parsed as the declared type pass through untouched, which keeps a second
// formatting pass over already formatted rows a no-op.
func (f *Formatter) Format(field string, value interface{}, fieldType schema.FieldType) (string, error) {
	if value == nil {
		return "", nil
	}

	switch fieldType {
	case schema.TypeNumber:
		num, ok := cellFloat(value)
		if !ok {
			return fallbackString(field, value)
		}
		return f.printer.Sprint(number.Decimal(num)), nil
	case schema.TypeCurrency:
		num, ok := cellFloat(value)
		if !ok {
			return fallbackString(field, value)
		}
		return f.printer.Sprint(currency.Symbol(f.unit.Amount(num))), nil
	case schema.TypeDate:
		t, ok := cellTime(value)
		if !ok {
			return fallbackString(field, value)
		}
		return t.Format(f.dateLayout), nil
	case schema.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return fallbackString(field, value)
		}
		if b {
			return f.trueLabel, nil
		}
		return f.falseLabel, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func fallbackString(field string, value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", &apierrors.FormatError{Field: field, Value: value}
}

func cellFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func cellTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
