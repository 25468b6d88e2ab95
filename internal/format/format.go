// Package format renders backend numbers for display. Functions here
// are pure; templates call them through FuncMap bindings.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// CO2e formats a mass in kilograms with a magnitude-aware unit:
// grams below 1 kg, kilograms below 1000 kg, tonnes above.
func CO2e(kg float64) string {
	switch {
	case kg < 1:
		return fmt.Sprintf("%.0f g", kg*1000)
	case kg < 1000:
		return fmt.Sprintf("%.2f kg", kg)
	default:
		return fmt.Sprintf("%.2f tonnes", kg/1000)
	}
}

// Number formats a value with thousands separators and at most two
// decimal places, dropping a trailing ".00".
func Number(v float64) string {
	s := humanize.CommafWithDigits(v, 2)
	return s
}

// Date reformats a backend ISO-8601 timestamp as "Jan 2, 2006".
// Unparseable input is returned verbatim rather than erroring; dates
// here are cosmetic.
func Date(iso string) string {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return iso
}

// Earths converts a lifetime footprint into the "planets required if
// everyone lived like you" figure shown on the dashboard. The 2000 kg
// divisor is the sustainable annual per-person budget.
func Earths(totalKg float64) float64 {
	return totalKg / 2000
}
