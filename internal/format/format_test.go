package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCO2e(t *testing.T) {
	tests := []struct {
		name string
		kg   float64
		want string
	}{
		{"grams below one kilogram", 0.5, "500 g"},
		{"kilograms with two decimals", 12.345, "12.35 kg"},
		{"tonnes above a thousand", 2500, "2.50 tonnes"},
		{"zero", 0, "0 g"},
		{"boundary to kilograms", 1, "1.00 kg"},
		{"boundary to tonnes", 1000, "1.00 tonnes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CO2e(tt.kg))
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "10,000", Number(10000))
	assert.Equal(t, "1,234.57", Number(1234.567))
	assert.Equal(t, "0.5", Number(0.5))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "Mar 5, 2026", Date("2026-03-05T12:30:00Z"))
	assert.Equal(t, "Mar 5, 2026", Date("2026-03-05T12:30:00"))
	assert.Equal(t, "Mar 5, 2026", Date("2026-03-05"))
	// Garbage passes through untouched.
	assert.Equal(t, "not-a-date", Date("not-a-date"))
}

func TestEarths(t *testing.T) {
	assert.InDelta(t, 1.5, Earths(3000), 1e-9)
	assert.InDelta(t, 0, Earths(0), 1e-9)
}
