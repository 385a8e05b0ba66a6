package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		name  string
		gross float64
		want  float64
	}{
		{"zero income", 0, 0},
		{"below exemption", 200000, 0},
		{"exemption boundary", 250000, 0},
		{"just above exemption", 250001, 0.05},
		{"mid bracket", 400000, 7500},
		{"mid bracket cap", 500000, 12500},
		{"upper bracket", 750000, 62500},
		{"upper bracket cap", 1000000, 112500},
		{"top bracket", 1500000, 262500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateTax(tt.gross), 0.001)
		})
	}
}

// The rate schedule is continuous: the tax at each cap equals the base of
// the next bracket.
func TestCalculateTax_BracketContinuity(t *testing.T) {
	assert.InDelta(t, CalculateTax(250000), CalculateTax(250000.01), 0.01)
	assert.InDelta(t, CalculateTax(500000), CalculateTax(500000.01), 0.01)
	assert.InDelta(t, CalculateTax(1000000), CalculateTax(1000000.01), 0.01)
}
