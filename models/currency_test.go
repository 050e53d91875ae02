package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency_Round(t *testing.T) {
	c := NewCurrency("Credit", "Credits", 2)

	tests := []struct {
		name     string
		amount   float64
		expected float64
	}{
		{"no fraction", 10, 10},
		{"truncates below precision", 10.999, 10.99},
		{"keeps exact precision", 10.25, 10.25},
		{"floors toward negative infinity", -10.991, -11},
		{"negative exact", -10.99, -10.99},
		{"near one stays below", 0.999999, 0.99},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Round(tt.amount))
		})
	}
}

func TestCurrency_Round_Idempotent(t *testing.T) {
	c := NewCurrency("Credit", "Credits", 2)

	for _, amount := range []float64{0, 1, 1.005, -1.005, 123.456789, -987.654321, 0.1 + 0.2} {
		once := c.Round(amount)
		assert.Equal(t, once, c.Round(once), "round(round(%v))", amount)
	}
}

func TestCurrency_Round_NeverIncreases(t *testing.T) {
	c := NewCurrency("Credit", "Credits", 2)

	for _, amount := range []float64{1.019, 0.005, -0.005, 99.999, -99.999} {
		assert.LessOrEqual(t, c.Round(amount), amount)
	}
}

func TestCurrency_Round_ZeroDecimals(t *testing.T) {
	c := NewCurrency("Point", "Points", 0)

	assert.Equal(t, float64(3), c.Round(3.9))
	assert.Equal(t, float64(-4), c.Round(-3.1))
}

func TestCurrency_Round_NonFinitePassthrough(t *testing.T) {
	c := NewCurrency("Credit", "Credits", 2)

	assert.True(t, math.IsNaN(c.Round(math.NaN())))
	assert.True(t, math.IsInf(c.Round(math.Inf(1)), 1))
}

func TestCurrency_Format(t *testing.T) {
	c := NewCurrency("Credit", "Credits", 2)

	tests := []struct {
		amount   float64
		expected string
	}{
		{1, "1 Credit"},
		{-1, "-1 Credit"},
		{2, "2 Credits"},
		{0, "0 Credits"},
		{0.5, "0.5 Credits"},
		{1.25, "1.25 Credits"},
		// rounds before choosing the name, so a hair above one is plural
		// only when the truncation moves it off one
		{1.004, "1 Credit"},
		{0.999999, "0.99 Credits"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, c.Format(tt.amount), "format(%v)", tt.amount)
	}
}
