package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42.50", 42.5, true},
		{"42,5", 42.5, true},
		{"R$ 1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"1.234.567", 1234567, true},
		{"1,234,567", 1234567, true},
		{"1 234,50", 1234.5, true},
		{"(10,00)", -10, true},
		{"-3", -3, true},
		{"", 0, false},
		{"sob consulta", 0, false},
		{"R$ -", 0, false},
	}
	for _, c := range cases {
		got, ok := ParsePrice(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, c.in)
		}
	}
}
