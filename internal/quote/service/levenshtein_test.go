package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"", "abc", 3},
		{"abc", "", 3},
		{"same", "same", 0},
		{"senn", "semm", 2},
		{"müller", "muller", 1}, // one rune, not two bytes
		{"retrator", "retractor", 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Distance(c.a, c.b), "%q -> %q", c.a, c.b)
		assert.Equal(t, c.want, Distance(c.b, c.a), "symmetry %q -> %q", c.b, c.a)
	}
}
