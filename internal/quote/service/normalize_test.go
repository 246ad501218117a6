package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Pinça Kelly-Curva  14CM", "pinca kelly curva 14cm"},
		{"  AFASTADOR  Senn/Müller ", "afastador senn muller"},
		{"Tesoura Metzenbaum (reta) 18cm", "tesoura metzenbaum reta 18cm"},
		{"AÇÃO", "acao"},
		{"Cuba-Rim\tInox\n", "cuba rim inox"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := Normalize(c.in)
			assert.Equal(t, c.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"pinca", "kelly", "14cm"}, Tokens(Normalize("Pinça  Kelly 14cm")))
	assert.Empty(t, Tokens(""))
}
