package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/quote/model"
)

func TestSplit(t *testing.T) {
	got, err := Split{}.Extract(context.Background(), "a, b;c\n\n  Pinça 0,5mm  \r\n")
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{
		{Text: "a", Quantity: 1},
		{Text: "b", Quantity: 1},
		{Text: "c", Quantity: 1},
		{Text: "Pinça 0,5mm", Quantity: 1},
	}, got)

	got, err = Split{}.Extract(context.Background(), "  \n ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplit_DropsListMarkers(t *testing.T) {
	got, err := Split{}.Extract(context.Background(), "1) Pinça Kelly\n2. Tesoura Mayo\n- Cuba rim\nb) Cureta")
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{
		{Text: "Pinça Kelly", Quantity: 1},
		{Text: "Tesoura Mayo", Quantity: 1},
		{Text: "Cuba rim", Quantity: 1},
		{Text: "Cureta", Quantity: 1},
	}, got)
}

func TestRules(t *testing.T) {
	text := "Bom dia!\n" +
		"Segue lista: pinça adson\n" +
		"10x pinça kelly\n" +
		"- 5 pinças allis\n" +
		"cuba rim 5un, Tesoura Mayo 17cm x 2\n" +
		"Afastador Farabeuf (2)\n" +
		"Pinça Kelly Curva 14cm\n" +
		"2 - Pinça Backhaus\n" +
		"Obrigado\n" +
		"Att, João"

	got, err := Rules{}.Extract(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{
		{Text: "pinça adson", Quantity: 1},
		{Text: "pinça kelly", Quantity: 10},
		{Text: "pinças allis", Quantity: 5},
		{Text: "cuba rim", Quantity: 5},
		{Text: "Tesoura Mayo 17cm", Quantity: 2},
		{Text: "Afastador Farabeuf", Quantity: 2},
		{Text: "Pinça Kelly Curva 14cm", Quantity: 1},
		{Text: "Pinça Backhaus", Quantity: 2},
	}, got)
}

func TestRules_KeepsLeadingSizes(t *testing.T) {
	got, err := Rules{}.Extract(context.Background(), "16 cm pinça kelly\npinça : 3")
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{
		{Text: "16 cm pinça kelly", Quantity: 1},
		{Text: "pinça", Quantity: 3},
	}, got)
}

func TestRules_OnlyChatter(t *testing.T) {
	got, err := Rules{}.Extract(context.Background(), "Olá, tudo bem?\nAtenciosamente")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	failing := Func(func(context.Context, string) ([]model.QueryTerm, error) {
		return nil, errors.New("boom")
	})
	empty := Func(func(context.Context, string) ([]model.QueryTerm, error) { return nil, nil })
	fixed := Func(func(context.Context, string) ([]model.QueryTerm, error) {
		return []model.QueryTerm{{Text: "x", Quantity: 7}}, nil
	})

	want := []model.QueryTerm{{Text: "a", Quantity: 1}, {Text: "b", Quantity: 1}}
	for name, primary := range map[string]Extractor{"error": failing, "empty": empty, "nil": nil} {
		got, err := WithFallback(primary, Split{}, logger).Extract(ctx, "a\nb")
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	got, err := WithFallback(fixed, Split{}, logger).Extract(ctx, "a\nb")
	require.NoError(t, err)
	assert.Equal(t, []model.QueryTerm{{Text: "x", Quantity: 7}}, got)
}
