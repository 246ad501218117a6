package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/quote/model"
)

func quotationCatalog() *Catalog {
	return NewCatalog([]model.CatalogItem{
		item("1", "Afastador Senn Mueller 16cm", "S1", price(42.5)),
		item("2", "Pinça Kelly Curva 14cm", "S2", price(10)),
		item("3", "Cuba Rim Inox", "S1", nil),
	})
}

func newQuotation(terms ...model.QueryTerm) *Quotation {
	return BuildQuotation(NewRanker(defaultScorer(PolicyStrict)), quotationCatalog(), terms)
}

func TestBuildQuotation_TotalsAndClassification(t *testing.T) {
	q := newQuotation(
		model.QueryTerm{Text: "AFASTADOR SEMM MUELLER 16CM", Quantity: 2},
		model.QueryTerm{Text: "xyzzy plugh", Quantity: 1},
	)
	require.Equal(t, 2, q.Len())
	assert.Equal(t, "strict", q.Policy())

	lines := q.Lines()
	require.NotEmpty(t, lines[0].Candidates)
	assert.Equal(t, "1", lines[0].Candidates[0].Item.ID)
	assert.Empty(t, lines[1].Candidates)

	it, qty := q.EffectiveSelection(0)
	require.NotNil(t, it)
	assert.Equal(t, "1", it.ID)
	assert.Equal(t, 2, qty)

	it, qty = q.EffectiveSelection(1)
	assert.Nil(t, it)
	assert.Equal(t, 1, qty)

	assert.InDelta(t, 85.0, q.Total(""), 1e-9)
	assert.Equal(t, model.Similar, q.Classify(0))
	assert.Equal(t, model.NotFound, q.Classify(1))
}

func TestBuildQuotation_ClampsQuantity(t *testing.T) {
	q := newQuotation(model.QueryTerm{Text: "pinça kelly curva 14cm", Quantity: 0})
	assert.Equal(t, 1, q.Lines()[0].RequestedQuantity)
	assert.Equal(t, model.Exact, q.Classify(0))

	require.NoError(t, q.SetSelection(0, "2", -4))
	_, qty := q.EffectiveSelection(0)
	assert.Equal(t, 1, qty)
}

func TestQuotation_Overrides(t *testing.T) {
	q := newQuotation(
		model.QueryTerm{Text: "AFASTADOR SEMM MUELLER 16CM", Quantity: 2},
		model.QueryTerm{Text: "xyzzy plugh", Quantity: 1},
	)

	// any catalog item may be picked, even for a line without candidates
	require.NoError(t, q.SetSelection(1, "2", 3))
	sel, ok := q.Override(1)
	require.True(t, ok)
	assert.Equal(t, model.Selection{ItemID: "2", Quantity: 3}, sel)
	assert.InDelta(t, 115.0, q.Total(""), 1e-9)
	assert.Equal(t, model.Similar, q.Classify(1))

	// the new override replaces the old one
	require.NoError(t, q.SetSelection(0, "3", 5))
	require.NoError(t, q.SetSelection(0, "3", 6))
	it, qty := q.EffectiveSelection(0)
	assert.Equal(t, "3", it.ID)
	assert.Equal(t, 6, qty)
	assert.InDelta(t, 30.0, q.Total(""), 1e-9, "missing price counts as 0")

	require.NoError(t, q.ClearSelection(0))
	_, ok = q.Override(0)
	assert.False(t, ok)
	assert.InDelta(t, 115.0, q.Total(""), 1e-9)
}

func TestQuotation_SupplierFilter(t *testing.T) {
	q := newQuotation(
		model.QueryTerm{Text: "AFASTADOR SEMM MUELLER 16CM", Quantity: 2},
		model.QueryTerm{Text: "Pinça Kelly Curva 14cm", Quantity: 3},
	)
	assert.InDelta(t, 115.0, q.Total(""), 1e-9)
	assert.InDelta(t, 85.0, q.Total("s1"), 1e-9)
	assert.InDelta(t, 30.0, q.Total("S2"), 1e-9)
	assert.Zero(t, q.Total("S3"))
	assert.True(t, SupplierMatches("Cirúrgica São Paulo", "cirurgica sao paulo"))
}

func TestQuotation_SelectionErrors(t *testing.T) {
	q := newQuotation(model.QueryTerm{Text: "pinça kelly", Quantity: 1})

	assert.ErrorIs(t, q.SetSelection(1, "1", 1), ErrLineOutOfRange)
	assert.ErrorIs(t, q.SetSelection(-1, "1", 1), ErrLineOutOfRange)
	assert.ErrorIs(t, q.SetSelection(0, "nope", 1), ErrUnknownItem)
	assert.ErrorIs(t, q.ClearSelection(3), ErrLineOutOfRange)
	assert.Equal(t, model.NotFound, q.Classify(9))

	it, qty := q.EffectiveSelection(9)
	assert.Nil(t, it)
	assert.Zero(t, qty)
}

func TestQuotation_View(t *testing.T) {
	q := newQuotation(
		model.QueryTerm{Text: "AFASTADOR SEMM MUELLER 16CM", Quantity: 2},
		model.QueryTerm{Text: "xyzzy plugh", Quantity: 1},
	)
	require.NoError(t, q.SetSelection(1, "2", 3))

	v := q.View("S2")
	require.Len(t, v.Lines, 2)
	assert.Equal(t, "strict", v.Policy)
	assert.False(t, v.Lines[0].Included)
	assert.Zero(t, v.Lines[0].LineTotal)
	assert.InDelta(t, 42.5, v.Lines[0].UnitPrice, 1e-9)

	assert.True(t, v.Lines[1].Overridden)
	assert.True(t, v.Lines[1].Included)
	assert.NotNil(t, v.Lines[1].Candidates)
	assert.InDelta(t, 30.0, v.Lines[1].LineTotal, 1e-9)
	assert.InDelta(t, 30.0, v.Total, 1e-9)
	assert.InDelta(t, q.Total("S2"), v.Total, 1e-9)
}
