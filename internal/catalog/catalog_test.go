package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns_Aliases(t *testing.T) {
	cols := resolveColumns([]string{"Código", "Produto", "Preço", "Fornecedor", "Marca", "Obs"}, Mapping{})
	assert.Equal(t, "Produto", cols[fieldTitle])
	assert.Equal(t, "Código", cols[fieldCode])
	assert.Equal(t, "Preço", cols[fieldPrice])
	assert.Equal(t, "Fornecedor", cols[fieldSupplier])
	assert.Equal(t, "Marca", cols[fieldBrand])
	assert.Equal(t, "Obs", cols[fieldDescription])
	assert.Empty(t, cols[fieldCategory])
}

func TestResolveColumns_LongestAliasWins(t *testing.T) {
	cols := resolveColumns([]string{"Nome do Fornecedor", "Descrição do Produto", "Valor Unit."}, Mapping{})
	assert.Equal(t, "Descrição do Produto", cols[fieldTitle])
	assert.Equal(t, "Nome do Fornecedor", cols[fieldSupplier])
	assert.Equal(t, "Valor Unit.", cols[fieldPrice])
	assert.Empty(t, cols[fieldDescription])
}

func TestResolveColumns_FuzzyGluedHeaders(t *testing.T) {
	cols := resolveColumns([]string{"NomeProduto", "PreçoUnitário"}, Mapping{})
	assert.Equal(t, "NomeProduto", cols[fieldTitle])
	assert.Equal(t, "PreçoUnitário", cols[fieldPrice])
}

func TestResolveColumns_Explicit(t *testing.T) {
	cols := resolveColumns([]string{"Produto", "Item Name", "Vendor"}, Mapping{Title: "missing|item name"})
	assert.Equal(t, "Item Name", cols[fieldTitle])
	assert.Equal(t, "Vendor", cols[fieldSupplier])
}

func TestFromRows(t *testing.T) {
	rows := []map[string]string{
		{"Código": "AF-16", "Produto": "Afastador Senn Mueller 16cm", "Preço": "R$ 42,50", "Fornecedor": "S1"},
		{"Código": "", "Produto": "", "Preço": "", "Fornecedor": ""},
		{"Código": "Código", "Produto": "Produto", "Preço": "Preço", "Fornecedor": "Fornecedor"},
		{"Código": "PK-14", "Produto": "Pinça Kelly", "Preço": "sob consulta", "Fornecedor": "S2"},
	}
	items := FromRows(rows, Mapping{})
	require.Len(t, items, 2)

	assert.Equal(t, "row-1", items[0].ID)
	assert.Equal(t, "AF-16", items[0].Code)
	assert.Equal(t, "S1", items[0].Supplier)
	require.NotNil(t, items[0].Price)
	assert.InDelta(t, 42.5, *items[0].Price, 1e-9)
	assert.Equal(t, "R$ 42,50", items[0].Raw["Preço"])

	assert.Equal(t, "row-4", items[1].ID)
	assert.Nil(t, items[1].Price)
	assert.Zero(t, items[1].UnitPrice())
}

func TestFromRows_IDColumnAndDescriptionFallback(t *testing.T) {
	rows := []map[string]string{
		{"ID": "a1", "Descrição": "Cuba Rim Inox"},
		{"ID": "a2", "Descrição": "Cureta Lucas"},
	}
	items := FromRows(rows, Mapping{})
	require.Len(t, items, 2)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "Cuba Rim Inox", items[0].Title)
	assert.Empty(t, items[0].Description)

	// duplicate ids fall back to row positions
	rows[1]["ID"] = "a1"
	items = FromRows(rows, Mapping{})
	assert.Equal(t, "row-2", items[1].ID)

	assert.Nil(t, FromRows(nil, Mapping{}))
	assert.Nil(t, FromRows([]map[string]string{{"xyz": "1"}}, Mapping{}))
}

func TestLoad_CSV(t *testing.T) {
	data := "Produto;Preço;Fornecedor\nTesoura Mayo 17cm;12,90;Cirúrgica\nPinça Adson;8;Cirúrgica\n"
	items, err := Load(strings.NewReader(data), "cat.csv", 1, Mapping{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Tesoura Mayo 17cm", items[0].Title)
	assert.InDelta(t, 12.9, items[0].UnitPrice(), 1e-9)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte("produto,preco\nCuba Rim,5.5\n"))
	}))
	defer srv.Close()

	items, err := Fetch(context.Background(), srv.Client(), srv.URL+"/export", 1, Mapping{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cuba Rim", items[0].Title)

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing", 1, Mapping{})
	assert.Error(t, err)
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "catalog.xlsx", exportName("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "/x"))
	assert.Equal(t, "catalog.xls", exportName("application/vnd.ms-excel", "/x"))
	assert.Equal(t, "catalog.xlsx", exportName("application/octet-stream", "/files/cat.XLSX"))
	assert.Equal(t, "catalog.csv", exportName("", "/pub"))
}

func TestStore(t *testing.T) {
	s := NewStore(nil)
	assert.Zero(t, s.Snapshot().Len())

	old := s.Snapshot()
	c := s.Replace(FromRows([]map[string]string{{"Produto": "Cuba Rim"}}, Mapping{}))
	assert.Equal(t, 1, c.Len())
	assert.Same(t, c, s.Snapshot())
	assert.Zero(t, old.Len(), "earlier snapshots stay untouched")
}
