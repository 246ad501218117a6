package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"quote-service/internal/quote/service"
)

type field int

const (
	fieldTitle field = iota
	fieldCode
	fieldPrice
	fieldSupplier
	fieldBrand
	fieldCategory
	fieldDescription
	fieldID
	fieldCount
)

// header aliases per field, most specific first
var aliases = [fieldCount][]string{
	fieldTitle: {"produto", "nome do produto", "descricao do produto", "nome", "item",
		"titulo", "material", "title", "product", "product name", "name"},
	fieldCode: {"codigo", "cod", "sku", "referencia", "ref", "code", "part number", "catalogo"},
	fieldPrice: {"preco", "preco unitario", "valor", "valor unitario", "vlr", "custo",
		"price", "unit price"},
	fieldSupplier:    {"fornecedor", "distribuidor", "vendedor", "supplier", "vendor"},
	fieldBrand:       {"marca", "fabricante", "brand", "manufacturer"},
	fieldCategory:    {"categoria", "grupo", "familia", "linha", "category"},
	fieldDescription: {"descricao", "observacao", "obs", "detalhes", "especificacao", "description"},
	fieldID:          {"id", "identificador"},
}

// Mapping pins fields to explicit header names. Each value may list
// alternatives separated by "|". Empty fields are resolved from aliases.
type Mapping struct {
	Title       string
	Code        string
	Price       string
	Supplier    string
	Brand       string
	Category    string
	Description string
	ID          string
}

func (m Mapping) explicit() [fieldCount]string {
	return [fieldCount]string{
		fieldTitle: m.Title, fieldCode: m.Code, fieldPrice: m.Price, fieldSupplier: m.Supplier,
		fieldBrand: m.Brand, fieldCategory: m.Category, fieldDescription: m.Description, fieldID: m.ID,
	}
}

type columns [fieldCount]string

// resolveColumns maps each field to one source header. Explicit names are
// honored first, then the alias phases run in order (exact, normalized-exact,
// containment, fuzzy subsequence); within a phase the longest alias hit wins
// so "Nome do fornecedor" goes to supplier rather than title.
func resolveColumns(headers []string, m Mapping) columns {
	var cols columns
	used := map[string]bool{}

	sorted := append([]string(nil), headers...)
	sort.Strings(sorted)
	norm := make(map[string]string, len(sorted))
	for _, h := range sorted {
		norm[h] = service.Normalize(h)
	}

	for f, want := range m.explicit() {
		if want == "" {
			continue
		}
		for _, alt := range strings.Split(want, "|") {
			alt = strings.TrimSpace(alt)
			for _, h := range sorted {
				if !used[h] && (h == alt || norm[h] == service.Normalize(alt)) {
					cols[f] = h
					used[h] = true
					break
				}
			}
			if cols[f] != "" {
				break
			}
		}
	}

	phases := []func(header, alias string) bool{
		func(h, a string) bool { return h == a },
		func(h, a string) bool { return norm[h] == a },
		func(h, a string) bool {
			return len(a) >= 3 && strings.Contains(" "+norm[h]+" ", " "+a+" ")
		},
		func(h, a string) bool { return len(a) >= 4 && fuzzy.MatchNormalizedFold(a, h) },
	}
	for _, match := range phases {
		for {
			bestF, bestH, bestLen := -1, "", 0
			for f := field(0); f < fieldCount; f++ {
				if cols[f] != "" {
					continue
				}
				for _, a := range aliases[f] {
					for _, h := range sorted {
						if used[h] || !match(h, a) {
							continue
						}
						if len(a) > bestLen {
							bestF, bestH, bestLen = int(f), h, len(a)
						}
					}
				}
			}
			if bestF < 0 {
				break
			}
			cols[bestF] = bestH
			used[bestH] = true
		}
	}
	return cols
}
