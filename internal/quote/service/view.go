package service

import "quote-service/internal/quote/model"

// LineView is the resolved state of one line, ready for JSON or export.
type LineView struct {
	Index             int                    `json:"index"`
	Term              string                 `json:"term"`
	RequestedQuantity int                    `json:"requestedQuantity"`
	Candidates        []model.CandidateMatch `json:"candidates"`
	Selected          *model.CatalogItem     `json:"selected,omitempty"`
	Quantity          int                    `json:"quantity"`
	Overridden        bool                   `json:"overridden"`
	Classification    model.Classification   `json:"classification"`
	UnitPrice         float64                `json:"unitPrice"`
	LineTotal         float64                `json:"lineTotal"`
	Included          bool                   `json:"included"` // passes the supplier filter
}

type View struct {
	Policy   string     `json:"policy"`
	Supplier string     `json:"supplier,omitempty"`
	Lines    []LineView `json:"lines"`
	Total    float64    `json:"total"`
}

// View derives the quotation as seen through an optional supplier filter.
func (q *Quotation) View(supplier string) View {
	v := View{Policy: q.policy, Supplier: supplier, Lines: make([]LineView, 0, len(q.lines))}
	for i, l := range q.lines {
		it, qty := q.EffectiveSelection(i)
		_, overridden := q.Override(i)
		lv := LineView{
			Index:             i,
			Term:              l.Term,
			RequestedQuantity: l.RequestedQuantity,
			Candidates:        l.Candidates,
			Selected:          it,
			Quantity:          qty,
			Overridden:        overridden,
			Classification:    q.Classify(i),
		}
		if lv.Candidates == nil {
			lv.Candidates = []model.CandidateMatch{}
		}
		if it != nil {
			lv.UnitPrice = it.UnitPrice()
			lv.Included = SupplierMatches(it.Supplier, supplier)
			if lv.Included {
				lv.LineTotal = lv.UnitPrice * float64(qty)
			}
		}
		v.Total += lv.LineTotal
		v.Lines = append(v.Lines, lv)
	}
	return v
}
