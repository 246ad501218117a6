package service

import (
	"errors"
	"fmt"
	"sync"

	"quote-service/internal/quote/model"
)

var (
	ErrLineOutOfRange = errors.New("line index out of range")
	ErrUnknownItem    = errors.New("unknown catalog item")
)

// Quotation is the aggregated result of one search: one ranked line per
// requested term plus at most one operator override per line.
// A new search builds a new Quotation; overrides never carry over.
type Quotation struct {
	mu        sync.RWMutex
	catalog   *Catalog
	policy    string
	lines     []model.LineResult
	overrides []*model.Selection // nil = top candidate with requested quantity
}

// BuildQuotation ranks every term and returns the index-aligned quotation.
func BuildQuotation(r *Ranker, c *Catalog, terms []model.QueryTerm) *Quotation {
	q := &Quotation{
		catalog:   c,
		policy:    r.Scorer().Policy().Name,
		lines:     make([]model.LineResult, len(terms)),
		overrides: make([]*model.Selection, len(terms)),
	}
	for i, t := range terms {
		q.lines[i] = model.LineResult{
			Term:              t.Text,
			Candidates:        r.Rank(c, t.Text),
			RequestedQuantity: clampQty(t.Quantity),
		}
	}
	return q
}

func (q *Quotation) Len() int { return len(q.lines) }

func (q *Quotation) Policy() string { return q.policy }

// Lines returns the ranked lines. The slice is shared; callers must not modify it.
func (q *Quotation) Lines() []model.LineResult { return q.lines }

// SetSelection overrides the effective item of a line. Quantity is clamped to >= 1.
// The item may be any candidate of the line or any catalog item.
func (q *Quotation) SetSelection(line int, itemID string, quantity int) error {
	if line < 0 || line >= len(q.lines) {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, line)
	}
	if _, ok := q.lookup(line, itemID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	q.mu.Lock()
	q.overrides[line] = &model.Selection{ItemID: itemID, Quantity: clampQty(quantity)}
	q.mu.Unlock()
	return nil
}

// ClearSelection drops the override of a line, restoring the default.
func (q *Quotation) ClearSelection(line int) error {
	if line < 0 || line >= len(q.lines) {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, line)
	}
	q.mu.Lock()
	q.overrides[line] = nil
	q.mu.Unlock()
	return nil
}

// Override returns the explicit selection of a line, if any.
func (q *Quotation) Override(line int) (model.Selection, bool) {
	if line < 0 || line >= len(q.lines) {
		return model.Selection{}, false
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if o := q.overrides[line]; o != nil {
		return *o, true
	}
	return model.Selection{}, false
}

// EffectiveSelection resolves a line: the override, else the top candidate
// with the requested quantity, else (nil, requested quantity).
func (q *Quotation) EffectiveSelection(line int) (*model.CatalogItem, int) {
	if line < 0 || line >= len(q.lines) {
		return nil, 0
	}
	l := q.lines[line]
	if o, ok := q.Override(line); ok {
		if it, found := q.lookup(line, o.ItemID); found {
			return &it, o.Quantity
		}
	}
	if len(l.Candidates) == 0 {
		return nil, l.RequestedQuantity
	}
	it := l.Candidates[0].Item
	return &it, l.RequestedQuantity
}

// Total sums price x quantity over effective items; a non-empty supplier
// keeps only lines whose effective item comes from that supplier.
func (q *Quotation) Total(supplier string) float64 {
	total := 0.0
	for i := range q.lines {
		total += q.lineTotal(i, supplier)
	}
	return total
}

func (q *Quotation) lineTotal(line int, supplier string) float64 {
	it, qty := q.EffectiveSelection(line)
	if it == nil || !SupplierMatches(it.Supplier, supplier) {
		return 0
	}
	return it.UnitPrice() * float64(qty)
}

// Classify: Exact when the effective title normalizes to the term, Similar
// when some item is selected, NotFound when the line had no candidates.
func (q *Quotation) Classify(line int) model.Classification {
	if line < 0 || line >= len(q.lines) {
		return model.NotFound
	}
	if len(q.lines[line].Candidates) == 0 {
		if _, ok := q.Override(line); !ok {
			return model.NotFound
		}
	}
	it, _ := q.EffectiveSelection(line)
	if it == nil {
		return model.NotFound
	}
	if Normalize(it.Title) == Normalize(q.lines[line].Term) {
		return model.Exact
	}
	return model.Similar
}

// SupplierMatches compares suppliers ignoring case and accents. An empty
// filter matches everything.
func SupplierMatches(supplier, filter string) bool {
	if filter == "" {
		return true
	}
	return Normalize(supplier) == Normalize(filter)
}

func (q *Quotation) lookup(line int, itemID string) (model.CatalogItem, bool) {
	for _, c := range q.lines[line].Candidates {
		if c.Item.ID == itemID {
			return c.Item, true
		}
	}
	return q.catalog.Find(itemID)
}

func clampQty(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
