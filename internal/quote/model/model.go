package model

// CatalogItem is one purchasable product. Immutable once loaded.
type CatalogItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Code        string   `json:"code"`
	Price       *float64 `json:"price"` // nil when the source had no usable price
	Supplier    string   `json:"supplier"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`

	// Raw keeps the original row cells (header -> value) for export and debugging.
	// Scoring never reads it.
	Raw map[string]string `json:"raw,omitempty"`
}

// UnitPrice returns the price or 0 when absent.
func (c CatalogItem) UnitPrice() float64 {
	if c.Price == nil {
		return 0
	}
	return *c.Price
}

type QueryTerm struct {
	Text     string `json:"text"`
	Quantity int    `json:"quantity"` // >= 1
}

type CandidateMatch struct {
	Item  CatalogItem `json:"item"`
	Score float64     `json:"score"`
}

// LineResult is the ranked outcome for one requested term.
type LineResult struct {
	Term              string           `json:"term"`
	Candidates        []CandidateMatch `json:"candidates"` // descending score, catalog order on ties
	RequestedQuantity int              `json:"requestedQuantity"`
}

// Selection is an explicit operator override for a single line.
type Selection struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type Classification string

const (
	Exact    Classification = "exact"
	Similar  Classification = "similar"
	NotFound Classification = "not_found"
)
