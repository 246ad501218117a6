package service

import (
	"runtime"
	"sort"
	"strings"
	"sync"

	"quote-service/internal/quote/model"
)

// TopK caps the candidates kept per query term.
const TopK = 15

// Catalog is an immutable snapshot of catalog items with their titles
// normalized once up front.
type Catalog struct {
	items  []model.CatalogItem
	titles []string
	byID   map[string]int
}

func NewCatalog(items []model.CatalogItem) *Catalog {
	c := &Catalog{
		items:  make([]model.CatalogItem, len(items)),
		titles: make([]string, len(items)),
		byID:   make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, it := range c.items {
		c.titles[i] = Normalize(it.Title)
		if _, dup := c.byID[it.ID]; !dup {
			c.byID[it.ID] = i
		}
	}
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of the catalog rows in input order.
func (c *Catalog) Items() []model.CatalogItem {
	if c == nil {
		return nil
	}
	out := make([]model.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Find(id string) (model.CatalogItem, bool) {
	if c == nil {
		return model.CatalogItem{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return model.CatalogItem{}, false
	}
	return c.items[i], true
}

// Suppliers lists distinct non-empty suppliers, sorted.
func (c *Catalog) Suppliers() []string {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, it := range c.items {
		s := strings.TrimSpace(it.Supplier)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Ranker scores a query against a whole catalog.
type Ranker struct {
	scorer *Scorer
	// catalogs with at least this many rows are scored by a worker fan-out;
	// <= 0 disables it
	ParallelThreshold int
	Workers           int
}

func NewRanker(s *Scorer) *Ranker {
	return &Ranker{scorer: s, ParallelThreshold: 2000, Workers: runtime.NumCPU()}
}

func (r *Ranker) Scorer() *Scorer { return r.scorer }

// Rank returns up to TopK candidates with score > 0, best first; equal
// scores keep catalog order.
func (r *Ranker) Rank(c *Catalog, queryText string) []model.CandidateMatch {
	q := r.scorer.Prepare(queryText)
	if len(q.Tokens) == 0 || c.Len() == 0 {
		return nil
	}

	scores := r.scoreAll(c, q)

	out := make([]model.CandidateMatch, 0, TopK)
	for i, sc := range scores {
		if sc > 0 {
			out = append(out, model.CandidateMatch{Item: c.items[i], Score: sc})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > TopK {
		out = out[:TopK]
	}
	return out
}

// scoreAll fills scores by catalog index so the result does not depend on
// execution order.
func (r *Ranker) scoreAll(c *Catalog, q Query) []float64 {
	n := c.Len()
	scores := make([]float64, n)

	workers := r.Workers
	if r.ParallelThreshold <= 0 || n < r.ParallelThreshold || workers < 2 {
		for i, t := range c.titles {
			scores[i] = r.scorer.Evaluate(q, t).Total
		}
		return scores
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				scores[i] = r.scorer.Evaluate(q, c.titles[i]).Total
			}
		}(lo, hi)
	}
	wg.Wait()
	return scores
}

// Explain scores a single item with the full breakdown.
func (r *Ranker) Explain(item model.CatalogItem, queryText string) Breakdown {
	return r.scorer.Evaluate(r.scorer.Prepare(queryText), Normalize(item.Title))
}
