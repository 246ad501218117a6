package catalog

import (
	"sync"

	"quote-service/internal/metrics"
	"quote-service/internal/quote/model"
	"quote-service/internal/quote/service"
)

// Store holds the current catalog snapshot. Readers get an immutable
// snapshot; Replace swaps it wholesale.
type Store struct {
	mu  sync.RWMutex
	cur *service.Catalog
}

func NewStore(items []model.CatalogItem) *Store {
	s := &Store{}
	s.Replace(items)
	return s
}

func (s *Store) Snapshot() *service.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Store) Replace(items []model.CatalogItem) *service.Catalog {
	c := service.NewCatalog(items)
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
	metrics.SetCatalogItems(c.Len())
	return c
}
