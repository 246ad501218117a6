package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"quote-service/internal/extract"
	"quote-service/internal/metrics"
	"quote-service/internal/quote/model"
)

// CatalogSource hands out the current catalog snapshot.
type CatalogSource interface {
	Snapshot() *Catalog
}

// Engine ties catalog, extractor and ranker together for one request.
type Engine struct {
	source    CatalogSource
	ranker    *Ranker
	extractor extract.Extractor
	logger    zerolog.Logger
}

// NewEngine wraps extractor with the line-split fallback; a nil extractor
// means the fallback alone.
func NewEngine(source CatalogSource, ranker *Ranker, extractor extract.Extractor, logger zerolog.Logger) *Engine {
	return &Engine{
		source:    source,
		ranker:    ranker,
		extractor: extract.WithFallback(extractor, extract.Split{}, logger),
		logger:    logger,
	}
}

func (e *Engine) Ranker() *Ranker { return e.ranker }

func (e *Engine) Catalog() *Catalog { return e.source.Snapshot() }

// Extract turns raw text into terms. It does not fail: a broken extractor
// degrades to splitting lines.
func (e *Engine) Extract(ctx context.Context, text string) []model.QueryTerm {
	terms, err := e.extractor.Extract(ctx, text)
	if err != nil {
		e.logger.Error().Err(err).Msg("fallback extraction failed")
		return nil
	}
	return terms
}

// Search extracts terms from text and builds a fresh quotation.
func (e *Engine) Search(ctx context.Context, text string) *Quotation {
	metrics.IncSearch("text")
	return e.build(e.Extract(ctx, text))
}

// Build ranks already extracted terms into a fresh quotation.
func (e *Engine) Build(terms []model.QueryTerm) *Quotation {
	metrics.IncSearch("terms")
	return e.build(terms)
}

func (e *Engine) build(terms []model.QueryTerm) *Quotation {
	start := time.Now()
	cat := e.source.Snapshot()
	q := BuildQuotation(e.ranker, cat, terms)
	if len(terms) > 0 {
		metrics.ObserveRank(time.Since(start) / time.Duration(len(terms)))
	}
	e.logger.Debug().
		Int("terms", len(terms)).
		Int("catalog", cat.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("quotation built")
	return q
}

// Rank scores one term, for ad-hoc lookups.
func (e *Engine) Rank(query string) []model.CandidateMatch {
	start := time.Now()
	out := e.ranker.Rank(e.source.Snapshot(), query)
	metrics.ObserveRank(time.Since(start))
	return out
}

// StaticCatalog is a CatalogSource over a fixed snapshot.
type StaticCatalog struct{ C *Catalog }

func (s StaticCatalog) Snapshot() *Catalog { return s.C }
