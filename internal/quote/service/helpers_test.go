package service

import "quote-service/internal/quote/model"

func price(f float64) *float64 { return &f }

func item(id, title, supplier string, p *float64) model.CatalogItem {
	return model.CatalogItem{ID: id, Title: title, Supplier: supplier, Price: p}
}

func defaultScorer(p ScoringPolicy) *Scorer { return NewScorer(DefaultVocabulary(), p) }
