// Package extract turns a pasted request into (name, quantity) terms.
package extract

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"quote-service/internal/metrics"
	"quote-service/internal/quote/model"
)

// Extractor parses free text into query terms. Implementations must drop
// greetings, keep multi-word names intact and default quantity to 1.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]model.QueryTerm, error)
}

// Func adapts a plain function to Extractor.
type Func func(ctx context.Context, text string) ([]model.QueryTerm, error)

func (f Func) Extract(ctx context.Context, text string) ([]model.QueryTerm, error) {
	return f(ctx, text)
}

// Split is the naive fallback: every line / comma separated piece becomes a
// term with quantity 1. It never fails.
type Split struct{}

func (Split) Extract(_ context.Context, text string) ([]model.QueryTerm, error) {
	pieces := splitPieces(text)
	out := make([]model.QueryTerm, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, model.QueryTerm{Text: p, Quantity: 1})
	}
	return out, nil
}

// splitPieces cuts on line breaks, ';' and ','; a comma between two digits
// ("0,5mm") is a decimal separator and stays. List markers are dropped.
func splitPieces(text string) []string {
	var out []string
	for _, line := range splitLines(text) {
		out = append(out, splitCommas(reBullet.ReplaceAllString(line, ""))...)
	}
	return out
}

func splitLines(text string) []string {
	var out []string
	for _, l := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' || r == ';' }) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func splitCommas(line string) []string {
	rs := []rune(line)
	var out []string
	start := 0
	flush := func(end int) {
		if p := strings.TrimSpace(string(rs[start:end])); p != "" {
			out = append(out, p)
		}
	}
	for i, r := range rs {
		if r != ',' {
			continue
		}
		if i > 0 && i+1 < len(rs) && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]) {
			continue
		}
		flush(i)
		start = i + 1
	}
	flush(len(rs))
	return out
}

// WithFallback runs primary and, when it fails or yields nothing, fallback.
// Only a failing fallback surfaces an error.
func WithFallback(primary, fallback Extractor, logger zerolog.Logger) Extractor {
	if primary == nil {
		return fallback
	}
	return Func(func(ctx context.Context, text string) ([]model.QueryTerm, error) {
		terms, err := primary.Extract(ctx, text)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("item extraction failed, splitting lines")
			metrics.IncExtractFallback("error")
		case len(terms) == 0 && strings.TrimSpace(text) != "":
			logger.Warn().Msg("item extraction returned nothing, splitting lines")
			metrics.IncExtractFallback("empty")
		default:
			return terms, nil
		}
		return fallback.Extract(ctx, text)
	})
}

// sanitize drops empty names and clamps quantities.
func sanitize(terms []model.QueryTerm) []model.QueryTerm {
	out := terms[:0]
	for _, t := range terms {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		if t.Quantity < 1 {
			t.Quantity = 1
		}
		out = append(out, t)
	}
	return out
}
