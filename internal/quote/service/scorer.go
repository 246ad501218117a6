package service

import (
	"fmt"
	"strings"

	"quote-service/internal/quote/model"
)

// TokenClass is the weight class of a query token.
type TokenClass int

const (
	ClassSpecific TokenClass = iota // named instrument / brand
	ClassCategory                   // generic instrument type
	ClassNumeric                    // sizes, counts
	ClassStop                       // connectors, units, packaging
)

func (c TokenClass) String() string {
	switch c {
	case ClassCategory:
		return "category"
	case ClassNumeric:
		return "numeric"
	case ClassStop:
		return "stop"
	default:
		return "specific"
	}
}

type Weights struct {
	Specific float64
	Category float64
	Numeric  float64
	Stop     float64
}

var DefaultWeights = Weights{Specific: 5, Category: 3, Numeric: 2, Stop: 0.5}

func (w Weights) of(c TokenClass) float64 {
	switch c {
	case ClassCategory:
		return w.Category
	case ClassNumeric:
		return w.Numeric
	case ClassStop:
		return w.Stop
	default:
		return w.Specific
	}
}

// ScoringPolicy selects between the strict and lenient scoring variants.
type ScoringPolicy struct {
	Name              string
	CompletenessBonus float64
	// RequireAnchor rejects multi-token queries whose anchor is absent from the title.
	RequireAnchor bool
}

var (
	PolicyStrict  = ScoringPolicy{Name: "strict", CompletenessBonus: 50, RequireAnchor: true}
	PolicyLenient = ScoringPolicy{Name: "lenient", CompletenessBonus: 20, RequireAnchor: false}
)

func PolicyByName(name string) (ScoringPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient", "loose":
		return PolicyLenient, nil
	default:
		return ScoringPolicy{}, fmt.Errorf("unknown scoring policy %q", name)
	}
}

const (
	minMatchLen       = 3 // prefix and edit distance need tokens longer than this
	prefixQuality     = 0.9
	distancePenalty   = 0.2
	anchorLeadBonus   = 30
	anchorAnyBonus    = 10
	accessoryPenalty  = 40
	exactTitleBonus   = 25
	shortNumericLen   = 2
	longTokenMinRunes = 6 // from here on two edits are tolerated
)

// Scorer computes the relevance of a catalog title for a query.
// It holds only immutable lookup data and is safe for concurrent use.
type Scorer struct {
	th          *Thesaurus
	stop        map[string]struct{}
	categories  map[string]struct{}
	accessories map[string]struct{}
	units       map[string]struct{}
	weights     Weights
	policy      ScoringPolicy
}

func NewScorer(v Vocabulary, p ScoringPolicy) *Scorer {
	return &Scorer{
		th:          NewThesaurus(v.Synonyms),
		stop:        wordSet(v.StopWords),
		categories:  wordSet(v.Categories),
		accessories: wordSet(v.Accessories),
		units:       wordSet(v.Units),
		weights:     DefaultWeights,
		policy:      p,
	}
}

func (s *Scorer) Policy() ScoringPolicy { return s.policy }
func (s *Scorer) Thesaurus() *Thesaurus { return s.th }

// Query is a normalized, classified query ready to be scored many times.
type Query struct {
	Text     string
	Norm     string
	Tokens   []string
	Classes  []TokenClass
	Synonyms [][]string
}

func (s *Scorer) Prepare(text string) Query {
	n := Normalize(text)
	toks := Tokens(n)
	q := Query{
		Text:     text,
		Norm:     n,
		Tokens:   toks,
		Classes:  make([]TokenClass, len(toks)),
		Synonyms: make([][]string, len(toks)),
	}
	for i, t := range toks {
		q.Classes[i] = s.Classify(t)
		q.Synonyms[i] = s.th.SynonymsOf(t)
	}
	return q
}

// Classify assigns a weight class: stop > category > numeric > specific.
func (s *Scorer) Classify(tok string) TokenClass {
	if _, ok := s.stop[tok]; ok {
		return ClassStop
	}
	if s.inSet(s.categories, tok) {
		return ClassCategory
	}
	if s.isNumeric(tok) {
		return ClassNumeric
	}
	return ClassSpecific
}

// Breakdown explains how a score was reached.
type Breakdown struct {
	Total     float64 `json:"total"`
	Complete  bool    `json:"complete"`
	Perfect   int     `json:"perfect"`
	Anchor    string  `json:"anchor"` // lead | any | none
	Accessory bool    `json:"accessory"`
	Exact     bool    `json:"exact"`
	Rejected  bool    `json:"rejected"`
}

// Score is the relevance of item for queryText. <= 0 means not a candidate.
func (s *Scorer) Score(item model.CatalogItem, queryText string) float64 {
	return s.Evaluate(s.Prepare(queryText), Normalize(item.Title)).Total
}

// Evaluate scores a prepared query against an already normalized title.
func (s *Scorer) Evaluate(q Query, title string) Breakdown {
	var b Breakdown
	titleToks := Tokens(title)
	if len(q.Tokens) == 0 || len(titleToks) == 0 {
		return b
	}
	exact := q.Norm == title

	// 1) anchor, checked first so the strict policy can bail out early
	anchor := q.Synonyms[0]
	switch {
	case s.anyEqual(anchor, titleToks[0]):
		b.Anchor = "lead"
	case s.appears(anchor, title, titleToks):
		b.Anchor = "any"
	default:
		b.Anchor = "none"
	}
	if s.policy.RequireAnchor && len(q.Tokens) > 1 && b.Anchor == "none" {
		b.Rejected = true
		return b
	}

	// 2) completeness gate
	significant, present := 0, 0
	for i, tok := range q.Tokens {
		if q.Classes[i] == ClassStop || s.isShortNumeric(tok) {
			continue
		}
		significant++
		if containsAny(title, q.Synonyms[i]) {
			present++
		}
	}
	if significant > 0 && present == significant {
		b.Complete = true
		b.Total += s.policy.CompletenessBonus
	}

	// 3) per-token weighted quality
	matchedSignificant := false
	for i := range q.Tokens {
		qual := s.bestQuality(q.Synonyms[i], q.Classes[i], titleToks)
		if qual <= 0 {
			continue
		}
		if qual == 1 {
			b.Perfect++
		}
		if q.Classes[i] != ClassStop {
			matchedSignificant = true
		}
		b.Total += qual * s.weights.of(q.Classes[i])
	}
	if !matchedSignificant && !b.Complete && !exact {
		// only connectors matched
		return Breakdown{Anchor: b.Anchor}
	}

	// 4) anchor bias
	switch b.Anchor {
	case "lead":
		b.Total += anchorLeadBonus
	case "any":
		b.Total += anchorAnyBonus
	}

	// 5) accessory penalty
	if s.accessoryMismatch(q, titleToks) {
		b.Accessory = true
		b.Total -= accessoryPenalty
	}

	if exact {
		b.Exact = true
		b.Total += exactTitleBonus
	}
	return b
}

// bestQuality is the best local match in [0,1] of one query token (given as its
// synonym list) over all title tokens.
func (s *Scorer) bestQuality(syns []string, class TokenClass, titleToks []string) float64 {
	best := 0.0
	for _, tt := range titleToks {
		if s.anyEqual(syns, tt) {
			return 1
		}
		for _, syn := range syns {
			n := len([]rune(syn))
			if n <= minMatchLen {
				continue
			}
			if (class == ClassSpecific || class == ClassCategory) && strings.HasPrefix(tt, syn) {
				best = max(best, prefixQuality)
				continue
			}
			if class == ClassStop || class == ClassNumeric {
				continue
			}
			thr := editThreshold(n)
			if diff := n - len([]rune(tt)); diff > thr || -diff > thr {
				continue
			}
			if d := levenshtein(syn, tt); d <= thr {
				best = max(best, 1-float64(d)*distancePenalty)
			}
		}
	}
	return best
}

func editThreshold(runes int) int {
	if runes >= longTokenMinRunes {
		return 2
	}
	return 1
}

// accessoryMismatch: the title names an accessory (handle, support, cover)
// the query did not ask for.
func (s *Scorer) accessoryMismatch(q Query, titleToks []string) bool {
	for _, syn := range q.Synonyms[0] {
		if _, ok := s.accessories[syn]; ok {
			return false
		}
	}
	for _, tt := range titleToks {
		if !s.inSet(s.accessories, tt) {
			continue
		}
		asked := false
		for i := range q.Tokens {
			if s.anyEqual(q.Synonyms[i], tt) {
				asked = true
				break
			}
		}
		if !asked {
			return true
		}
	}
	return false
}

func (s *Scorer) anyEqual(syns []string, tok string) bool {
	for _, syn := range syns {
		if syn == tok {
			return true
		}
	}
	return s.th.Same(syns[0], tok)
}

// appears: a synonym is one of the title tokens or, for multi-word
// synonyms, a phrase inside the title.
func (s *Scorer) appears(syns []string, title string, titleToks []string) bool {
	for _, tt := range titleToks {
		if s.anyEqual(syns, tt) {
			return true
		}
	}
	for _, syn := range syns {
		if strings.Contains(syn, " ") && strings.Contains(" "+title+" ", " "+syn+" ") {
			return true
		}
	}
	return false
}

func (s *Scorer) inSet(set map[string]struct{}, tok string) bool {
	for _, syn := range s.th.SynonymsOf(tok) {
		if _, ok := set[syn]; ok {
			return true
		}
	}
	return false
}

// isNumeric: digits, optionally followed by a unit suffix (16, 16cm, 10fr).
func (s *Scorer) isNumeric(tok string) bool {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	if i == len(tok) {
		return true
	}
	_, ok := s.units[tok[i:]]
	return ok
}

func (s *Scorer) isShortNumeric(tok string) bool {
	if len(tok) > shortNumericLen {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return tok != ""
}

func containsAny(title string, syns []string) bool {
	for _, syn := range syns {
		if syn != "" && strings.Contains(title, syn) {
			return true
		}
	}
	return false
}
