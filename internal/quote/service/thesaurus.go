package service

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the static lookup data the scorer is built with.
// Every entry is normalized on construction, so the source may be written
// with accents and capitals.
type Vocabulary struct {
	Synonyms    map[string][]string `yaml:"synonyms"`    // canonical -> variants
	StopWords   []string            `yaml:"stop_words"`  // connectors, units, packaging
	Categories  []string            `yaml:"categories"`  // generic instrument types
	Accessories []string            `yaml:"accessories"` // handle/support/cover words
	Units       []string            `yaml:"units"`       // suffixes allowed on numeric tokens (16cm)
}

// LoadVocabulary reads a YAML vocabulary. Sections missing from the file keep
// the built-in defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(b, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	def := DefaultVocabulary()
	if v.Synonyms == nil {
		v.Synonyms = def.Synonyms
	}
	if v.StopWords == nil {
		v.StopWords = def.StopWords
	}
	if v.Categories == nil {
		v.Categories = def.Categories
	}
	if v.Accessories == nil {
		v.Accessories = def.Accessories
	}
	if v.Units == nil {
		v.Units = def.Units
	}
	return v, nil
}

// Thesaurus resolves a token to its synonym group. Any member of a group
// (canonical key or variant) resolves to the whole group.
type Thesaurus struct {
	groups map[string][]string
}

func NewThesaurus(synonyms map[string][]string) *Thesaurus {
	th := &Thesaurus{groups: make(map[string][]string)}

	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic merge order

	for _, k := range keys {
		set := map[string]struct{}{}
		add := func(s string) {
			if n := Normalize(s); n != "" {
				set[n] = struct{}{}
			}
		}
		add(k)
		for _, v := range synonyms[k] {
			add(v)
		}
		// a variant listed under two keys joins both groups
		for m := range set {
			for _, prev := range th.groups[m] {
				set[prev] = struct{}{}
			}
		}
		group := make([]string, 0, len(set))
		for m := range set {
			group = append(group, m)
		}
		sort.Strings(group)
		for _, m := range group {
			th.groups[m] = group
		}
	}
	return th
}

// SynonymsOf returns the token's group, or the singleton {token}.
// The token itself is always first.
func (t *Thesaurus) SynonymsOf(token string) []string {
	g, ok := t.groups[token]
	if !ok {
		return []string{token}
	}
	out := make([]string, 0, len(g))
	out = append(out, token)
	for _, s := range g {
		if s != token {
			out = append(out, s)
		}
	}
	return out
}

// Same reports whether a and b are equal or declared synonyms.
func (t *Thesaurus) Same(a, b string) bool {
	if a == b {
		return true
	}
	for _, s := range t.groups[a] {
		if s == b {
			return true
		}
	}
	return false
}

func wordSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		for _, tok := range strings.Fields(Normalize(w)) {
			m[tok] = struct{}{}
		}
	}
	return m
}
