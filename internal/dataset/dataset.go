// Package dataset loads the bundled azkar categories.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed azkar.json
var bundled []byte

// Phrase is a single remembrance phrase.
type Phrase struct {
	ID      int
	Text    string
	Count   int // taps needed to complete the phrase
	SubText string
}

// Category is an ordered collection of phrases.
type Category struct {
	ID      int
	Title   string
	Phrases []Phrase
}

// Set is the read-only dataset, in file order.
type Set struct {
	categories []Category
	byID       map[int]int
}

type rawCategory struct {
	ID       int         `json:"id"`
	Category string      `json:"category"`
	Array    []rawPhrase `json:"array"`
}

type rawPhrase struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Count   int    `json:"count"`
	SubText string `json:"subtext"`
}

// Load reads a dataset file. An empty path loads the bundled dataset.
func Load(path string) (*Set, error) {
	if path == "" {
		return Parse(bundled)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a dataset in the [{id, category, array: [...]}] layout.
func Parse(data []byte) (*Set, error) {
	var raw []rawCategory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	set := &Set{byID: make(map[int]int, len(raw))}
	for _, rc := range raw {
		if _, dup := set.byID[rc.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d", rc.ID)
		}
		cat := Category{ID: rc.ID, Title: rc.Category, Phrases: make([]Phrase, 0, len(rc.Array))}
		for _, rp := range rc.Array {
			if rp.Count < 1 {
				return nil, fmt.Errorf("category %d phrase %d: count must be >= 1", rc.ID, rp.ID)
			}
			cat.Phrases = append(cat.Phrases, Phrase{ID: rp.ID, Text: rp.Text, Count: rp.Count, SubText: rp.SubText})
		}
		set.byID[rc.ID] = len(set.categories)
		set.categories = append(set.categories, cat)
	}
	return set, nil
}

// Categories returns all categories in file order.
func (s *Set) Categories() []Category {
	return s.categories
}

// Find returns the category with the given id.
func (s *Set) Find(id int) (Category, bool) {
	if s == nil {
		return Category{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// Phrases returns a copy of a category's phrases, or nil for an unknown id.
func (s *Set) Phrases(id int) []Phrase {
	cat, ok := s.Find(id)
	if !ok {
		return nil
	}
	return append([]Phrase(nil), cat.Phrases...)
}
