package model

import "sort"

// FaqEntry is one curated question/answer pair from the optimization
// dataset.
type FaqEntry struct {
	Question string `toml:"question" json:"question"`
	Answer   string `toml:"answer" json:"answer"`
	Category string `toml:"category" json:"category"`
}

// ConceptMap maps a concept keyword to related course names or codes.
type ConceptMap map[string][]string

// Keys returns the concept keywords in sorted order so that iteration
// is deterministic.
func (x ConceptMap) Keys() []string {
	keys := make([]string, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
