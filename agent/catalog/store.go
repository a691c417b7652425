package catalog

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Store is the read-only, in-memory catalog. It is safe for concurrent use
// because nothing mutates it after NewStore returns.
type Store struct {
	parts   []Part
	indexed [][]string
}

// NewStore deep-copies parts and builds the search attributes for each one.
// Every Part handed out by the Store is a copy as well.
func NewStore(parts []Part) *Store {
	owned := make([]Part, len(parts))
	for i, p := range parts {
		owned[i] = p.clone()
	}

	indexed := make([][]string, len(owned))
	for i := range owned {
		owned[i].searchAttributes = buildSearchAttributes(owned[i])
		indexed[i] = searchFields(owned[i])
	}
	return &Store{parts: owned, indexed: indexed}
}

func searchFields(p Part) []string {
	fields := []string{
		strings.ToLower(p.Designation),
		strings.ToLower(p.Category),
		strings.ToLower(p.Taxonomy),
		strings.ToLower(p.Description),
		strings.ToLower(p.Benefits),
	}
	for _, value := range p.searchAttributes {
		if value != "" {
			fields = append(fields, strings.ToLower(value))
		}
	}
	return fields
}

func (s *Store) Len() int { return len(s.parts) }

// All returns every part in load order.
func (s *Store) All() []Part {
	out := make([]Part, len(s.parts))
	for i, p := range s.parts {
		out[i] = p.clone()
	}
	return out
}

// Search returns the parts where any whitespace-separated term of query is a
// case-insensitive substring of any searchable field. Results keep load
// order. A blank query returns the whole catalog.
func (s *Store) Search(query string) []Part {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return s.All()
	}

	var out []Part
	for i, fields := range s.indexed {
		if matchesAny(fields, terms) {
			out = append(out, s.parts[i].clone())
		}
	}
	log.Debug().Str("query", query).Int("results", len(out)).Msg("catalog search")
	return out
}

func matchesAny(fields, terms []string) bool {
	for _, term := range terms {
		for _, field := range fields {
			if strings.Contains(field, term) {
				return true
			}
		}
	}
	return false
}

// GetByID matches id or designation, case-insensitively. First match wins.
func (s *Store) GetByID(id string) (Part, bool) {
	for _, p := range s.parts {
		if strings.EqualFold(p.ID, id) || strings.EqualFold(p.Designation, id) {
			return p.clone(), true
		}
	}
	return Part{}, false
}

func (s *Store) ByCategory(category string) []Part {
	var out []Part
	for _, p := range s.parts {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p.clone())
		}
	}
	return out
}
