package catalog

import (
	"maps"
	"slices"
)

// Measurement is one measured field of a part. Symbol is the cross-part join
// key (d, D, B, C, C0, ...); it may be empty.
type Measurement struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Value  Value  `json:"value" yaml:"value"`
	Unit   string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Display renders value and unit, e.g. "14.8 kN".
func (m Measurement) Display() string {
	value := m.Value.String()
	if m.Unit == "" {
		return value
	}
	if value == "" {
		return m.Unit
	}
	return value + " " + m.Unit
}

type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Part is a catalog entry. Parts are immutable once handed to a Store.
type Part struct {
	ID               string `json:"id" yaml:"id"`
	Designation      string `json:"designation" yaml:"designation"`
	Title            string `json:"title" yaml:"title"`
	Category         string `json:"category" yaml:"category"`
	Taxonomy         string `json:"taxonomy" yaml:"taxonomy"`
	ShortDescription string `json:"shortDescription" yaml:"shortDescription"`
	Description      string `json:"description" yaml:"description"`
	Benefits         string `json:"benefits" yaml:"benefits"`
	System           string `json:"system,omitempty" yaml:"system,omitempty"`
	Language         string `json:"language,omitempty" yaml:"language,omitempty"`
	Source           string `json:"source,omitempty" yaml:"source,omitempty"`

	Dimensions     []Measurement `json:"dimensions" yaml:"dimensions"`
	Performance    []Measurement `json:"performance" yaml:"performance"`
	Properties     []Property    `json:"properties" yaml:"properties"`
	Logistics      []Measurement `json:"logistics" yaml:"logistics"`
	Specifications []Property    `json:"specifications,omitempty" yaml:"specifications,omitempty"`

	searchAttributes map[string]string
}

// SearchAttributes returns a copy of the flattened attribute map built at
// load time.
func (p Part) SearchAttributes() map[string]string {
	return maps.Clone(p.searchAttributes)
}

// clone returns a Part that shares no slice or map storage with p.
func (p Part) clone() Part {
	out := p
	out.Dimensions = slices.Clone(p.Dimensions)
	out.Performance = slices.Clone(p.Performance)
	out.Properties = slices.Clone(p.Properties)
	out.Logistics = slices.Clone(p.Logistics)
	out.Specifications = slices.Clone(p.Specifications)
	out.searchAttributes = maps.Clone(p.searchAttributes)
	return out
}

func (p Part) DimensionBySymbol(symbol string) (Measurement, bool) {
	return findBySymbol(p.Dimensions, symbol)
}

func (p Part) PerformanceBySymbol(symbol string) (Measurement, bool) {
	return findBySymbol(p.Performance, symbol)
}

func findBySymbol(items []Measurement, symbol string) (Measurement, bool) {
	if symbol == "" {
		return Measurement{}, false
	}
	for _, item := range items {
		if item.Symbol == symbol {
			return item, true
		}
	}
	return Measurement{}, false
}
