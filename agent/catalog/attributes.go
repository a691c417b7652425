package catalog

import "strings"

func buildSearchAttributes(p Part) map[string]string {
	attrs := map[string]string{
		"designation": p.Designation,
		"category":    p.Category,
		"taxonomy":    p.Taxonomy,
		"description": p.Description,
		"benefits":    p.Benefits,
	}

	addMeasurements := func(group string, items []Measurement) {
		for _, item := range items {
			value := item.Display()
			if item.Name != "" {
				attrs[attributeKey(group, item.Name)] = value
			}
			if item.Symbol != "" {
				attrs[attributeKey(group, item.Symbol)] = value
			}
		}
	}

	addMeasurements("dim", p.Dimensions)
	addMeasurements("perf", p.Performance)
	addMeasurements("log", p.Logistics)
	for _, prop := range p.Properties {
		if prop.Name != "" {
			attrs[attributeKey("prop", prop.Name)] = prop.Value
		}
	}
	return attrs
}

func attributeKey(group, name string) string {
	return strings.ToLower(group + "_" + name)
}
