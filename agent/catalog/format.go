package catalog

import (
	"fmt"
	"strings"
)

const (
	notAvailable  = "N/A"
	summaryLimit  = 5
	propertyLimit = 5
)

// FormatSummaries renders up to five parts separated by blank lines.
func FormatSummaries(parts []Part) string {
	if len(parts) > summaryLimit {
		parts = parts[:summaryLimit]
	}
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, FormatSummary(p))
	}
	return strings.Join(blocks, "\n\n")
}

func FormatSummary(p Part) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s - %s**\n", p.Designation, p.Title)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Description: %s\n", p.ShortDescription)

	if m, ok := p.DimensionBySymbol("d"); ok {
		fmt.Fprintf(&b, "Bore: %s\n", m.Display())
	}
	if m, ok := p.DimensionBySymbol("D"); ok {
		fmt.Fprintf(&b, "Outside: %s\n", m.Display())
	}
	if m, ok := p.DimensionBySymbol("B"); ok {
		fmt.Fprintf(&b, "Width: %s\n", m.Display())
	}
	if m, ok := p.PerformanceBySymbol("C"); ok {
		fmt.Fprintf(&b, "Dynamic Load: %s\n", m.Display())
	}
	return b.String()
}

func FormatDetails(p Part) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s - %s**\n", p.Designation, p.Title)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Taxonomy: %s\n\n", p.Taxonomy)
	fmt.Fprintf(&b, "**Description:** %s\n\n", p.Description)
	fmt.Fprintf(&b, "**Benefits:** %s\n\n", p.Benefits)
	b.WriteString(FormatDimensions(p))
	b.WriteString("\n")
	b.WriteString(FormatPerformance(p))

	if len(p.Properties) > 0 {
		b.WriteString("\n**Key Properties:**\n")
		props := p.Properties
		if len(props) > propertyLimit {
			props = props[:propertyLimit]
		}
		for _, prop := range props {
			fmt.Fprintf(&b, "- %s: %s\n", prop.Name, prop.Value)
		}
	}
	return b.String()
}

func FormatDimensions(p Part) string {
	return formatGroup("**Dimensions:**", p.Dimensions)
}

func FormatPerformance(p Part) string {
	return formatGroup("**Performance Data:**", p.Performance)
}

func formatGroup(title string, items []Measurement) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, m := range items {
		fmt.Fprintf(&b, "- %s: %s\n", label(m), m.Display())
	}
	return b.String()
}

// FormatComparison renders a and b side by side. Entries are joined by exact
// symbol equality; a side without a matching entry shows N/A. Entries with
// no symbol are never joined.
func FormatComparison(a, b Part) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Comparison: %s vs %s**\n\n", a.Designation, b.Designation)
	sb.WriteString("**Dimensions:**\n")
	writeJoined(&sb, a.Designation, b.Designation, a.Dimensions, b.Dimensions)
	sb.WriteString("\n**Performance:**\n")
	writeJoined(&sb, a.Designation, b.Designation, a.Performance, b.Performance)
	return sb.String()
}

func writeJoined(sb *strings.Builder, nameA, nameB string, left, right []Measurement) {
	matched := make([]bool, len(right))

	for _, l := range left {
		rightValue := notAvailable
		if l.Symbol != "" {
			for i, r := range right {
				if !matched[i] && r.Symbol == l.Symbol {
					matched[i] = true
					rightValue = r.Display()
					break
				}
			}
		}
		fmt.Fprintf(sb, "- %s: %s=%s, %s=%s\n", label(l), nameA, l.Display(), nameB, rightValue)
	}

	for i, r := range right {
		if matched[i] {
			continue
		}
		fmt.Fprintf(sb, "- %s: %s=%s, %s=%s\n", label(r), nameA, notAvailable, nameB, r.Display())
	}
}

func label(m Measurement) string {
	if m.Symbol == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Symbol)
}
