package specialist

import (
	"strings"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

// ClassifyQueryType labels an answered turn. The first matching rule wins.
func ClassifyQueryType(utterance, response string) contractx.QueryType {
	input := strings.ToLower(utterance)
	resp := strings.ToLower(response)

	switch {
	case strings.Contains(input, "compare") || strings.Contains(input, "vs") || strings.Contains(resp, "comparison"):
		return contractx.QueryTypeComparison
	case strings.Contains(input, "dimension") || strings.Contains(resp, "dimension") || strings.Contains(resp, "mm"):
		return contractx.QueryTypeDimensions
	case strings.Contains(input, "load") || strings.Contains(resp, "load") || strings.Contains(resp, "rating") || strings.Contains(resp, "kn"):
		return contractx.QueryTypePerformance
	case strings.Contains(input, "weight") || strings.Contains(resp, "weight") || strings.Contains(resp, "kg"):
		return contractx.QueryTypeLogistics
	case strings.Contains(input, "what") && strings.Contains(input, "is"):
		return contractx.QueryTypeDefinition
	case strings.Contains(input, "show") || strings.Contains(input, "list") || strings.Contains(input, "all"):
		return contractx.QueryTypeCatalog
	default:
		return contractx.QueryTypeGeneral
	}
}
