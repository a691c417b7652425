package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

var designationPattern = regexp.MustCompile(`\b\d{4,5}\b`)

var categoryKeywords = []string{"deep groove", "ball bearing", "bearing", "angular", "spherical"}

var attributeKeywords = []struct {
	tag      string
	keywords []string
}{
	{tag: "bore", keywords: []string{"bore", "diameter", "inner diameter", "d "}},
	{tag: "outside", keywords: []string{"outside", "outer diameter", "d "}},
	{tag: "width", keywords: []string{"width", "b "}},
	{tag: "load", keywords: []string{"load", "rating", "capacity", "c ", "c0"}},
	{tag: "speed", keywords: []string{"speed", "rpm", "rmin"}},
}

var comparisonKeywords = []string{"compare", "vs", "difference"}

// PromptBuilder renders the extraction prompt for an utterance.
type PromptBuilder func(ctx context.Context, utterance string) ([]*schema.Message, error)

type QueryResult struct {
	Query  contractx.StructuredQuery
	Source Source
}

// QueryExtractor turns an utterance into a StructuredQuery. It never fails.
type QueryExtractor struct {
	model  contractx.LanguageModel
	prompt PromptBuilder
}

func NewQueryExtractor(model contractx.LanguageModel, prompt PromptBuilder) *QueryExtractor {
	return &QueryExtractor{model: model, prompt: prompt}
}

func (e *QueryExtractor) Extract(ctx context.Context, utterance string) QueryResult {
	query, err := e.extractWithModel(ctx, utterance)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("query extraction fell back to keywords")
		return QueryResult{Query: KeywordQuery(utterance), Source: Fallback}
	}
	return QueryResult{Query: query, Source: Parsed}
}

func (e *QueryExtractor) extractWithModel(ctx context.Context, utterance string) (contractx.StructuredQuery, error) {
	if e == nil || e.model == nil || e.prompt == nil {
		return contractx.StructuredQuery{}, errors.New("query extractor model is not configured")
	}
	msgs, err := e.prompt(ctx, utterance)
	if err != nil {
		return contractx.StructuredQuery{}, err
	}
	out, err := e.model.Complete(ctx, msgs, nil)
	if err != nil {
		return contractx.StructuredQuery{}, err
	}
	return ParseQuery(out.Content)
}

// ParseQuery reads the model's JSON permissively: code fences and prose
// around the object are ignored, null or missing fields are allowed, and
// non-string attribute entries are skipped.
func ParseQuery(raw string) (contractx.StructuredQuery, error) {
	body, err := jsonObject(raw)
	if err != nil {
		return contractx.StructuredQuery{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return contractx.StructuredQuery{}, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}

	query := contractx.StructuredQuery{QueryType: contractx.QueryTypeGeneral}
	if query.ProductName, err = optionalString(fields, "productName"); err != nil {
		return contractx.StructuredQuery{}, err
	}
	if query.ProductCategory, err = optionalString(fields, "productCategory"); err != nil {
		return contractx.StructuredQuery{}, err
	}

	queryType, err := optionalString(fields, "queryType")
	if err != nil {
		return contractx.StructuredQuery{}, err
	}
	query.QueryType = normalizeQueryType(queryType)

	if raw, ok := fields["requestedAttributes"]; ok {
		var items []any
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				if s, ok := item.(string); ok {
					query.AddAttribute(strings.TrimSpace(s))
				}
			}
		}
	}
	return query, nil
}

func jsonObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in model output", contractx.ErrSchemaViolation)
	}
	return raw[start : end+1], nil
}

func optionalString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", nil
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: %s must be a string", contractx.ErrSchemaViolation, name)
	}
	if v == nil {
		return "", nil
	}
	trimmed := strings.TrimSpace(*v)
	if strings.EqualFold(trimmed, "null") {
		return "", nil
	}
	return trimmed, nil
}

func normalizeQueryType(v string) contractx.QueryType {
	switch qt := contractx.QueryType(strings.ToLower(strings.TrimSpace(v))); qt {
	case contractx.QueryTypeSpecific, contractx.QueryTypeComparison, contractx.QueryTypeList, contractx.QueryTypeGeneral:
		return qt
	default:
		return contractx.QueryTypeGeneral
	}
}

// KeywordQuery is the deterministic fallback. Only the first designation is
// kept; comparisons rely on the model passing both designations as tool
// arguments.
func KeywordQuery(utterance string) contractx.StructuredQuery {
	input := strings.ToLower(utterance)
	query := contractx.StructuredQuery{QueryType: contractx.QueryTypeGeneral}

	if match := designationPattern.FindString(input); match != "" {
		query.ProductName = match
	}

	for _, category := range categoryKeywords {
		if strings.Contains(input, category) {
			query.ProductCategory = category
			break
		}
	}

	for _, entry := range attributeKeywords {
		if containsAny(input, entry.keywords) {
			query.AddAttribute(entry.tag)
		}
	}

	if containsAny(input, comparisonKeywords) {
		query.QueryType = contractx.QueryTypeComparison
	}
	return query
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
