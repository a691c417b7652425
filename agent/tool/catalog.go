package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
	catalogx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

const (
	ToolSearchParts          = "searchParts"
	ToolGetPartByDesignation = "getPartByDesignation"
	ToolGetPartDimensions    = "getPartDimensions"
	ToolGetPartPerformance   = "getPartPerformance"
	ToolCompareParts         = "compareParts"

	DefaultResultTTL = 30 * time.Minute
)

const (
	msgNoResults       = "No bearing products found matching your criteria."
	msgNotFound        = "Bearing designation '%s' not found."
	msgCompareNotFound = "One or both bearings not found for comparison."

	errSearch      = "Error searching bearing products: %v"
	errProduct     = "Error getting bearing product: %v"
	errDimensions  = "Error getting bearing dimensions: %v"
	errPerformance = "Error getting bearing performance: %v"
	errCompare     = "Error comparing bearings: %v"
)

// Lookup is the read side of the catalog used by the tools.
type Lookup interface {
	Search(query string) []catalogx.Part
	GetByID(id string) (catalogx.Part, bool)
}

// SearchObserver is told about every searchParts query the model issues.
type SearchObserver func(query string)

type Option func(*Catalog)

func WithResultTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// Catalog exposes the bearing catalog as model-callable tools. Every result
// is memoized in the cache; failures are returned as text.
type Catalog struct {
	lookup Lookup
	cache  cachex.Cache
	ttl    time.Duration
}

func NewCatalog(lookup Lookup, cache cachex.Cache, opts ...Option) *Catalog {
	c := &Catalog{lookup: lookup, cache: cache, ttl: DefaultResultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ToolSet binds the tools for one generation round.
func (c *Catalog) ToolSet(observer SearchObserver) *contractx.ToolSet {
	return &contractx.ToolSet{
		Specs:   Specs(),
		Invoker: invoker{catalog: c, observer: observer},
	}
}

type invoker struct {
	catalog  *Catalog
	observer SearchObserver
}

func (i invoker) Invoke(ctx context.Context, name, argumentsJSON string) string {
	if name == ToolSearchParts && i.observer != nil {
		if query, err := stringArg(argumentsJSON, "query"); err == nil {
			i.observer(strings.TrimSpace(query))
		}
	}
	return i.catalog.Invoke(ctx, name, argumentsJSON)
}

// Invoke dispatches one tool call. It never returns an error; the text is
// handed back to the model as the tool result.
func (c *Catalog) Invoke(ctx context.Context, name, argumentsJSON string) string {
	args, err := decodeArgs(argumentsJSON)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("tool", name).Msg("invalid tool arguments")
		return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
	}

	log.Ctx(ctx).Debug().Str("tool", name).Interface("args", args).Msg("tool invoked")

	switch name {
	case ToolSearchParts:
		return c.SearchParts(ctx, args["query"])
	case ToolGetPartByDesignation:
		return c.GetPartByDesignation(ctx, args["designation"])
	case ToolGetPartDimensions:
		return c.GetPartDimensions(ctx, args["designation"])
	case ToolGetPartPerformance:
		return c.GetPartPerformance(ctx, args["designation"])
	case ToolCompareParts:
		return c.CompareParts(ctx, args["designationA"], args["designationB"])
	default:
		return fmt.Sprintf("Tool %s is not available.", name)
	}
}

func (c *Catalog) SearchParts(ctx context.Context, query string) string {
	key := "bearing_search:" + normalizeArg(query)
	return c.cached(ctx, key, errSearch, func() (string, bool) {
		parts := c.lookup.Search(query)
		if len(parts) == 0 {
			return msgNoResults, true
		}
		return catalogx.FormatSummaries(parts), true
	})
}

func (c *Catalog) GetPartByDesignation(ctx context.Context, designation string) string {
	return c.withPart(ctx, "bearing:", errProduct, designation, catalogx.FormatDetails)
}

func (c *Catalog) GetPartDimensions(ctx context.Context, designation string) string {
	return c.withPart(ctx, "bearing_dimensions:", errDimensions, designation, catalogx.FormatDimensions)
}

func (c *Catalog) GetPartPerformance(ctx context.Context, designation string) string {
	return c.withPart(ctx, "bearing_performance:", errPerformance, designation, catalogx.FormatPerformance)
}

func (c *Catalog) CompareParts(ctx context.Context, designationA, designationB string) string {
	key := "bearing_compare:" + normalizeArg(designationA) + ":" + normalizeArg(designationB)
	return c.cached(ctx, key, errCompare, func() (string, bool) {
		a, okA := c.resolve(designationA)
		b, okB := c.resolve(designationB)
		if !okA || !okB {
			return msgCompareNotFound, false
		}
		return catalogx.FormatComparison(a, b), true
	})
}

func (c *Catalog) withPart(ctx context.Context, prefix, errFormat, designation string, render func(catalogx.Part) string) string {
	return c.cached(ctx, prefix+normalizeArg(designation), errFormat, func() (string, bool) {
		part, ok := c.resolve(designation)
		if !ok {
			return fmt.Sprintf(msgNotFound, designation), false
		}
		return render(part), true
	})
}

// resolve tries an exact id or designation match before the first search hit.
func (c *Catalog) resolve(designation string) (catalogx.Part, bool) {
	trimmed := strings.TrimSpace(designation)
	if trimmed == "" {
		return catalogx.Part{}, false
	}
	if part, ok := c.lookup.GetByID(trimmed); ok {
		return part, true
	}
	hits := c.lookup.Search(trimmed)
	if len(hits) == 0 {
		return catalogx.Part{}, false
	}
	return hits[0], true
}

// cached runs compute behind the result cache. compute reports whether its
// output may be stored; not-found text is returned but never memoized.
func (c *Catalog) cached(ctx context.Context, key, errFormat string, compute func() (string, bool)) (out string) {
	if hit, ok := cachex.GetValue[string](ctx, c.cache, key); ok && hit != "" {
		return hit
	}

	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Error().Interface("panic", r).Str("key", key).Msg("tool failed")
			out = fmt.Sprintf(errFormat, r)
		}
	}()

	result, cacheable := compute()
	if cacheable {
		cachex.SetValue(ctx, c.cache, key, result, c.ttl)
	}
	return result
}

func normalizeArg(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func decodeArgs(argumentsJSON string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(argumentsJSON) == "" {
		return out, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(argumentsJSON), &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		switch typed := v.(type) {
		case string:
			out[k] = typed
		case float64, bool:
			out[k] = fmt.Sprint(typed)
		}
	}
	return out, nil
}

func stringArg(argumentsJSON, name string) (string, error) {
	args, err := decodeArgs(argumentsJSON)
	if err != nil {
		return "", err
	}
	return args[name], nil
}
