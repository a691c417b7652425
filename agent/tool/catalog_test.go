package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
	catalogx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/catalog"
)

type countingLookup struct {
	store    *catalogx.Store
	searches int
	panicOn  string
}

func (l *countingLookup) Search(query string) []catalogx.Part {
	l.searches++
	if l.panicOn != "" && query == l.panicOn {
		panic("index corrupted")
	}
	return l.store.Search(query)
}

func (l *countingLookup) GetByID(id string) (catalogx.Part, bool) {
	if l.panicOn != "" && id == l.panicOn {
		panic("index corrupted")
	}
	return l.store.GetByID(id)
}

func newTestCatalog() (*Catalog, *countingLookup, *cachex.MemoryCache) {
	lookup := &countingLookup{store: catalogx.NewStore(catalogx.SampleParts())}
	cache := cachex.NewMemoryCache(time.Hour, time.Minute)
	return NewCatalog(lookup, cache), lookup, cache
}

func TestSpecsAndToolInfos(t *testing.T) {
	t.Parallel()

	specs := Specs()
	if len(specs) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(specs))
	}
	infos := ToolInfos(specs)
	if len(infos) != 5 {
		t.Fatalf("expected 5 tool infos, got %d", len(infos))
	}
	if infos[4].Name != ToolCompareParts {
		t.Fatalf("unexpected last tool: %s", infos[4].Name)
	}
	if infos[0].ParamsOneOf == nil {
		t.Fatal("params must be set")
	}
}

func TestSearchPartsIsCachedByNormalizedQuery(t *testing.T) {
	t.Parallel()

	c, lookup, cache := newTestCatalog()
	ctx := context.Background()

	first := c.SearchParts(ctx, "6205")
	if !strings.Contains(first, "**6205 - 6205**") {
		t.Fatalf("unexpected search result: %q", first)
	}
	second := c.SearchParts(ctx, "  6205 ")
	if second != first {
		t.Fatalf("cached result mismatch: %q", second)
	}
	if lookup.searches != 1 {
		t.Fatalf("expected 1 catalog search, got %d", lookup.searches)
	}

	var stored string
	found, err := cache.Get(ctx, "bearing_search:6205", &stored)
	if err != nil || !found || stored != first {
		t.Fatalf("expected result under bearing_search:6205, found=%v err=%v", found, err)
	}
}

func TestSearchPartsNoResults(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCatalog()
	if got := c.SearchParts(context.Background(), "titanium"); got != msgNoResults {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestGetPartByDesignationNotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	c, _, cache := newTestCatalog()
	ctx := context.Background()

	got := c.GetPartByDesignation(ctx, "9999")
	if got != "Bearing designation '9999' not found." {
		t.Fatalf("unexpected result: %q", got)
	}
	var stored string
	if found, _ := cache.Get(ctx, "bearing:9999", &stored); found {
		t.Fatal("not-found text must not be cached")
	}
}

func TestGetPartPrefersExactMatch(t *testing.T) {
	t.Parallel()

	c, lookup, _ := newTestCatalog()
	got := c.GetPartDimensions(context.Background(), "6305")
	if !strings.Contains(got, "- Outside diameter (D): 62 mm") {
		t.Fatalf("unexpected dimensions: %q", got)
	}
	if lookup.searches != 0 {
		t.Fatalf("exact match must not search, got %d searches", lookup.searches)
	}
}

func TestGetPartFallsBackToFirstSearchHit(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCatalog()
	got := c.GetPartPerformance(context.Background(), "Explorer")
	if !strings.Contains(got, "- Basic dynamic load rating (C): 14.8 kN") {
		t.Fatalf("unexpected performance: %q", got)
	}
}

func TestComparePartsSampleCatalog(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCatalog()
	got := c.CompareParts(context.Background(), "6205", "6305")

	for _, want := range []string{
		"**Comparison: 6205 vs 6305**",
		"- Basic dynamic load rating (C): 6205=14.8 kN, 6305=22.5 kN",
		"- Limiting speed (nlim): 6205=18000 rmin, 6305=N/A",
		"- Width (B): 6205=15 mm, 6305=17 mm",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("comparison missing %q:\n%s", want, got)
		}
	}

	if got := c.CompareParts(context.Background(), "6205", "9999"); got != msgCompareNotFound {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestToolFailureBecomesSentinel(t *testing.T) {
	t.Parallel()

	c, lookup, _ := newTestCatalog()
	lookup.panicOn = "boom"

	got := c.SearchParts(context.Background(), "boom")
	if got != "Error searching bearing products: index corrupted" {
		t.Fatalf("unexpected result: %q", got)
	}
	got = c.GetPartByDesignation(context.Background(), "boom")
	if !strings.HasPrefix(got, "Error getting bearing product:") {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestInvokeDispatchAndObserver(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCatalog()
	var observed []string
	set := c.ToolSet(func(q string) { observed = append(observed, q) })

	if !set.Allowed(ToolSearchParts) || set.Allowed("math.evaluate") {
		t.Fatal("unexpected allowed tools")
	}

	got := set.Invoker.Invoke(context.Background(), ToolSearchParts, `{"query":" deep groove "}`)
	if !strings.Contains(got, "6205") || !strings.Contains(got, "6305") {
		t.Fatalf("unexpected result: %q", got)
	}
	if len(observed) != 1 || observed[0] != "deep groove" {
		t.Fatalf("unexpected observed searches: %#v", observed)
	}

	got = set.Invoker.Invoke(context.Background(), ToolCompareParts, `{"designationA":"6205","designationB":"6305"}`)
	if !strings.Contains(got, "Comparison: 6205 vs 6305") {
		t.Fatalf("unexpected result: %q", got)
	}

	if got := c.Invoke(context.Background(), "unknown", `{}`); got != "Tool unknown is not available." {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := c.Invoke(context.Background(), ToolSearchParts, `{bad`); !strings.HasPrefix(got, "Invalid arguments for searchParts") {
		t.Fatalf("unexpected result: %q", got)
	}
}

type failingCache struct {
	gets int
	sets int
}

func (f *failingCache) Get(context.Context, string, any) (bool, error) {
	f.gets++
	return false, errors.New("cache unreachable")
}

func (f *failingCache) Set(context.Context, string, any, time.Duration) error {
	f.sets++
	return errors.New("cache unreachable")
}

func TestToolsWorkWhenCacheFails(t *testing.T) {
	t.Parallel()

	cache := &failingCache{}
	lookup := &countingLookup{store: catalogx.NewStore(catalogx.SampleParts())}
	c := NewCatalog(lookup, cache)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got := c.SearchParts(ctx, "6205")
		if !strings.Contains(got, "**6205 - 6205**") {
			t.Fatalf("unexpected search result: %q", got)
		}
	}
	if lookup.searches != 2 {
		t.Fatalf("failed reads must be misses, got %d searches", lookup.searches)
	}
	if cache.gets != 2 || cache.sets != 2 {
		t.Fatalf("expected 2 reads and 2 writes, got %d/%d", cache.gets, cache.sets)
	}

	if got := c.GetPartDimensions(ctx, "6305"); !strings.Contains(got, "- Outside diameter (D): 62 mm") {
		t.Fatalf("unexpected dimensions: %q", got)
	}
}
