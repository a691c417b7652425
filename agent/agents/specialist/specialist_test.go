package specialist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
	catalogx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	extractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/extract"
	promptx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/prompt"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
	toolx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/tool"
)

// fakeLanguageModel replays scripted completions. When toolCall is set it
// invokes that tool through the supplied tool set before answering.
type fakeLanguageModel struct {
	mu        sync.Mutex
	contents  []string
	err       error
	calls     int
	lastMsgs  []*schema.Message
	toolCall  string
	toolArgs  string
	toolReply string
}

func (f *fakeLanguageModel) Complete(ctx context.Context, msgs []*schema.Message, tools *contractx.ToolSet) (contractx.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.lastMsgs = msgs
	if f.err != nil {
		return contractx.Completion{}, f.err
	}

	var used []string
	if f.toolCall != "" && tools != nil {
		f.toolReply = tools.Invoker.Invoke(ctx, f.toolCall, f.toolArgs)
		used = append(used, f.toolCall)
	}

	content := ""
	if len(f.contents) > 0 {
		content = f.contents[0]
		if len(f.contents) > 1 {
			f.contents = f.contents[1:]
		}
	}
	return contractx.Completion{Content: content, ToolCalls: used}, nil
}

type recordingSink struct {
	records []contractx.FeedbackRecord
	err     error
}

func (s *recordingSink) Append(_ context.Context, record contractx.FeedbackRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

type fixture struct {
	agent     contractx.Agent
	answer    *fakeLanguageModel
	extractor *fakeLanguageModel
	cache     *cachex.MemoryCache
}

func newAnsweringFixture(t *testing.T) *fixture {
	t.Helper()

	cache := cachex.NewMemoryCache(time.Hour, time.Minute)
	answer := &fakeLanguageModel{contents: []string{"The 6205 has a bore of 25 mm."}}
	extractorModel := &fakeLanguageModel{contents: []string{`{"productName":"6205","requestedAttributes":["bore"],"queryType":"specific"}`}}
	prompts := promptx.LoadSet()

	agent, err := NewAnsweringAgent(context.Background(), AnsweringConfig{
		Model:     answer,
		Extractor: extractx.NewQueryExtractor(extractorModel, prompts.Extractor),
		Prompts:   prompts,
		Tools:     toolx.NewCatalog(catalogx.NewStore(catalogx.SampleParts()), cache),
		Cache:     cache,
	})
	if err != nil {
		t.Fatalf("NewAnsweringAgent() error = %v", err)
	}
	return &fixture{agent: agent, answer: answer, extractor: extractorModel, cache: cache}
}

func TestAnsweringAgentCachesSecondCall(t *testing.T) {
	t.Parallel()

	f := newAnsweringFixture(t)
	conversation := statex.NewConversationContext("s-1", time.Now())

	first, err := f.agent.Process(context.Background(), "What is the bore of 6205?", conversation)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if first.FromCache {
		t.Fatal("first call must not be served from cache")
	}
	if first.SourceData != contractx.SourceLanguageModel {
		t.Fatalf("unexpected source: %s", first.SourceData)
	}
	if first.QueryType != contractx.QueryTypeDimensions {
		t.Fatalf("unexpected query type: %s", first.QueryType)
	}
	wantKey := ResponseCacheKey("s-1", "What is the bore of 6205?")
	if conversation.PreviousResponseID != wantKey {
		t.Fatalf("PreviousResponseID = %q, want %q", conversation.PreviousResponseID, wantKey)
	}

	conversation.PreviousResponseID = ""
	second, err := f.agent.Process(context.Background(), "What is the bore of 6205?", conversation)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !second.FromCache || second.QueryType != contractx.QueryTypeCached || second.SourceData != contractx.SourceCache {
		t.Fatalf("unexpected cached response: %#v", second)
	}
	if second.Response != first.Response {
		t.Fatalf("cached text mismatch: %q vs %q", second.Response, first.Response)
	}
	if conversation.PreviousResponseID != wantKey {
		t.Fatal("cache hit must set PreviousResponseID")
	}
	if f.answer.calls != 1 || f.extractor.calls != 1 {
		t.Fatalf("cache hit must skip the model, got answer=%d extractor=%d", f.answer.calls, f.extractor.calls)
	}
}

func TestAnsweringAgentCacheKeyIsPerSession(t *testing.T) {
	t.Parallel()

	if ResponseCacheKey("a", "hi") == ResponseCacheKey("b", "hi") {
		t.Fatal("keys must differ across sessions")
	}
	if ResponseCacheKey("a", "hi") != ResponseCacheKey("a", "hi") {
		t.Fatal("keys must be deterministic")
	}
	if !strings.HasPrefix(ResponseCacheKey("a", "hi"), "response:a:") {
		t.Fatalf("unexpected key: %s", ResponseCacheKey("a", "hi"))
	}
}

func TestAnsweringAgentPromptCarriesQueryAndHistory(t *testing.T) {
	t.Parallel()

	f := newAnsweringFixture(t)
	conversation := statex.NewConversationContext("s-2", time.Now())
	conversation.AppendTurn("hello", "hi there", "general", "src", time.Now())
	conversation.AppendTurn("what bearings do you have", "6205 and 6305", "catalog", "src", time.Now())

	if _, err := f.agent.Process(context.Background(), "bore of 6205?", conversation); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	msgs := f.answer.lastMsgs
	if len(msgs) != 5 {
		t.Fatalf("expected system, 3 history and user messages, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, "- Bearing: 6205") || !strings.Contains(msgs[0].Content, "- Requested Attributes: bore") {
		t.Fatalf("system prompt missing query: %q", msgs[0].Content)
	}
	if msgs[1].Content != "hi there" || msgs[4].Content != "bore of 6205?" {
		t.Fatalf("unexpected history window: %q ... %q", msgs[1].Content, msgs[4].Content)
	}
	if conversation.LastDesignation != "6205" {
		t.Fatalf("LastDesignation = %q", conversation.LastDesignation)
	}
}

func TestAnsweringAgentToolRoundRecordsUsage(t *testing.T) {
	t.Parallel()

	f := newAnsweringFixture(t)
	f.answer.toolCall = toolx.ToolSearchParts
	f.answer.toolArgs = `{"query":"deep groove"}`
	conversation := statex.NewConversationContext("s-3", time.Now())

	resp, err := f.agent.Process(context.Background(), "show deep groove bearings", conversation)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(resp.UsedFunctions) != 1 || resp.UsedFunctions[0] != toolx.ToolSearchParts {
		t.Fatalf("unexpected used functions: %#v", resp.UsedFunctions)
	}
	if !strings.Contains(f.answer.toolReply, "**6305 - 6305**") {
		t.Fatalf("unexpected tool reply: %q", f.answer.toolReply)
	}
	if len(conversation.RecentSearches) != 1 || conversation.RecentSearches[0] != "deep groove" {
		t.Fatalf("unexpected recent searches: %#v", conversation.RecentSearches)
	}
}

func TestAnsweringAgentDegradesOnModelFailure(t *testing.T) {
	t.Parallel()

	f := newAnsweringFixture(t)
	f.answer.err = errors.New("deadline exceeded")
	f.extractor.err = errors.New("deadline exceeded")
	conversation := statex.NewConversationContext("s-4", time.Now())

	resp, err := f.agent.Process(context.Background(), "compare 6205 vs 6305", conversation)
	if err != nil {
		t.Fatalf("Process() must not fail, got %v", err)
	}
	want := "I encountered an issue while searching for bearing information: deadline exceeded"
	if resp.Response != want {
		t.Fatalf("Response = %q, want %q", resp.Response, want)
	}
	if resp.QueryType != contractx.QueryTypeComparison {
		t.Fatalf("unexpected query type: %s", resp.QueryType)
	}

	var stored string
	if found, _ := f.cache.Get(context.Background(), ResponseCacheKey("s-4", "compare 6205 vs 6305"), &stored); found {
		t.Fatal("degraded answers must not be cached")
	}
}

func TestAnsweringAgentEmptyContent(t *testing.T) {
	t.Parallel()

	f := newAnsweringFixture(t)
	f.answer.contents = []string{"   "}

	resp, err := f.agent.Process(context.Background(), "hello", statex.NewConversationContext("s-5", time.Now()))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if resp.Response != msgNoAnswer {
		t.Fatalf("unexpected response: %q", resp.Response)
	}
}

func TestFeedbackAgentWithoutPreviousResponse(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	model := &fakeLanguageModel{contents: []string{"5|great"}}
	agent, err := NewFeedbackAgent(extractx.NewFeedbackExtractor(model, promptx.LoadSet().Feedback), sink)
	if err != nil {
		t.Fatalf("NewFeedbackAgent() error = %v", err)
	}

	resp, err := agent.Process(context.Background(), "great", statex.NewConversationContext("s", time.Now()))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if resp.Response != FeedbackAcknowledgement {
		t.Fatalf("unexpected response: %q", resp.Response)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected zero sink writes, got %d", len(sink.records))
	}
}

func TestFeedbackAgentRecordsAgainstPreviousResponse(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	model := &fakeLanguageModel{contents: []string{"2|too slow"}}
	agent, _ := NewFeedbackAgent(extractx.NewFeedbackExtractor(model, promptx.LoadSet().Feedback), sink)

	conversation := statex.NewConversationContext("s-9", time.Now())
	conversation.PreviousResponseID = "response:s-9:abc"

	resp, err := agent.Process(context.Background(), "that was too slow", conversation)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if resp.QueryType != contractx.QueryTypeFeedback || resp.SourceData != contractx.SourceUserFeedback {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected one record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if rec.SessionID != "s-9" || rec.ResponseID != "response:s-9:abc" || rec.Rating != 2 || rec.FeedbackText != "too slow" {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("record must carry id and timestamp: %#v", rec)
	}
}

func TestFeedbackAgentAbsorbsSinkFailure(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{err: errors.New("db down")}
	agent, _ := NewFeedbackAgent(extractx.NewFeedbackExtractor(&fakeLanguageModel{err: errors.New("down")}, promptx.LoadSet().Feedback), sink)

	conversation := statex.NewConversationContext("s", time.Now())
	conversation.PreviousResponseID = "response:s:1"

	resp, err := agent.Process(context.Background(), "meh", conversation)
	if err != nil || resp.Response != FeedbackAcknowledgement {
		t.Fatalf("unexpected result: %#v, %v", resp, err)
	}
}

func TestClassifyQueryType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		utterance string
		response  string
		want      contractx.QueryType
	}{
		{"compare 6205 and 6305", "", contractx.QueryTypeComparison},
		{"hello", "Here is a comparison", contractx.QueryTypeComparison},
		{"dimensions of 6205", "", contractx.QueryTypeDimensions},
		{"hello", "bore is 25 mm", contractx.QueryTypeDimensions},
		{"hello", "C = 14.8 kN", contractx.QueryTypePerformance},
		{"weight of 6205", "", contractx.QueryTypeLogistics},
		{"what is a bearing", "a machine element", contractx.QueryTypeDefinition},
		{"show me everything", "sure", contractx.QueryTypeCatalog},
		{"hello", "hi", contractx.QueryTypeGeneral},
	}
	for _, tt := range tests {
		if got := ClassifyQueryType(tt.utterance, tt.response); got != tt.want {
			t.Fatalf("ClassifyQueryType(%q, %q) = %s, want %s", tt.utterance, tt.response, got, tt.want)
		}
	}
}

func TestAssembleRequiresCatalog(t *testing.T) {
	t.Parallel()

	_, err := Assemble(context.Background(), Models{}, Dependencies{})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Assemble() error = %v", err)
	}
}

type failingCache struct {
	mu   sync.Mutex
	gets int
	sets int
}

func (f *failingCache) Get(context.Context, string, any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return false, errors.New("cache unreachable")
}

func (f *failingCache) Set(context.Context, string, any, time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	return errors.New("cache unreachable")
}

func TestAnsweringAgentSurvivesCacheFailures(t *testing.T) {
	t.Parallel()

	cache := &failingCache{}
	answer := &fakeLanguageModel{
		contents: []string{"The 6205 has a bore of 25 mm."},
		toolCall: toolx.ToolSearchParts,
		toolArgs: `{"query":"6205"}`,
	}
	extractorModel := &fakeLanguageModel{contents: []string{`{"productName":"6205","requestedAttributes":["bore"],"queryType":"specific"}`}}
	prompts := promptx.LoadSet()

	agent, err := NewAnsweringAgent(context.Background(), AnsweringConfig{
		Model:     answer,
		Extractor: extractx.NewQueryExtractor(extractorModel, prompts.Extractor),
		Prompts:   prompts,
		Tools:     toolx.NewCatalog(catalogx.NewStore(catalogx.SampleParts()), cache),
		Cache:     cache,
	})
	if err != nil {
		t.Fatalf("NewAnsweringAgent() error = %v", err)
	}

	conversation := statex.NewConversationContext("s-fail", time.Now())
	for i := 0; i < 2; i++ {
		resp, err := agent.Process(context.Background(), "What is the bore of 6205?", conversation)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if resp.FromCache || resp.SourceData != contractx.SourceLanguageModel {
			t.Fatalf("failed cache reads must be misses: %#v", resp)
		}
		if resp.Response != "The 6205 has a bore of 25 mm." {
			t.Fatalf("unexpected response: %q", resp.Response)
		}
	}

	if answer.calls != 2 {
		t.Fatalf("expected the model on every turn, got %d calls", answer.calls)
	}
	if !strings.Contains(answer.toolReply, "**6205 - 6205**") {
		t.Fatalf("tool must still format results: %q", answer.toolReply)
	}
	if cache.sets == 0 {
		t.Fatal("expected write attempts against the cache")
	}
	if conversation.PreviousResponseID != ResponseCacheKey("s-fail", "What is the bore of 6205?") {
		t.Fatalf("unexpected PreviousResponseID: %q", conversation.PreviousResponseID)
	}
}
