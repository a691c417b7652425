package specialist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	extractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/extract"
	promptx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/prompt"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
	toolx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/tool"
)

const (
	DefaultResponseTTL = time.Hour

	historyWindow = 3

	msgNoAnswer = "I couldn't find specific information about that bearing."
	msgDegraded = "I encountered an issue while searching for bearing information: %s"
)

type QueryExtractor interface {
	Extract(ctx context.Context, utterance string) extractx.QueryResult
}

type ToolProvider interface {
	ToolSet(observer toolx.SearchObserver) *contractx.ToolSet
}

type AnsweringConfig struct {
	Model       contractx.LanguageModel
	Extractor   QueryExtractor
	Prompts     *promptx.Set
	Tools       ToolProvider
	Cache       cachex.Cache
	ResponseTTL time.Duration
}

type answeringAgent struct {
	model       contractx.LanguageModel
	extractor   QueryExtractor
	prompts     *promptx.Set
	tools       ToolProvider
	cache       cachex.Cache
	responseTTL time.Duration
	runner      compose.Runnable[*answerRequest, contractx.AgentResponse]
}

type answerRequest struct {
	Utterance    string
	Conversation *statex.ConversationContext
}

type answerState struct {
	Req        *answerRequest
	CacheKey   string
	Cached     string
	Query      contractx.StructuredQuery
	Completion contractx.Completion
	Degraded   bool
}

func NewAnsweringAgent(ctx context.Context, cfg AnsweringConfig) (contractx.Agent, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("%w: answering model is required", contractx.ErrValidation)
	}
	if cfg.Extractor == nil || cfg.Prompts == nil || cfg.Tools == nil {
		return nil, fmt.Errorf("%w: answering agent dependencies are incomplete", contractx.ErrValidation)
	}

	ttl := cfg.ResponseTTL
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}

	agent := &answeringAgent{
		model:       cfg.Model,
		extractor:   cfg.Extractor,
		prompts:     cfg.Prompts,
		tools:       cfg.Tools,
		cache:       cfg.Cache,
		responseTTL: ttl,
	}

	runner, err := compileAnsweringGraph(ctx, agent)
	if err != nil {
		return nil, fmt.Errorf("%w: compile answering graph: %v", contractx.ErrModelInvoke, err)
	}
	agent.runner = runner
	return agent, nil
}

func (a *answeringAgent) Process(ctx context.Context, utterance string, conversation *statex.ConversationContext) (contractx.AgentResponse, error) {
	if conversation == nil {
		return contractx.AgentResponse{}, fmt.Errorf("%w: conversation is nil", contractx.ErrValidation)
	}
	return a.runner.Invoke(ctx, &answerRequest{Utterance: utterance, Conversation: conversation})
}

// ResponseCacheKey is deterministic in (sessionID, utterance).
func ResponseCacheKey(sessionID, utterance string) string {
	return "response:" + sessionID + ":" + strconv.FormatUint(xxhash.Sum64String(utterance), 16)
}

func (a *answeringAgent) lookupCache(ctx context.Context, req *answerRequest) (*answerState, error) {
	if req == nil || req.Conversation == nil {
		return nil, fmt.Errorf("%w: answer request is nil", contractx.ErrValidation)
	}
	key := ResponseCacheKey(req.Conversation.SessionID, req.Utterance)
	cached, _ := cachex.GetValue[string](ctx, a.cache, key)
	return &answerState{Req: req, CacheKey: key, Cached: cached}, nil
}

func (a *answeringAgent) cachedReply(ctx context.Context, st *answerState) (contractx.AgentResponse, error) {
	st.Req.Conversation.PreviousResponseID = st.CacheKey
	log.Ctx(ctx).Debug().Str("key", st.CacheKey).Msg("answer served from cache")
	return contractx.AgentResponse{
		Response:   st.Cached,
		QueryType:  contractx.QueryTypeCached,
		SourceData: contractx.SourceCache,
		FromCache:  true,
	}, nil
}

func (a *answeringAgent) extractQuery(ctx context.Context, st *answerState) (*answerState, error) {
	res := a.extractor.Extract(ctx, st.Req.Utterance)
	st.Query = res.Query
	if res.Query.ProductName != "" {
		st.Req.Conversation.LastDesignation = res.Query.ProductName
	}
	log.Ctx(ctx).Debug().
		Str("source", res.Source.String()).
		Str("product", res.Query.ProductName).
		Strs("attributes", res.Query.RequestedAttributes).
		Str("query_type", string(res.Query.QueryType)).
		Msg("query extracted")
	return st, nil
}

func (a *answeringAgent) generate(ctx context.Context, st *answerState) (*answerState, error) {
	conversation := st.Req.Conversation
	msgs, err := a.prompts.Answer(ctx, promptx.AnswerInput{
		Query:           st.Query,
		LastDesignation: conversation.LastDesignation,
		History:         conversation.Tail(historyWindow),
		Utterance:       st.Req.Utterance,
	})
	if err == nil {
		tools := a.tools.ToolSet(conversation.RememberSearch)
		st.Completion, err = a.model.Complete(ctx, msgs, tools)
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("answer generation failed")
		st.Completion.Content = fmt.Sprintf(msgDegraded, rootMessage(err))
		st.Degraded = true
		return st, nil
	}
	if strings.TrimSpace(st.Completion.Content) == "" {
		st.Completion.Content = msgNoAnswer
	}
	return st, nil
}

func (a *answeringAgent) finalize(ctx context.Context, st *answerState) (contractx.AgentResponse, error) {
	text := st.Completion.Content
	if !st.Degraded {
		cachex.SetValue(ctx, a.cache, st.CacheKey, text, a.responseTTL)
	}
	st.Req.Conversation.PreviousResponseID = st.CacheKey

	return contractx.AgentResponse{
		Response:      text,
		QueryType:     ClassifyQueryType(st.Req.Utterance, text),
		SourceData:    contractx.SourceLanguageModel,
		UsedFunctions: st.Completion.ToolCalls,
		FromCache:     false,
	}, nil
}

// rootMessage strips the port's sentinel prefix so the user sees the
// backend's own message.
func rootMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{contractx.ErrModelInvoke, contractx.ErrSchemaViolation} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return msg
}
