package specialist

import (
	"context"
	"fmt"

	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	extractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/extract"
	llmx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/llm"
	promptx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/tool"
)

type registryImpl struct {
	classifier contractx.LanguageModel
	answering  contractx.Agent
	feedback   contractx.Agent
}

func (r *registryImpl) Classifier() contractx.LanguageModel {
	return r.classifier
}

func (r *registryImpl) Answering() contractx.Agent {
	return r.answering
}

func (r *registryImpl) Feedback() contractx.Agent {
	return r.feedback
}

// Models holds one LanguageModel per role.
type Models struct {
	Classifier contractx.LanguageModel
	Extractor  contractx.LanguageModel
	Answer     contractx.LanguageModel
	Feedback   contractx.LanguageModel
}

type Dependencies struct {
	Catalog toolx.Lookup
	Cache   cachex.Cache
	Sink    contractx.FeedbackSink
}

func NewRegistry(ctx context.Context, cfg llmx.Config, deps Dependencies) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var models Models
	for _, target := range []struct {
		role llmx.Role
		dst  *contractx.LanguageModel
	}{
		{role: llmx.RoleClassifier, dst: &models.Classifier},
		{role: llmx.RoleExtractor, dst: &models.Extractor},
		{role: llmx.RoleAnswer, dst: &models.Answer},
		{role: llmx.RoleFeedback, dst: &models.Feedback},
	} {
		m, err := llmx.New(ctx, cfg, target.role)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, target.role, err)
		}
		*target.dst = m
	}

	return Assemble(ctx, models, deps)
}

// Assemble builds the agents from already constructed models.
func Assemble(ctx context.Context, models Models, deps Dependencies) (contractx.Registry, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", contractx.ErrValidation)
	}
	if models.Classifier == nil {
		return nil, fmt.Errorf("%w: classifier model is required", contractx.ErrValidation)
	}

	prompts := promptx.LoadSet()

	answering, err := NewAnsweringAgent(ctx, AnsweringConfig{
		Model:     models.Answer,
		Extractor: extractx.NewQueryExtractor(models.Extractor, prompts.Extractor),
		Prompts:   prompts,
		Tools:     toolx.NewCatalog(deps.Catalog, deps.Cache),
		Cache:     deps.Cache,
	})
	if err != nil {
		return nil, err
	}

	feedback, err := NewFeedbackAgent(extractx.NewFeedbackExtractor(models.Feedback, prompts.Feedback), deps.Sink)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		classifier: models.Classifier,
		answering:  answering,
		feedback:   feedback,
	}, nil
}
