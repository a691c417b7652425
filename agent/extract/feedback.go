package extract

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

const DefaultRating = 3

type FeedbackResult struct {
	Rating int
	Text   string
	Source Source
}

// FeedbackExtractor asks the model for "rating|feedback text".
type FeedbackExtractor struct {
	model  contractx.LanguageModel
	prompt PromptBuilder
}

func NewFeedbackExtractor(model contractx.LanguageModel, prompt PromptBuilder) *FeedbackExtractor {
	return &FeedbackExtractor{model: model, prompt: prompt}
}

func (e *FeedbackExtractor) Extract(ctx context.Context, utterance string) FeedbackResult {
	output, err := e.complete(ctx, utterance)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("feedback extraction failed, using default rating")
		return FeedbackResult{Rating: DefaultRating, Text: utterance, Source: Fallback}
	}
	return ParseFeedback(output, utterance)
}

func (e *FeedbackExtractor) complete(ctx context.Context, utterance string) (string, error) {
	if e == nil || e.model == nil || e.prompt == nil {
		return "", errors.New("feedback extractor model is not configured")
	}
	msgs, err := e.prompt(ctx, utterance)
	if err != nil {
		return "", err
	}
	out, err := e.model.Complete(ctx, msgs, nil)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

// ParseFeedback splits output on the first '|'. A left side that is an
// integer in [1,5] is the rating; anything else yields (3, utterance).
func ParseFeedback(output, utterance string) FeedbackResult {
	left, right, hasText := strings.Cut(output, "|")
	rating, err := strconv.Atoi(strings.Trim(strings.TrimSpace(left), `"`))
	if err != nil || rating < 1 || rating > 5 {
		return FeedbackResult{Rating: DefaultRating, Text: utterance, Source: Fallback}
	}

	text := strings.TrimSpace(strings.Trim(strings.TrimSpace(right), `"`))
	if !hasText || text == "" {
		text = utterance
	}
	return FeedbackResult{Rating: rating, Text: text, Source: Parsed}
}
