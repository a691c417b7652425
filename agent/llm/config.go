package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	openaicompatx "github.com/tanpawarit/Chative-Bearing-Assistant/pkg/openaicompat"
)

// Role selects per-call model overrides.
type Role string

const (
	RoleClassifier Role = "classifier"
	RoleExtractor  Role = "extractor"
	RoleAnswer     Role = "answer"
	RoleFeedback   Role = "feedback"
)

const (
	BackendEino   = "eino"
	BackendOpenAI = "openai"
)

type Config struct {
	Backend            string        `envconfig:"BACKEND" split_words:"true" default:"eino"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	ByAzure            bool          `envconfig:"BY_AZURE" split_words:"true" default:"false"`
	APIVersion         string        `envconfig:"API_VERSION" split_words:"true" default:"2024-06-01"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ClassifierModel       string  `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	ExtractorModel        string  `envconfig:"EXTRACTOR_MODEL" split_words:"true"`
	AnswerModel           string  `envconfig:"ANSWER_MODEL" split_words:"true"`
	FeedbackModel         string  `envconfig:"FEEDBACK_MODEL" split_words:"true"`
	ClassifierTemperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" split_words:"true" default:"0"`
	ExtractorTemperature  float32 `envconfig:"EXTRACTOR_TEMPERATURE" split_words:"true" default:"0"`
	AnswerTemperature     float32 `envconfig:"ANSWER_TEMPERATURE" split_words:"true" default:"-1"`
	FeedbackTemperature   float32 `envconfig:"FEEDBACK_TEMPERATURE" split_words:"true" default:"0"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch c.backend() {
	case BackendEino, BackendOpenAI:
	default:
		return fmt.Errorf("%w: unknown llm backend %q", contractx.ErrValidation, c.Backend)
	}
	if c.ByAzure && strings.TrimSpace(c.APIVersion) == "" {
		return fmt.Errorf("%w: api version is required for azure", contractx.ErrValidation)
	}
	return nil
}

func (c Config) backend() string {
	b := strings.ToLower(strings.TrimSpace(c.Backend))
	if b == "" {
		return BackendEino
	}
	return b
}

// EndpointFor resolves the model and temperature for role. Empty model
// overrides and negative temperatures fall back to the defaults.
func (c Config) EndpointFor(role Role) openaicompatx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(m string, t float32) {
		if v := strings.TrimSpace(m); v != "" {
			modelName = v
		}
		if t >= 0 {
			temp = t
		}
	}

	switch role {
	case RoleClassifier:
		override(c.ClassifierModel, c.ClassifierTemperature)
	case RoleExtractor:
		override(c.ExtractorModel, c.ExtractorTemperature)
	case RoleAnswer:
		override(c.AnswerModel, c.AnswerTemperature)
	case RoleFeedback:
		override(c.FeedbackModel, c.FeedbackTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openaicompatx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		ByAzure:            c.ByAzure,
		APIVersion:         strings.TrimSpace(c.APIVersion),
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
