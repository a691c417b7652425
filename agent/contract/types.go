package contract

import "time"

type Intent string

const (
	IntentQuestion Intent = "question"
	IntentFeedback Intent = "feedback"
)

type QueryType string

const (
	QueryTypeGeneral    QueryType = "general"
	QueryTypeSpecific   QueryType = "specific"
	QueryTypeComparison QueryType = "comparison"
	QueryTypeList       QueryType = "list"

	QueryTypeDimensions  QueryType = "dimensions"
	QueryTypePerformance QueryType = "performance"
	QueryTypeLogistics   QueryType = "logistics"
	QueryTypeDefinition  QueryType = "definition"
	QueryTypeCatalog     QueryType = "catalog"

	QueryTypeCached   QueryType = "cached"
	QueryTypeFeedback QueryType = "feedback"
)

const (
	SourceCache         = "redis_cache"
	SourceLanguageModel = "azure_openai_enhanced"
	SourceUserFeedback  = "user_feedback"
)

type AgentResponse struct {
	Response      string    `json:"response"`
	QueryType     QueryType `json:"query_type"`
	SourceData    string    `json:"source_data"`
	UsedFunctions []string  `json:"used_functions,omitempty"`
	FromCache     bool      `json:"from_cache"`
}

// StructuredQuery is produced fresh every turn and never persisted.
type StructuredQuery struct {
	ProductName         string    `json:"productName,omitempty"`
	ProductCategory     string    `json:"productCategory,omitempty"`
	RequestedAttributes []string  `json:"requestedAttributes,omitempty"`
	QueryType           QueryType `json:"queryType"`
}

// AddAttribute appends tag unless it is empty or already present.
func (q *StructuredQuery) AddAttribute(tag string) {
	if tag == "" {
		return
	}
	for _, existing := range q.RequestedAttributes {
		if existing == tag {
			return
		}
	}
	q.RequestedAttributes = append(q.RequestedAttributes, tag)
}

func (q StructuredQuery) HasAttribute(tag string) bool {
	for _, existing := range q.RequestedAttributes {
		if existing == tag {
			return true
		}
	}
	return false
}

type FeedbackRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	ResponseID   string    `json:"response_id"`
	FeedbackText string    `json:"feedback_text"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

// Completion is the text result of one LanguageModel call plus the tools it ran.
type Completion struct {
	Content   string
	ToolCalls []string
}
