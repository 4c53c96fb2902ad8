package dto

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

type SearchResultItem struct {
	QuestionID int     `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultItem `json:"results"`
	Count   int                `json:"count"`
}

type CorpusInfoResponse struct {
	TotalDocuments int            `json:"totalDocuments"`
	Categories     map[string]int `json:"categories"`
	EmbeddingModel string         `json:"embeddingModel"`
	Status         string         `json:"status"`
}

type EnhanceMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type EnhanceMessageResponse struct {
	OriginalMessage string             `json:"originalMessage"`
	EnhancedMessage string             `json:"enhancedMessage"`
	HasContext      bool               `json:"hasContext"`
	ContextSize     int                `json:"contextSize"`
	SearchResults   []SearchResultItem `json:"searchResults,omitempty"`
	Warning         string             `json:"warning,omitempty"`
}

type QuestionResponse struct {
	QuestionID int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
}

type CheckAnswerRequest struct {
	QuestionID int    `json:"questionId" validate:"required"`
	UserAnswer string `json:"userAnswer" validate:"required"`
}

type CheckAnswerResponse struct {
	Correct         bool   `json:"correct"`
	CanonicalAnswer string `json:"canonical_answer"`
	UserAnswer      string `json:"user_answer"`
	Feedback        string `json:"feedback"`
}
