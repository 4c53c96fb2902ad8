package entity

// CorpusInfo summarizes the loaded corpus for the info endpoint.
type CorpusInfo struct {
	TotalDocuments int
	Categories     map[string]int
	EmbeddingModel string
	Status         string
}

// AnswerCheck is the result of comparing a user's answer with the canonical one.
type AnswerCheck struct {
	QuestionID      int
	Correct         bool
	CanonicalAnswer string
	Feedback        string
}
