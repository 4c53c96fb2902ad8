package entity

import "time"

// CivicsQuestion is one entry of the USCIS civics corpus. QuestionID is the
// official 1-100 numbering and is the identity used for upserts.
type CivicsQuestion struct {
	QuestionID int
	Question   string
	Answer     string
	Category   string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// ScoredQuestion is a search hit with its cosine similarity to the query.
type ScoredQuestion struct {
	CivicsQuestion
	Similarity float64
}
