package entity

import (
	"time"

	"github.com/google/uuid"
)

// SearchQuery is an analytics record of one similarity search. Persisting it
// is best-effort and never blocks the search itself.
type SearchQuery struct {
	Id            uuid.UUID
	Query         string
	ResultCount   int
	AvgSimilarity float64
	Metadata      map[string]interface{}
	CreatedAt     time.Time
}
