package rag

import (
	"strings"

	"civics-tutor-be/internal/entity"
)

// FallbackEntry is a canned official answer keyed by trigger phrases. Data,
// not logic: office holders change with elections and these entries are
// injected at construction so updates never touch code.
type FallbackEntry struct {
	QuestionID int
	Question   string
	Answer     string
	Triggers   []string
}

// FallbackAnswers serves current-officials answers when retrieval comes back
// empty for an officials query.
type FallbackAnswers struct {
	entries []FallbackEntry
}

// DefaultFallbackEntries mirrors questions 28, 29 and 43 of the 2008 civics
// test with the 2025 office holders.
func DefaultFallbackEntries() []FallbackEntry {
	return []FallbackEntry{
		{
			QuestionID: 28,
			Question:   "What is the name of the President of the United States now?",
			Answer:     "Donald Trump",
			Triggers:   []string{"president"},
		},
		{
			QuestionID: 29,
			Question:   "What is the name of the Vice President of the United States now?",
			Answer:     "J.D. Vance",
			Triggers:   []string{"vice president", "vance"},
		},
		{
			QuestionID: 43,
			Question:   "Who is the Governor of your state now?",
			Answer:     "Gavin Newsom (California)",
			Triggers:   []string{"governor", "newsom"},
		},
	}
}

func NewFallbackAnswers(entries []FallbackEntry) *FallbackAnswers {
	return &FallbackAnswers{entries: entries}
}

// Lookup returns the entries whose triggers appear in the query, shaped as
// zero-similarity search hits so downstream formatting is uniform.
func (f *FallbackAnswers) Lookup(query string) []*entity.ScoredQuestion {
	lowerQuery := strings.ToLower(query)

	var hits []*entity.ScoredQuestion
	for _, e := range f.entries {
		for _, trigger := range e.Triggers {
			if strings.Contains(lowerQuery, trigger) {
				hits = append(hits, &entity.ScoredQuestion{
					CivicsQuestion: entity.CivicsQuestion{
						QuestionID: e.QuestionID,
						Question:   e.Question,
						Answer:     e.Answer,
					},
				})
				break
			}
		}
	}
	return hits
}
