package events

import "time"

// Analytics and lifecycle events published to the external bus. All of them
// are best-effort: a dead broker never fails the operation that emitted them.

func NewSearchPerformed(query string, resultCount int, avgSimilarity float64) Event {
	return BaseEvent{
		Type: "SEARCH_PERFORMED",
		Data: map[string]interface{}{
			"query":          query,
			"result_count":   resultCount,
			"avg_similarity": avgSimilarity,
		},
		OccurredAt: time.Now(),
	}
}

func NewMessageEnhanced(hasContext bool, contextSize int) Event {
	return BaseEvent{
		Type: "MESSAGE_ENHANCED",
		Data: map[string]interface{}{
			"has_context":  hasContext,
			"context_size": contextSize,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionPhaseChanged(sessionID, from, to string) Event {
	return BaseEvent{
		Type: "SESSION_PHASE_CHANGED",
		Data: map[string]interface{}{
			"session_id": sessionID,
			"from":       from,
			"to":         to,
		},
		OccurredAt: time.Now(),
	}
}

func NewQuestionDisplayed(sessionID string, questionID int) Event {
	return BaseEvent{
		Type: "QUESTION_DISPLAYED",
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"question_id": questionID,
		},
		OccurredAt: time.Now(),
	}
}
