package session

import "time"

// DisplayedQuestion is the single practice-question UI slot. It always holds
// canonical corpus text, never the raw spoken text.
type DisplayedQuestion struct {
	QuestionID int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
}

// Snapshot freezes the restorable part of a session at pause time. It is
// immutable once taken; resume reads it and discards it.
type Snapshot struct {
	SessionID  string
	Slot       *DisplayedQuestion
	LastSpoken string
	PausedAt   time.Time
}

// SnapshotStore retains paused-session snapshots between the teardown of one
// transport and the resume on the next.
type SnapshotStore interface {
	Save(snapshot *Snapshot)
	Get(sessionID string) (*Snapshot, bool)
	Delete(sessionID string)
}
