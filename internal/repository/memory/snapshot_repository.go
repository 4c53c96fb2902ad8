package memory

import (
	"time"

	"civics-tutor-be/internal/session"

	"github.com/patrickmn/go-cache"
)

// SnapshotRepository retains paused-session snapshots with a TTL so abandoned
// sessions eventually evaporate instead of accumulating.
type SnapshotRepository struct {
	cache *cache.Cache
}

func NewSnapshotRepository(ttl time.Duration) session.SnapshotStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SnapshotRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SnapshotRepository) Save(snapshot *session.Snapshot) {
	r.cache.Set(snapshot.SessionID, snapshot, cache.DefaultExpiration)
}

func (r *SnapshotRepository) Get(sessionID string) (*session.Snapshot, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*session.Snapshot), true
	}
	return nil, false
}

func (r *SnapshotRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
