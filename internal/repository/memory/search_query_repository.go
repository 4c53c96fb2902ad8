package memory

import (
	"context"
	"sync"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/repository/contract"
)

const maxRetainedQueries = 500

// SearchQueryRepository keeps a bounded in-process log of recent searches for
// the memory backend, where no database is available for analytics rows.
type SearchQueryRepository struct {
	mu      sync.Mutex
	queries []*entity.SearchQuery
}

func NewSearchQueryRepository() contract.SearchAnalyticsRepository {
	return &SearchQueryRepository{}
}

func (r *SearchQueryRepository) Record(_ context.Context, query *entity.SearchQuery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries = append(r.queries, query)
	if len(r.queries) > maxRetainedQueries {
		r.queries = r.queries[len(r.queries)-maxRetainedQueries:]
	}
	return nil
}

// Recent returns the retained queries, newest last.
func (r *SearchQueryRepository) Recent() []*entity.SearchQuery {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.SearchQuery, len(r.queries))
	copy(out, r.queries)
	return out
}
