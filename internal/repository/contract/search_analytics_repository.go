package contract

import (
	"context"

	"civics-tutor-be/internal/entity"
)

// SearchAnalyticsRepository records search traffic. Callers treat failures as
// non-fatal; an unavailable analytics sink must never fail a search.
type SearchAnalyticsRepository interface {
	Record(ctx context.Context, query *entity.SearchQuery) error
}
