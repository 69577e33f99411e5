package ports

import (
	"context"

	"github.com/wanderspot/backend/internal/domain"
)

// ReviewRepository persists reviews. Append commits the new review and
// the recomputed destination rating in a single transaction and returns
// the rating that became visible with it.
type ReviewRepository interface {
	Append(ctx context.Context, review *domain.Review) (*domain.Review, float64, error)
	ListByDestination(ctx context.Context, destinationID int64, limit, offset int) ([]domain.Review, int, error)
	ListAllByDestination(ctx context.Context, destinationID int64) ([]domain.Review, error)
}

// RatingAggregator recomputes a destination's stored rating from its
// full review set.
type RatingAggregator interface {
	Recompute(ctx context.Context, destinationID int64) (float64, error)
}
