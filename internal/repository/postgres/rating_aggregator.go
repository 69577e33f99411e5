package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/repository/ports"
)

// RatingAggregator keeps destination.rating equal to the rounded mean
// of the destination's reviews. It always re-reads every review rating
// rather than maintaining a running average, so the stored value cannot
// drift from the true mean.
type RatingAggregator struct {
	db *sqlx.DB
}

func NewRatingAggregator(db *sqlx.DB) *RatingAggregator {
	return &RatingAggregator{db: db}
}

// Recompute recalculates and persists the rating outside of an append,
// for repair after manual data changes.
func (a *RatingAggregator) Recompute(ctx context.Context, destinationID int64) (float64, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.GetContext(ctx, &id, `SELECT id FROM destination WHERE id = $1 FOR UPDATE`, destinationID); err != nil {
		return 0, err
	}

	rating, err := a.recomputeLocked(ctx, tx, destinationID)
	if err != nil {
		return 0, err
	}
	return rating, tx.Commit()
}

// recomputeLocked runs inside a transaction that already holds the
// destination row lock.
func (a *RatingAggregator) recomputeLocked(ctx context.Context, tx *sqlx.Tx, destinationID int64) (float64, error) {
	var ratings []int
	if err := tx.SelectContext(ctx, &ratings, `SELECT rating FROM review WHERE destination_id = $1`, destinationID); err != nil {
		return 0, err
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	rating := domain.RoundRating(sum, len(ratings))

	if _, err := tx.ExecContext(ctx, `UPDATE destination SET rating = $2, updated_at = NOW() WHERE id = $1`, destinationID, rating); err != nil {
		return 0, err
	}
	return rating, nil
}

var _ ports.RatingAggregator = (*RatingAggregator)(nil)
