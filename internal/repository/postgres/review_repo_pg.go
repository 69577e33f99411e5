package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/repository/ports"
)

const reviewColumns = `id, destination_id, author_name, rating, comment, created_at`

type ReviewRepository struct {
	db  *sqlx.DB
	agg *RatingAggregator
}

func NewReviewRepo(db *sqlx.DB, agg *RatingAggregator) *ReviewRepository {
	return &ReviewRepository{db: db, agg: agg}
}

// Append inserts the review and recomputes the destination rating in
// one transaction. The destination row is locked first, which both
// detects a missing destination and serializes concurrent appends to
// the same destination.
func (r *ReviewRepository) Append(ctx context.Context, review *domain.Review) (*domain.Review, float64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var destID int64
	if err := tx.GetContext(ctx, &destID, `SELECT id FROM destination WHERE id = $1 FOR UPDATE`, review.DestinationID); err != nil {
		return nil, 0, err
	}

	const insert = `
		INSERT INTO review (destination_id, author_name, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reviewColumns

	var stored domain.Review
	if err := tx.GetContext(ctx, &stored, insert, review.DestinationID, review.AuthorName, review.Rating, nullString(review.Comment)); err != nil {
		return nil, 0, err
	}

	rating, err := r.agg.recomputeLocked(ctx, tx, review.DestinationID)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return &stored, rating, nil
}

func (r *ReviewRepository) ListByDestination(ctx context.Context, destinationID int64, limit, offset int) ([]domain.Review, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM review WHERE destination_id = $1`, destinationID); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT ` + reviewColumns + `
		FROM review
		WHERE destination_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	reviews := make([]domain.Review, 0)
	if err := r.db.SelectContext(ctx, &reviews, query, destinationID, limit, offset); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewRepository) ListAllByDestination(ctx context.Context, destinationID int64) ([]domain.Review, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM review
		WHERE destination_id = $1
		ORDER BY created_at DESC, id DESC
	`
	reviews := make([]domain.Review, 0)
	if err := r.db.SelectContext(ctx, &reviews, query, destinationID); err != nil {
		return nil, err
	}
	return reviews, nil
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)
