package service

import (
	"context"
	"strings"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/repository/ports"
)

// ReviewPageSize is the fixed review listing page size.
const ReviewPageSize = 10

type ReviewCreateInput struct {
	AuthorName string
	Rating     int
	Comment    *string
}

type ReviewService struct {
	reviews      ports.ReviewRepository
	destinations ports.DestinationRepository
}

func NewReviewService(reviews ports.ReviewRepository, destinations ports.DestinationRepository) *ReviewService {
	return &ReviewService{reviews: reviews, destinations: destinations}
}

// Append validates and stores a review. The returned rating is the
// destination's recomputed average, committed together with the review;
// a caller reading the destination right after Append sees both.
func (s *ReviewService) Append(ctx context.Context, destinationID int64, input ReviewCreateInput) (*domain.Review, float64, error) {
	ve := newValidationError()
	author := strings.TrimSpace(input.AuthorName)
	if author == "" {
		ve.Fields["author_name"] = "required"
	} else if len(author) > maxFieldLength {
		ve.Fields["author_name"] = "must be at most 255 characters"
	}
	if input.Rating < 1 || input.Rating > 5 {
		ve.Fields["rating"] = "must be an integer between 1 and 5"
	}
	if len(ve.Fields) > 0 {
		return nil, 0, ve
	}

	review := &domain.Review{
		DestinationID: destinationID,
		AuthorName:    author,
		Rating:        input.Rating,
		Comment:       normalizeComment(input.Comment),
	}

	stored, rating, err := s.reviews.Append(ctx, review)
	if err != nil {
		if isNotFound(err) || isForeignKeyViolation(err) {
			return nil, 0, ErrDestinationNotFound
		}
		return nil, 0, err
	}
	return stored, rating, nil
}

// List returns one page of a destination's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, destinationID int64, page int) (*domain.ReviewPage, error) {
	if _, err := s.destinations.FindByID(ctx, destinationID); err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * ReviewPageSize

	items, total, err := s.reviews.ListByDestination(ctx, destinationID, ReviewPageSize, offset)
	if err != nil {
		return nil, err
	}
	return &domain.ReviewPage{
		Items:   items,
		Page:    page,
		PerPage: ReviewPageSize,
		Total:   total,
	}, nil
}

func normalizeComment(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
