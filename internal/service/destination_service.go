package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/media"
	"github.com/wanderspot/backend/internal/repository/ports"
)

const (
	// DestinationPageSize is the fixed listing page size.
	DestinationPageSize = 12

	maxFieldLength       = 255
	defaultImageMaxBytes = int64(2 * 1024 * 1024)
)

type DestinationServiceConfig struct {
	Bucket        string
	ImageMaxBytes int64
}

type ImageUpload struct {
	Reader   io.Reader
	Size     int64
	FileName string
}

type DestinationService struct {
	destinations ports.DestinationRepository
	reviews      ports.ReviewRepository
	storage      ports.ObjectStorage

	bucket        string
	imageMaxBytes int64
}

func NewDestinationService(
	destinations ports.DestinationRepository,
	reviews ports.ReviewRepository,
	storage ports.ObjectStorage,
	cfg DestinationServiceConfig,
) *DestinationService {
	maxBytes := cfg.ImageMaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultImageMaxBytes
	}
	return &DestinationService{
		destinations:  destinations,
		reviews:       reviews,
		storage:       storage,
		bucket:        strings.TrimSpace(cfg.Bucket),
		imageMaxBytes: maxBytes,
	}
}

// List returns one page of destinations, newest first. Unknown filters
// simply match nothing; an empty result is a valid page, not an error.
func (s *DestinationService) List(ctx context.Context, filter domain.DestinationFilter, page int) (*domain.DestinationPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * DestinationPageSize

	items, total, err := s.destinations.List(ctx, filter, DestinationPageSize, offset)
	if err != nil {
		return nil, err
	}
	return &domain.DestinationPage{
		Items:   items,
		Page:    page,
		PerPage: DestinationPageSize,
		Total:   total,
	}, nil
}

// Create validates the fields, uploads the image (if any) and persists
// the destination with rating 0. The upload happens before any database
// write, so a storage failure leaves no record behind.
func (s *DestinationService) Create(ctx context.Context, fields domain.DestinationFields, image *ImageUpload) (*domain.Destination, error) {
	ve := newValidationError()
	requireField(ve, "name", fields.Name)
	requireField(ve, "location", fields.Location)
	limitField(ve, "price_range", fields.PriceRange)
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	imagePath, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	return s.destinations.Create(ctx, fields, imagePath)
}

// Get loads a destination with all of its reviews, newest first.
func (s *DestinationService) Get(ctx context.Context, id int64) (*domain.Destination, error) {
	dest, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}

	reviews, err := s.reviews.ListAllByDestination(ctx, id)
	if err != nil {
		return nil, err
	}
	dest.Reviews = reviews
	return dest, nil
}

func (s *DestinationService) Update(ctx context.Context, id int64, fields domain.DestinationFields, image *ImageUpload) (*domain.Destination, error) {
	ve := newValidationError()
	if fields.Name != nil {
		requireField(ve, "name", fields.Name)
	}
	if fields.Location != nil {
		requireField(ve, "location", fields.Location)
	}
	limitField(ve, "price_range", fields.PriceRange)
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	imagePath, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	dest, err := s.destinations.Update(ctx, id, fields, imagePath)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return dest, nil
}

// Delete removes the destination and all of its reviews. Deleting an
// unknown or already-deleted id fails with ErrDestinationNotFound.
func (s *DestinationService) Delete(ctx context.Context, id int64) error {
	if err := s.destinations.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrDestinationNotFound
		}
		return err
	}
	return nil
}

// uploadImage validates and stores an uploaded image, returning the
// site-relative path to persist. A nil upload yields a nil path.
// Replaced images are not removed from storage; orphaned objects are
// an accepted cost.
func (s *DestinationService) uploadImage(ctx context.Context, image *ImageUpload) (*string, error) {
	if image == nil {
		return nil, nil
	}

	validated, err := media.Validate(image.Reader, image.Size, s.imageMaxBytes)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"image": err.Error()}}
	}

	objectKey := fmt.Sprintf("destinations/%s%s", uuid.New().String(), validated.Extension)
	if _, err := s.storage.Upload(ctx, s.bucket, objectKey, validated.ContentType, bytes.NewReader(validated.Bytes), int64(len(validated.Bytes))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	path := "/" + objectKey
	return &path, nil
}

func requireField(ve *ValidationError, name string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		ve.Fields[name] = "required"
		return
	}
	if len(strings.TrimSpace(*value)) > maxFieldLength {
		ve.Fields[name] = fmt.Sprintf("must be at most %d characters", maxFieldLength)
	}
}

func limitField(ve *ValidationError, name string, value *string) {
	if value == nil {
		return
	}
	if len(strings.TrimSpace(*value)) > maxFieldLength {
		ve.Fields[name] = fmt.Sprintf("must be at most %d characters", maxFieldLength)
	}
}
