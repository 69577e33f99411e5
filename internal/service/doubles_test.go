package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/wanderspot/backend/internal/domain"
)

// memoryStore backs both repository ports with maps so service tests
// run without a database.
type memoryStore struct {
	destinations map[int64]*domain.Destination
	reviews      map[int64][]domain.Review

	nextDestID   int64
	nextReviewID int64
	now          time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		destinations: make(map[int64]*domain.Destination),
		reviews:      make(map[int64][]domain.Review),
		now:          time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memoryStore) Create(_ context.Context, fields domain.DestinationFields, imagePath *string) (*domain.Destination, error) {
	m.nextDestID++
	ts := m.tick()
	dest := &domain.Destination{
		ID:          m.nextDestID,
		Name:        deref(fields.Name),
		Location:    deref(fields.Location),
		Description: fields.Description,
		PriceRange:  fields.PriceRange,
		ImageURL:    imagePath,
		Rating:      0,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	m.destinations[dest.ID] = dest
	return clone(dest), nil
}

func (m *memoryStore) Update(_ context.Context, id int64, fields domain.DestinationFields, imagePath *string) (*domain.Destination, error) {
	dest, ok := m.destinations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if fields.Name != nil {
		dest.Name = *fields.Name
	}
	if fields.Location != nil {
		dest.Location = *fields.Location
	}
	if fields.Description != nil {
		dest.Description = fields.Description
	}
	if fields.PriceRange != nil {
		dest.PriceRange = fields.PriceRange
	}
	if imagePath != nil {
		dest.ImageURL = imagePath
	}
	dest.UpdatedAt = m.tick()
	return clone(dest), nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.destinations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.destinations, id)
	delete(m.reviews, id)
	return nil
}

func (m *memoryStore) FindByID(_ context.Context, id int64) (*domain.Destination, error) {
	dest, ok := m.destinations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := clone(dest)
	out.ReviewCount = len(m.reviews[id])
	return out, nil
}

func (m *memoryStore) List(_ context.Context, filter domain.DestinationFilter, limit, offset int) ([]domain.Destination, int, error) {
	matched := make([]domain.Destination, 0, len(m.destinations))
	for _, dest := range m.destinations {
		if !matches(dest, filter) {
			continue
		}
		out := *clone(dest)
		out.ReviewCount = len(m.reviews[dest.ID])
		matched = append(matched, out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matches(dest *domain.Destination, filter domain.DestinationFilter) bool {
	if q := strings.ToLower(filter.Query); q != "" {
		name := strings.ToLower(dest.Name)
		location := strings.ToLower(dest.Location)
		if !strings.Contains(name, q) && !strings.Contains(location, q) {
			return false
		}
	}
	if filter.MinRating != nil && dest.Rating < *filter.MinRating {
		return false
	}
	if len(filter.PriceRanges) > 0 {
		if dest.PriceRange == nil {
			return false
		}
		found := false
		for _, pr := range filter.PriceRanges {
			if *dest.PriceRange == pr {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *memoryStore) Append(_ context.Context, review *domain.Review) (*domain.Review, float64, error) {
	dest, ok := m.destinations[review.DestinationID]
	if !ok {
		return nil, 0, sql.ErrNoRows
	}

	m.nextReviewID++
	stored := *review
	stored.ID = m.nextReviewID
	stored.CreatedAt = m.tick()
	m.reviews[review.DestinationID] = append(m.reviews[review.DestinationID], stored)

	sum := 0
	for _, r := range m.reviews[review.DestinationID] {
		sum += r.Rating
	}
	dest.Rating = domain.RoundRating(sum, len(m.reviews[review.DestinationID]))
	dest.UpdatedAt = stored.CreatedAt

	out := stored
	return &out, dest.Rating, nil
}

func (m *memoryStore) ListByDestination(_ context.Context, destinationID int64, limit, offset int) ([]domain.Review, int, error) {
	all := m.sortedReviews(destinationID)
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memoryStore) ListAllByDestination(_ context.Context, destinationID int64) ([]domain.Review, error) {
	return m.sortedReviews(destinationID), nil
}

func (m *memoryStore) sortedReviews(destinationID int64) []domain.Review {
	all := append([]domain.Review(nil), m.reviews[destinationID]...)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return all
}

func clone(dest *domain.Destination) *domain.Destination {
	out := *dest
	return &out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// stubStorage records uploads and can be told to fail.
type stubStorage struct {
	uploads []stubUpload
	failErr error
}

type stubUpload struct {
	Bucket      string
	ObjectName  string
	ContentType string
	Size        int64
	Data        []byte
}

func (s *stubStorage) Upload(_ context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	s.uploads = append(s.uploads, stubUpload{
		Bucket:      bucket,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        size,
		Data:        buf.Bytes(),
	})
	return objectName, nil
}

var errStorageDown = errors.New("storage unreachable")

func strPtr(v string) *string { return &v }
