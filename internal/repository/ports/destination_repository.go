package ports

import (
	"context"

	"github.com/wanderspot/backend/internal/domain"
)

type DestinationRepository interface {
	Create(ctx context.Context, fields domain.DestinationFields, imagePath *string) (*domain.Destination, error)
	Update(ctx context.Context, id int64, fields domain.DestinationFields, imagePath *string) (*domain.Destination, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Destination, error)
	List(ctx context.Context, filter domain.DestinationFilter, limit, offset int) ([]domain.Destination, int, error)
}
