package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/repository/ports"
)

const destinationColumns = `
	d.id, d.name, d.location, d.description, d.price_range, d.image_url,
	d.rating::float8 AS rating, d.created_at, d.updated_at`

type DestinationRepository struct {
	db *sqlx.DB
}

func NewDestinationRepo(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

func (r *DestinationRepository) Create(ctx context.Context, fields domain.DestinationFields, imagePath *string) (*domain.Destination, error) {
	const query = `
		INSERT INTO destination (name, location, description, price_range, image_url, rating)
		VALUES (:name, :location, :description, :price_range, :image_url, 0)
		RETURNING id, name, location, description, price_range, image_url,
		          rating::float8 AS rating, created_at, updated_at
	`

	args := map[string]any{
		"name":        valueOrDefault(fields.Name, ""),
		"location":    valueOrDefault(fields.Location, ""),
		"description": nullString(fields.Description),
		"price_range": nullString(fields.PriceRange),
		"image_url":   nullString(imagePath),
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var dest domain.Destination
		if err = rows.StructScan(&dest); err != nil {
			return nil, err
		}
		return &dest, nil
	}
	return nil, sql.ErrNoRows
}

func (r *DestinationRepository) Update(ctx context.Context, id int64, fields domain.DestinationFields, imagePath *string) (*domain.Destination, error) {
	setParts := []string{"updated_at = NOW()"}
	args := []any{}
	idx := 1

	if fields.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", idx))
		args = append(args, strings.TrimSpace(*fields.Name))
		idx++
	}
	if fields.Location != nil {
		setParts = append(setParts, fmt.Sprintf("location = $%d", idx))
		args = append(args, strings.TrimSpace(*fields.Location))
		idx++
	}
	if fields.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", idx))
		args = append(args, nullString(fields.Description))
		idx++
	}
	if fields.PriceRange != nil {
		setParts = append(setParts, fmt.Sprintf("price_range = $%d", idx))
		args = append(args, nullString(fields.PriceRange))
		idx++
	}
	if imagePath != nil {
		setParts = append(setParts, fmt.Sprintf("image_url = $%d", idx))
		args = append(args, nullString(imagePath))
		idx++
	}

	query := fmt.Sprintf(`
		UPDATE destination
		SET %s
		WHERE id = $%d
		RETURNING id, name, location, description, price_range, image_url,
		          rating::float8 AS rating, created_at, updated_at
	`, strings.Join(setParts, ", "), idx)
	args = append(args, id)

	var dest domain.Destination
	if err := r.db.GetContext(ctx, &dest, query, args...); err != nil {
		return nil, err
	}
	return &dest, nil
}

// Delete removes the destination and its reviews in one transaction so
// no orphan review can survive the destination.
func (r *DestinationRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM review WHERE destination_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM destination WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *DestinationRepository) FindByID(ctx context.Context, id int64) (*domain.Destination, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(r.id)::int AS review_count
		FROM destination d
		LEFT JOIN review r ON r.destination_id = d.id
		WHERE d.id = $1
		GROUP BY d.id
	`, destinationColumns)

	var dest domain.Destination
	if err := r.db.GetContext(ctx, &dest, query, id); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *DestinationRepository) List(ctx context.Context, filter domain.DestinationFilter, limit, offset int) ([]domain.Destination, int, error) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	idx := 1

	if trimmed := strings.TrimSpace(filter.Query); trimmed != "" {
		clauses = append(clauses, fmt.Sprintf("(d.name ILIKE $%d OR d.location ILIKE $%d)", idx, idx))
		args = append(args, "%"+trimmed+"%")
		idx++
	}
	if filter.MinRating != nil {
		clauses = append(clauses, fmt.Sprintf("d.rating >= $%d", idx))
		args = append(args, *filter.MinRating)
		idx++
	}
	if len(filter.PriceRanges) > 0 {
		ranges := make([]string, 0, len(filter.PriceRanges))
		for _, pr := range filter.PriceRanges {
			if trimmed := strings.TrimSpace(pr); trimmed != "" {
				ranges = append(ranges, trimmed)
			}
		}
		if len(ranges) > 0 {
			clauses = append(clauses, fmt.Sprintf("d.price_range = ANY($%d)", idx))
			args = append(args, pq.StringArray(ranges))
			idx++
		}
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM destination d %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(r.id)::int AS review_count
		FROM destination d
		LEFT JOIN review r ON r.destination_id = d.id
		%s
		GROUP BY d.id
		ORDER BY d.id DESC
		LIMIT $%d OFFSET $%d
	`, destinationColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	destinations := make([]domain.Destination, 0)
	if err := r.db.SelectContext(ctx, &destinations, query, args...); err != nil {
		return nil, 0, err
	}
	return destinations, total, nil
}

func valueOrDefault(ptr *string, fallback string) string {
	if ptr == nil || strings.TrimSpace(*ptr) == "" {
		return fallback
	}
	return strings.TrimSpace(*ptr)
}

func nullString(ptr *string) sql.NullString {
	if ptr == nil {
		return sql.NullString{Valid: false}
	}
	v := strings.TrimSpace(*ptr)
	if v == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: v, Valid: true}
}

var _ ports.DestinationRepository = (*DestinationRepository)(nil)
