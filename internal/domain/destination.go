package domain

import "time"

type Destination struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location"`
	Description *string   `db:"description" json:"description"`
	PriceRange  *string   `db:"price_range" json:"price_range"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	Rating      float64   `db:"rating" json:"rating"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	ReviewCount int      `db:"review_count" json:"reviews_count"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// DestinationFields carries the client-settable columns. A nil pointer
// means "leave unchanged" on update and "not provided" on create; the
// derived rating is never part of it.
type DestinationFields struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	PriceRange  *string `json:"price_range"`
}

type DestinationFilter struct {
	Query       string
	MinRating   *float64
	PriceRanges []string
}

type DestinationPage struct {
	Items   []Destination
	Page    int
	PerPage int
	Total   int
}
