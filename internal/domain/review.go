package domain

import (
	"math"
	"time"
)

type Review struct {
	ID            int64     `db:"id" json:"id"`
	DestinationID int64     `db:"destination_id" json:"destination_id"`
	AuthorName    string    `db:"author_name" json:"author_name"`
	Rating        int       `db:"rating" json:"rating"`
	Comment       *string   `db:"comment" json:"comment"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type ReviewPage struct {
	Items   []Review
	Page    int
	PerPage int
	Total   int
}

// RoundRating turns a sum of integer review ratings into the stored
// destination rating: the arithmetic mean rounded to two decimals,
// half away from zero. A destination without reviews rates 0.
func RoundRating(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}
