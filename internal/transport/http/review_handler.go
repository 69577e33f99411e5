package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/service"
	"github.com/wanderspot/backend/internal/util"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func RegisterReviews(e *echo.Echo, reviews *service.ReviewService) {
	handler := &ReviewHandler{reviews: reviews}

	g := e.Group("/destinations/:id/reviews")
	g.GET("", handler.list)
	g.POST("", handler.create)
}

// create handles POST /destinations/{id}/reviews
func (h *ReviewHandler) create(c echo.Context) error {
	destID, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	var req struct {
		AuthorName string  `json:"author_name"`
		Rating     any     `json:"rating"`
		Comment    *string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	rating, err := coerceRating(req.Rating)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, util.Envelope{
			"error":  "validation failed",
			"fields": util.Envelope{"rating": err.Error()},
		})
	}

	review, _, err := h.reviews.Append(c.Request().Context(), destID, service.ReviewCreateInput{
		AuthorName: req.AuthorName,
		Rating:     rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return writeServiceError(c, err, "unable to create review")
	}
	return c.JSON(http.StatusCreated, reviewJSON(review))
}

// list handles GET /destinations/{id}/reviews
func (h *ReviewHandler) list(c echo.Context) error {
	destID, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	result, err := h.reviews.List(c.Request().Context(), destID, parsePage(c))
	if err != nil {
		return writeServiceError(c, err, "unable to list reviews")
	}

	payload := make([]util.Envelope, 0, len(result.Items))
	for i := range result.Items {
		payload = append(payload, reviewJSON(&result.Items[i]))
	}
	return c.JSON(http.StatusOK, pagedEnvelope(payload, result.Page, result.PerPage, result.Total))
}

func reviewJSON(review *domain.Review) util.Envelope {
	return util.Envelope{
		"id":             review.ID,
		"destination_id": review.DestinationID,
		"author_name":    review.AuthorName,
		"rating":         review.Rating,
		"comment":        review.Comment,
		"created_at":     review.CreatedAt,
	}
}

// coerceRating accepts the rating as a JSON number or a numeric string
// and normalizes it to an int exactly once, at the boundary. Anything
// non-numeric or fractional is rejected here; the 1..5 set membership
// is the service's job.
func coerceRating(raw any) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errors.New("required")
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.New("must be an integer")
		}
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.New("must be an integer")
		}
		return parsed, nil
	default:
		return 0, errors.New("must be an integer")
	}
}
