package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wanderspot/backend/internal/domain"
	"github.com/wanderspot/backend/internal/media"
	"github.com/wanderspot/backend/internal/service"
	"github.com/wanderspot/backend/internal/util"
)

type DestinationHandler struct {
	destinations *service.DestinationService
	resolver     *media.URLResolver
}

func RegisterDestinations(e *echo.Echo, destinations *service.DestinationService, resolver *media.URLResolver) {
	handler := &DestinationHandler{
		destinations: destinations,
		resolver:     resolver,
	}

	g := e.Group("/destinations")
	g.GET("", handler.list)
	g.POST("", handler.create)
	g.GET("/:id", handler.get)
	g.POST("/:id", handler.update)
	g.PUT("/:id", handler.update)
	g.DELETE("/:id", handler.delete)
}

// list handles GET /destinations
func (h *DestinationHandler) list(c echo.Context) error {
	filter, err := parseDestinationFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	page := parsePage(c)

	result, err := h.destinations.List(c.Request().Context(), filter, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list destinations"))
	}

	payload := make([]util.Envelope, 0, len(result.Items))
	for i := range result.Items {
		payload = append(payload, h.destinationJSON(&result.Items[i], false))
	}
	return c.JSON(http.StatusOK, pagedEnvelope(payload, result.Page, result.PerPage, result.Total))
}

// create handles POST /destinations
func (h *DestinationHandler) create(c echo.Context) error {
	fields, image, closeFn, err := parseDestinationForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	defer closeFn()

	dest, err := h.destinations.Create(c.Request().Context(), fields, image)
	if err != nil {
		return writeServiceError(c, err, "unable to create destination")
	}
	return c.JSON(http.StatusCreated, h.destinationJSON(dest, false))
}

// get handles GET /destinations/{id}
func (h *DestinationHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	dest, err := h.destinations.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err, "unable to load destination")
	}
	return c.JSON(http.StatusOK, h.destinationJSON(dest, true))
}

// update handles POST and PUT /destinations/{id}
func (h *DestinationHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	fields, image, closeFn, err := parseDestinationForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	defer closeFn()

	dest, err := h.destinations.Update(c.Request().Context(), id, fields, image)
	if err != nil {
		return writeServiceError(c, err, "unable to update destination")
	}
	return c.JSON(http.StatusOK, h.destinationJSON(dest, false))
}

// delete handles DELETE /destinations/{id}
func (h *DestinationHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid destination id"))
	}

	if err := h.destinations.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err, "unable to delete destination")
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Deleted"})
}

func (h *DestinationHandler) destinationJSON(dest *domain.Destination, withReviews bool) util.Envelope {
	resp := util.Envelope{
		"id":            dest.ID,
		"name":          dest.Name,
		"location":      dest.Location,
		"description":   dest.Description,
		"price_range":   dest.PriceRange,
		"image_url":     h.resolver.Resolve(dest.ImageURL),
		"rating":        dest.Rating,
		"reviews_count": dest.ReviewCount,
		"created_at":    dest.CreatedAt,
		"updated_at":    dest.UpdatedAt,
	}
	if withReviews {
		reviews := make([]util.Envelope, 0, len(dest.Reviews))
		for i := range dest.Reviews {
			reviews = append(reviews, reviewJSON(&dest.Reviews[i]))
		}
		resp["reviews"] = reviews
	}
	return resp
}

func parseDestinationFilter(c echo.Context) (domain.DestinationFilter, error) {
	filter := domain.DestinationFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
	}

	if v := strings.TrimSpace(c.QueryParam("minRating")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.DestinationFilter{}, errors.New("minRating must be a number")
		}
		if parsed < 0 || parsed > 5 {
			return domain.DestinationFilter{}, errors.New("minRating must be between 0 and 5")
		}
		filter.MinRating = &parsed
	}

	if raw := c.QueryParam("priceRanges"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				filter.PriceRanges = append(filter.PriceRanges, trimmed)
			}
		}
	}

	return filter, nil
}

func parsePage(c echo.Context) int {
	page := 1
	if v := strings.TrimSpace(c.QueryParam("page")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
}

// parseDestinationForm reads the multipart payload. A field pointer is
// non-nil only when the client actually sent the field, which is what
// lets update distinguish "clear" from "leave alone".
func parseDestinationForm(c echo.Context) (domain.DestinationFields, *service.ImageUpload, func(), error) {
	noop := func() {}

	if err := c.Request().ParseMultipartForm(32 << 20); err != nil {
		return domain.DestinationFields{}, nil, noop, errors.New("invalid multipart payload")
	}
	form := c.Request().MultipartForm
	if form == nil {
		return domain.DestinationFields{}, nil, noop, errors.New("invalid multipart payload")
	}

	fields := domain.DestinationFields{
		Name:        formField(form, "name"),
		Location:    formField(form, "location"),
		Description: formField(form, "description"),
		PriceRange:  formField(form, "price_range"),
	}

	headers := form.File["image"]
	if len(headers) == 0 {
		return fields, nil, noop, nil
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return domain.DestinationFields{}, nil, noop, errors.New("unable to read upload")
	}
	upload := &service.ImageUpload{
		Reader:   file,
		Size:     header.Size,
		FileName: header.Filename,
	}
	return fields, upload, func() { _ = file.Close() }, nil
}

func formField(form *multipart.Form, name string) *string {
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func pagedEnvelope(data []util.Envelope, page, perPage, total int) util.Envelope {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return util.Envelope{
		"data":         data,
		"current_page": page,
		"per_page":     perPage,
		"total":        total,
		"last_page":    lastPage,
	}
}

func writeServiceError(c echo.Context, err error, fallback string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, util.Envelope{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, util.Error(err.Error()))
	case errors.Is(err, service.ErrDestinationNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrStorage):
		return c.JSON(http.StatusInternalServerError, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error(fallback))
	}
}
