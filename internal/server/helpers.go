// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"mime/multipart"
	"strconv"

	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parseNodeID extracts and validates the :id route parameter as a uuid.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseNodeID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid content ID"))
		return "", errResponseWritten
	}
	return id, nil
}

// parseFeedQuery extracts pagination, sorting and filter query parameters.
func parseFeedQuery(c *fiber.Ctx) service.FeedQuery {
	page := c.QueryInt("page", 1)
	if page <= 0 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return service.FeedQuery{
		Page:      page,
		Limit:     limit,
		Sorting:   parseSorting(c),
		AuthorID:  c.Query("authorId"),
		MediaOnly: c.QueryBool("mediaOnly", false),
	}
}

// parseSorting reads sortBy/orderBy; unknown values fall back to defaults
// inside models.Sorting rather than erroring.
func parseSorting(c *fiber.Ctx) models.Sorting {
	return models.Sorting{
		SortBy:  c.Query("sortBy", "createdAt"),
		OrderBy: c.Query("orderBy", "DESC"),
	}
}

// nodeBody is the parsed payload of a create or update request. Image
// uploads only arrive via multipart; JSON bodies carry text and privacy.
type nodeBody struct {
	Text      string
	IsPrivate *bool
	Images    []*multipart.FileHeader
	ImagesSet bool
}

// parseNodeBody accepts either a multipart form (text, is_private, images[])
// or a JSON object ({"text": ..., "is_private": ...}).
func parseNodeBody(c *fiber.Ctx) (*nodeBody, error) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		body := &nodeBody{}
		if v := form.Value["text"]; len(v) > 0 {
			body.Text = v[0]
		}
		if v := form.Value["is_private"]; len(v) > 0 {
			parsed, err := strconv.ParseBool(v[0])
			if err != nil {
				return nil, models.NewValidationError("Invalid is_private value")
			}
			body.IsPrivate = &parsed
		}
		if files := form.File["images"]; len(files) > 0 {
			body.Images = files
		}
		// A multipart edit always replaces the image set, an empty one clears it.
		body.ImagesSet = true
		return body, nil
	}

	var req struct {
		Text      string `json:"text"`
		IsPrivate *bool  `json:"is_private"`
	}
	if err := c.BodyParser(&req); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	return &nodeBody{Text: req.Text, IsPrivate: req.IsPrivate}, nil
}

func (b *nodeBody) isPrivateOrDefault() bool {
	return b.IsPrivate != nil && *b.IsPrivate
}
