package server

import (
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/content
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	q := parseFeedQuery(c)
	q.ViewerID, _ = s.optionalProfileID(c)

	nodes, err := s.feedService.ListFeed(ctx, q)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(nodes)
}

// GetFollowingFeed handles GET /api/content/following
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	q := parseFeedQuery(c)
	q.ViewerID = c.Locals("profileID").(string)

	nodes, err := s.feedService.ListFollowingFeed(ctx, q)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(nodes)
}

// GetBookmarks handles GET /api/content/bookmarks
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)

	nodes, err := s.feedService.ListBookmarks(ctx, profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(nodes)
}
