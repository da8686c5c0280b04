package server

import (
	"chirp/internal/middleware"
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST and DELETE /api/content/:id/likes. Both methods
// flip the caller's like; the response carries the fresh counter and state.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}

	node, err := s.engagementService.ToggleLike(ctx, nodeID, profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.EngagementToggles.WithLabelValues("like", toggleState(node.Liked)).Inc()
	return c.JSON(node)
}

// ToggleBookmark handles POST /api/content/:id/bookmarks
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}

	node, err := s.engagementService.ToggleBookmark(ctx, nodeID, profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.EngagementToggles.WithLabelValues("bookmark", toggleState(node.Bookmarked)).Inc()
	return c.JSON(node)
}

// RemoveBookmark handles DELETE /api/content/:id/bookmarks. Unlike the like
// routes this is not a toggle: deleting an absent bookmark is a 404.
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}

	if err := s.engagementService.RemoveBookmark(ctx, nodeID, profileID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	middleware.EngagementToggles.WithLabelValues("bookmark", "off").Inc()
	return c.JSON(fiber.Map{"message": "Bookmark removed successfully"})
}

func toggleState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
