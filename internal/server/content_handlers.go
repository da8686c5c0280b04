package server

import (
	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateContent handles POST /api/content
func (s *Server) CreateContent(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)

	body, err := parseNodeBody(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	node, err := s.treeService.CreateNode(ctx, service.CreateNodeInput{
		ProfileID: profileID,
		Text:      body.Text,
		IsPrivate: body.isPrivateOrDefault(),
		Images:    body.Images,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

// CreateComment handles POST /api/content/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	return s.createChild(c, true)
}

// CreateRepost handles POST /api/content/:id/reposts
func (s *Server) CreateRepost(c *fiber.Ctx) error {
	return s.createChild(c, false)
}

func (s *Server) createChild(c *fiber.Ctx, isComment bool) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)
	parentID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}

	body, err := parseNodeBody(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	node, err := s.treeService.CreateNode(ctx, service.CreateNodeInput{
		ParentID:  parentID,
		IsComment: isComment,
		ProfileID: profileID,
		Text:      body.Text,
		Images:    body.Images,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

// GetContent handles GET /api/content/:id
func (s *Server) GetContent(c *fiber.Ctx) error {
	ctx := c.Context()
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalProfileID(c)

	node, err := s.feedService.GetByID(ctx, nodeID, viewerID, models.AllNodeRelations())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(node)
}

// GetComments handles GET /api/content/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	return s.getSubtree(c, true)
}

// GetReposts handles GET /api/content/:id/reposts
func (s *Server) GetReposts(c *fiber.Ctx) error {
	return s.getSubtree(c, false)
}

func (s *Server) getSubtree(c *fiber.Ctx, isComment bool) error {
	ctx := c.Context()
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalProfileID(c)

	tree, err := s.feedService.GetSubtreeView(ctx, nodeID, isComment, parseSorting(c), viewerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(tree)
}

// UpdateContent handles PUT /api/content/:id
func (s *Server) UpdateContent(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}

	body, err := parseNodeBody(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	node, err := s.privacyService.UpdateNode(ctx, service.UpdateNodeInput{
		NodeID:    nodeID,
		ProfileID: profileID,
		Text:      body.Text,
		IsPrivate: body.IsPrivate,
		Images:    body.Images,
		ImagesSet: body.ImagesSet,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(node)
}

// DeleteContent handles DELETE /api/content/:id
func (s *Server) DeleteContent(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID := c.Locals("profileID").(string)
	nodeID, err := s.parseNodeID(c)
	if err != nil {
		return nil
	}

	if err := s.privacyService.DeleteNode(ctx, nodeID, profileID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Content deleted successfully"})
}
