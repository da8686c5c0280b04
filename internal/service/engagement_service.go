package service

import (
	"context"
	"errors"

	"chirp/internal/models"
	"chirp/internal/repository"

	"gorm.io/gorm"
)

// EngagementService implements like and bookmark toggles. Both directions of
// a toggle go through the same operation; the store decides the outcome
// atomically, so concurrent requests never double-count.
type EngagementService struct {
	contentRepo    repository.ContentRepository
	engagementRepo repository.EngagementRepository
	follows        FollowGraph
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(
	contentRepo repository.ContentRepository,
	engagementRepo repository.EngagementRepository,
	follows FollowGraph,
) *EngagementService {
	return &EngagementService{
		contentRepo:    contentRepo,
		engagementRepo: engagementRepo,
		follows:        follows,
	}
}

// ToggleLike flips the viewer's like and returns the node with its fresh
// counter. The node must be visible to the viewer.
func (s *EngagementService) ToggleLike(ctx context.Context, nodeID, profileID string) (*models.ContentNode, error) {
	node, err := s.loadVisible(ctx, nodeID, profileID)
	if err != nil {
		return nil, err
	}

	liked, likeCount, err := s.engagementRepo.ToggleLike(ctx, nodeID, profileID)
	if err != nil {
		return nil, err
	}

	node.Liked = liked
	node.LikeCount = likeCount
	return node, nil
}

// ToggleBookmark flips the viewer's bookmark on a visible node.
func (s *EngagementService) ToggleBookmark(ctx context.Context, nodeID, profileID string) (*models.ContentNode, error) {
	node, err := s.loadVisible(ctx, nodeID, profileID)
	if err != nil {
		return nil, err
	}

	bookmarked, err := s.engagementRepo.ToggleBookmark(ctx, nodeID, profileID)
	if err != nil {
		return nil, err
	}

	node.Bookmarked = bookmarked
	return node, nil
}

// RemoveBookmark explicitly deletes the viewer's bookmark; unlike the toggle
// it reports a missing bookmark as NotFound.
func (s *EngagementService) RemoveBookmark(ctx context.Context, nodeID, profileID string) error {
	if profileID == "" {
		return models.NewNotFoundError("Profile", profileID)
	}

	if err := s.engagementRepo.RemoveBookmark(ctx, nodeID, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Bookmark", nodeID)
		}
		return err
	}
	return nil
}

func (s *EngagementService) loadVisible(ctx context.Context, nodeID, profileID string) (*models.ContentNode, error) {
	if profileID == "" {
		return nil, models.NewNotFoundError("Profile", profileID)
	}

	node, err := s.contentRepo.GetByID(ctx, nodeID, models.NodeRelations{Author: true})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", nodeID)
		}
		return nil, err
	}

	if err := visibleTo(ctx, s.contentRepo, s.follows, node, profileID); err != nil {
		return nil, err
	}
	return node, nil
}
