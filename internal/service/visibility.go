package service

import (
	"context"
	"errors"

	"chirp/internal/models"
	"chirp/internal/repository"

	"gorm.io/gorm"
)

// visibleTo enforces the privacy rule: private content is visible only to
// the root author and the root author's followers. The root author governs
// the whole tree because the privacy cascade keeps every descendant in sync
// with the root.
func visibleTo(ctx context.Context, contentRepo repository.ContentRepository, follows FollowGraph, node *models.ContentNode, viewerID string) error {
	if !node.IsPrivate {
		return nil
	}
	if viewerID == "" {
		return models.NewAccessDeniedError("This content is visible to followers only")
	}
	if viewerID == node.AuthorID {
		return nil
	}

	rootAuthorID := node.AuthorID
	if rootID := node.RootID(); rootID != node.ID {
		root, err := contentRepo.GetByID(ctx, rootID, models.NodeRelations{})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Content", rootID)
			}
			return err
		}
		rootAuthorID = root.AuthorID
	}

	if viewerID == rootAuthorID {
		return nil
	}

	follower, err := follows.IsFollower(ctx, viewerID, rootAuthorID)
	if err != nil {
		return err
	}
	if !follower {
		return models.NewAccessDeniedError("This content is visible to followers only")
	}
	return nil
}
