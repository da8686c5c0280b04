package service

import (
	"context"
	"errors"
	"mime/multipart"

	"chirp/internal/models"
	"chirp/internal/repository"

	"gorm.io/gorm"
)

// PrivacyService owns node edits, the privacy cascade and subtree deletion.
type PrivacyService struct {
	contentRepo repository.ContentRepository
	follows     FollowGraph
	files       FileStore
}

// UpdateNodeInput carries an author's edit of an existing node.
type UpdateNodeInput struct {
	NodeID    string
	ProfileID string
	Text      string
	// IsPrivate is nil when the request does not touch privacy. It is
	// ignored for comments, which always inherit from their tree.
	IsPrivate *bool
	// Images replaces the stored image set when ImagesSet is true.
	Images    []*multipart.FileHeader
	ImagesSet bool
}

// NewPrivacyService creates a new privacy service.
func NewPrivacyService(
	contentRepo repository.ContentRepository,
	follows FollowGraph,
	files FileStore,
) *PrivacyService {
	return &PrivacyService{
		contentRepo: contentRepo,
		follows:     follows,
		files:       files,
	}
}

// SetPrivacy flips the node's privacy and cascades the new value to every
// descendant in one store transaction. Going private also revokes bookmarks
// across the subtree for everyone but the author and the author's followers.
func (s *PrivacyService) SetPrivacy(ctx context.Context, nodeID, profileID string, isPrivate bool) (*models.ContentNode, error) {
	node, err := s.loadOwned(ctx, nodeID, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.applyPrivacy(ctx, node, isPrivate); err != nil {
		return nil, err
	}
	return node, nil
}

// UpdateNode applies an author-only edit of text, images and (for non-comment
// nodes) privacy.
func (s *PrivacyService) UpdateNode(ctx context.Context, in UpdateNodeInput) (*models.ContentNode, error) {
	node, err := s.loadOwned(ctx, in.NodeID, in.ProfileID)
	if err != nil {
		return nil, err
	}

	if len(in.Text) > maxTextLen {
		return nil, models.NewValidationError("Text too long (max 280 characters)")
	}

	if in.IsPrivate != nil && !node.IsComment {
		if err := s.applyPrivacy(ctx, node, *in.IsPrivate); err != nil {
			return nil, err
		}
	}

	if in.Text != "" {
		node.Text = in.Text
	}
	if in.ImagesSet {
		refs, err := s.files.Replace(ctx, in.Images, node.ImageRefs)
		if err != nil {
			return nil, err
		}
		node.ImageRefs = refs
	}

	if err := s.contentRepo.Update(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// DeleteNode removes the node and its whole subtree, engagement rows
// included, and then cleans up the subtree's stored files.
func (s *PrivacyService) DeleteNode(ctx context.Context, nodeID, profileID string) error {
	node, err := s.loadOwned(ctx, nodeID, profileID)
	if err != nil {
		return err
	}

	refs, err := s.contentRepo.SubtreeImageRefs(ctx, node)
	if err != nil {
		return err
	}

	if err := s.contentRepo.DeleteSubtree(ctx, node); err != nil {
		return err
	}

	if len(refs) > 0 {
		return s.files.Remove(ctx, refs)
	}
	return nil
}

// applyPrivacy resolves the effective value (a private parent pins the whole
// subtree private) and runs the transactional cascade when it changes.
func (s *PrivacyService) applyPrivacy(ctx context.Context, node *models.ContentNode, isPrivate bool) error {
	effective := isPrivate
	if node.Parent != nil && node.Parent.IsPrivate {
		effective = true
	}
	if effective == node.IsPrivate {
		return nil
	}

	var keep []string
	if effective {
		followers, err := s.follows.FollowerIDs(ctx, node.AuthorID)
		if err != nil {
			return err
		}
		keep = append(followers, node.AuthorID)
	}

	if err := s.contentRepo.SetSubtreePrivacy(ctx, node, effective, keep); err != nil {
		return err
	}
	node.IsPrivate = effective
	return nil
}

func (s *PrivacyService) loadOwned(ctx context.Context, nodeID, profileID string) (*models.ContentNode, error) {
	node, err := s.contentRepo.GetByID(ctx, nodeID, models.NodeRelations{Parent: true})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", nodeID)
		}
		return nil, err
	}
	if profileID == "" {
		return nil, models.NewNotFoundError("Profile", profileID)
	}
	if node.AuthorID != profileID {
		return nil, models.NewAccessDeniedError("You can only modify your own content")
	}
	return node, nil
}
