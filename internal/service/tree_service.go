package service

import (
	"context"
	"errors"
	"mime/multipart"

	"chirp/internal/models"
	"chirp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTextLen = 280

// TreeService creates content nodes and materializes their ancestry paths.
type TreeService struct {
	contentRepo repository.ContentRepository
	profileRepo repository.ProfileRepository
	files       FileStore
}

// CreateNodeInput carries everything needed to create a root, comment or repost.
type CreateNodeInput struct {
	// ParentID is empty for roots. A non-empty ParentID with IsComment false
	// creates a repost, with IsComment true a comment.
	ParentID  string
	IsComment bool
	ProfileID string
	Text      string
	IsPrivate bool
	Images    []*multipart.FileHeader
}

// NewTreeService creates a new tree service.
func NewTreeService(
	contentRepo repository.ContentRepository,
	profileRepo repository.ProfileRepository,
	files FileStore,
) *TreeService {
	return &TreeService{
		contentRepo: contentRepo,
		profileRepo: profileRepo,
		files:       files,
	}
}

// CreateNode persists a new node. Children inherit privacy and the
// denormalized parent author from the parent; the node's ID is generated
// up front so the materialized path can be written in the same insert.
func (s *TreeService) CreateNode(ctx context.Context, in CreateNodeInput) (*models.ContentNode, error) {
	if in.ProfileID == "" {
		return nil, models.NewNotFoundError("Profile", in.ProfileID)
	}
	if _, err := s.profileRepo.GetByID(ctx, in.ProfileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", in.ProfileID)
		}
		return nil, err
	}

	isRepost := in.ParentID != "" && !in.IsComment
	if in.Text == "" && !isRepost && len(in.Images) == 0 {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxTextLen {
		return nil, models.NewValidationError("Text too long (max 280 characters)")
	}
	if in.IsComment && in.ParentID == "" {
		return nil, models.NewValidationError("A comment requires a parent")
	}

	var parent *models.ContentNode
	if in.ParentID != "" {
		var err error
		parent, err = s.contentRepo.GetByID(ctx, in.ParentID, models.NodeRelations{})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Content", in.ParentID)
			}
			return nil, err
		}
	}

	var imageRefs []string
	if len(in.Images) > 0 {
		var err error
		imageRefs, err = s.files.Store(ctx, in.Images)
		if err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	node := &models.ContentNode{
		ID:        id,
		IsComment: in.IsComment,
		Text:      in.Text,
		ImageRefs: imageRefs,
		AuthorID:  in.ProfileID,
		IsPrivate: in.IsPrivate,
		Path:      id,
	}
	if parent != nil {
		node.ParentID = &parent.ID
		node.ParentAuthorID = &parent.AuthorID
		node.IsPrivate = parent.IsPrivate
		node.Path = parent.Path + models.PathSeparator + id
	}

	if err := s.contentRepo.Create(ctx, node); err != nil {
		return nil, err
	}

	return s.contentRepo.GetByID(ctx, node.ID, models.AllNodeRelations())
}

// FindSubtree loads one branch kind of the subtree below root as a flat,
// SQL-ordered list. Use AssembleTree to nest it.
func (s *TreeService) FindSubtree(ctx context.Context, root *models.ContentNode, isComment bool, sort models.Sorting) ([]*models.ContentNode, error) {
	return s.contentRepo.FindDescendants(ctx, root, isComment, sort)
}

// AssembleTree nests a flat descendant list into a reply forest. Nodes whose
// parent is not part of the list (the root's direct children) become the
// forest roots; input order is preserved at every level.
func AssembleTree(nodes []*models.ContentNode) []*models.ContentNode {
	byID := make(map[string]*models.ContentNode, len(nodes))
	for _, n := range nodes {
		n.Replies = []*models.ContentNode{}
		byID[n.ID] = n
	}

	roots := []*models.ContentNode{}
	for _, n := range nodes {
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
