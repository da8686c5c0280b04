// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strconv"

	"chirp/internal/cache"
	"chirp/internal/middleware"
	"chirp/internal/models"

	"gorm.io/gorm"
)

// RootsQuery carries the filters for listing root-level content.
type RootsQuery struct {
	Sorting  models.Sorting
	Page     int
	Limit    int
	AuthorID string
	// AuthorIDs restricts results to the given authors (following feed).
	AuthorIDs []string
	MediaOnly bool
	// VisibleAuthorIDs are authors whose private content the viewer may see.
	// Empty means public content only.
	VisibleAuthorIDs []string
}

// ContentRepository defines the interface for content tree data operations.
type ContentRepository interface {
	Create(ctx context.Context, node *models.ContentNode) error
	GetByID(ctx context.Context, id string, rel models.NodeRelations) (*models.ContentNode, error)
	FindDescendants(ctx context.Context, root *models.ContentNode, isComment bool, sort models.Sorting) ([]*models.ContentNode, error)
	Update(ctx context.Context, node *models.ContentNode) error
	SetSubtreePrivacy(ctx context.Context, root *models.ContentNode, isPrivate bool, keepProfileIDs []string) error
	SubtreeImageRefs(ctx context.Context, root *models.ContentNode) ([]string, error)
	DeleteSubtree(ctx context.Context, root *models.ContentNode) error
	ListRoots(ctx context.Context, q RootsQuery) ([]*models.ContentNode, error)
	ListBookmarked(ctx context.Context, profileID string) ([]*models.ContentNode, error)
}

// contentRepository implements ContentRepository
type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, node *models.ContentNode) error {
	err := r.db.WithContext(ctx).Create(node).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
		if node.ParentID != nil {
			cache.InvalidateNode(ctx, *node.ParentID)
		}
	}
	return err
}

func (r *contentRepository) GetByID(ctx context.Context, id string, rel models.NodeRelations) (*models.ContentNode, error) {
	var node models.ContentNode
	q := r.db.WithContext(ctx)
	if rel.Author {
		q = q.Preload("Author")
	}
	if rel.Parent {
		q = q.Preload("Parent")
	}
	if rel.ParentAuthor {
		q = q.Preload("ParentAuthor")
	}
	if err := q.First(&node, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

// FindDescendants returns the subtree below root restricted to one branch
// kind: either the comment branch or the repost branch. A node qualifies when
// its own kind matches and its parent is either the root itself or of the
// same kind, so branches of the other kind are pruned whole.
// Direct children are ordered by the requested column, deeper levels by
// creation time so the tree assembles deterministically.
func (r *contentRepository) FindDescendants(ctx context.Context, root *models.ContentNode, isComment bool, sort models.Sorting) ([]*models.ContentNode, error) {
	var nodes []*models.ContentNode
	orderExpr := "(CASE WHEN content_nodes.parent_id = ? THEN content_nodes." + sort.Column() + " END) " + sort.Direction()

	err := r.db.WithContext(ctx).
		Model(&models.ContentNode{}).
		Joins("JOIN content_nodes AS parent ON parent.id = content_nodes.parent_id").
		Where("content_nodes.path LIKE ?", root.DescendantPrefix()).
		Where("content_nodes.is_comment = ?", isComment).
		Where("parent.is_comment = ? OR parent.id = ?", isComment, root.ID).
		Order(gorm.Expr(orderExpr, root.ID)).
		Order("content_nodes.created_at ASC").
		Preload("Author").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *contentRepository) Update(ctx context.Context, node *models.ContentNode) error {
	if err := r.db.WithContext(ctx).Save(node).Error; err != nil {
		return err
	}
	cache.InvalidateNode(ctx, node.ID)
	cache.InvalidateFeed(ctx)
	return nil
}

// SetSubtreePrivacy flips is_private on the node and every descendant and,
// when going private, revokes bookmarks held by profiles outside
// keepProfileIDs. All three steps run in one transaction so a failure never
// leaves the tree in a mixed state.
func (r *contentRepository) SetSubtreePrivacy(ctx context.Context, root *models.ContentNode, isPrivate bool, keepProfileIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ContentNode{}).
			Where("id = ?", root.ID).
			UpdateColumn("is_private", isPrivate).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ContentNode{}).
			Where("path LIKE ?", root.DescendantPrefix()).
			UpdateColumn("is_private", isPrivate).Error; err != nil {
			return err
		}

		if isPrivate {
			subtree := tx.Model(&models.ContentNode{}).
				Select("id").
				Where("id = ? OR path LIKE ?", root.ID, root.DescendantPrefix())
			revoke := tx.Where("node_id IN (?)", subtree)
			if len(keepProfileIDs) > 0 {
				revoke = revoke.Where("profile_id NOT IN ?", keepProfileIDs)
			}
			if err := revoke.Delete(&models.Bookmark{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	middleware.CascadeUpdates.WithLabelValues(strconv.FormatBool(isPrivate)).Inc()
	cache.InvalidateNode(ctx, root.ID)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *contentRepository) SubtreeImageRefs(ctx context.Context, root *models.ContentNode) ([]string, error) {
	var nodes []*models.ContentNode
	err := r.db.WithContext(ctx).
		Select("id", "image_refs").
		Where("id = ? OR path LIKE ?", root.ID, root.DescendantPrefix()).
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}

	var refs []string
	for _, n := range nodes {
		refs = append(refs, n.ImageRefs...)
	}
	return refs, nil
}

// DeleteSubtree removes the node, all descendants, and their engagement rows
// in one transaction.
func (r *contentRepository) DeleteSubtree(ctx context.Context, root *models.ContentNode) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtree := tx.Model(&models.ContentNode{}).
			Select("id").
			Where("id = ? OR path LIKE ?", root.ID, root.DescendantPrefix())

		if err := tx.Where("node_id IN (?)", subtree).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("node_id IN (?)", subtree).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.
			Where("id = ? OR path LIKE ?", root.ID, root.DescendantPrefix()).
			Delete(&models.ContentNode{}).Error
	})
	if err != nil {
		return err
	}

	cache.InvalidateNode(ctx, root.ID)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *contentRepository) ListRoots(ctx context.Context, q RootsQuery) ([]*models.ContentNode, error) {
	var nodes []*models.ContentNode

	base := r.db.WithContext(ctx).
		Model(&models.ContentNode{}).
		Where("is_comment = ? AND parent_id IS NULL", false)

	if q.AuthorID != "" {
		base = base.Where("author_id = ?", q.AuthorID)
	}
	if len(q.AuthorIDs) > 0 {
		base = base.Where("author_id IN ?", q.AuthorIDs)
	}
	if q.MediaOnly {
		base = base.Where("image_refs IS NOT NULL AND image_refs NOT IN ('', '[]', 'null')")
	}
	if len(q.VisibleAuthorIDs) > 0 {
		base = base.Where("is_private = ? OR author_id IN ?", false, q.VisibleAuthorIDs)
	} else {
		base = base.Where("is_private = ?", false)
	}

	err := base.
		Order(q.Sorting.Column() + " " + q.Sorting.Direction()).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Preload("Author").
		Preload("ParentAuthor").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *contentRepository) ListBookmarked(ctx context.Context, profileID string) ([]*models.ContentNode, error) {
	var nodes []*models.ContentNode
	err := r.db.WithContext(ctx).
		Model(&models.ContentNode{}).
		Joins("JOIN bookmarks ON bookmarks.node_id = content_nodes.id").
		Where("bookmarks.profile_id = ?", profileID).
		Order("bookmarks.created_at DESC").
		Preload("Author").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}
