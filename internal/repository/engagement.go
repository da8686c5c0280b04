package repository

import (
	"context"
	"time"

	"chirp/internal/cache"
	"chirp/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository defines like and bookmark data operations.
type EngagementRepository interface {
	// ToggleLike flips the viewer's like membership and adjusts the
	// denormalized counter in the same transaction. Returns the resulting
	// membership and counter value.
	ToggleLike(ctx context.Context, nodeID, profileID string) (liked bool, likeCount int, err error)
	ToggleBookmark(ctx context.Context, nodeID, profileID string) (bookmarked bool, err error)
	RemoveBookmark(ctx context.Context, nodeID, profileID string) error
	LikedNodeIDs(ctx context.Context, profileID string, nodeIDs []string) ([]string, error)
	BookmarkedNodeIDs(ctx context.Context, profileID string, nodeIDs []string) ([]string, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) ToggleLike(ctx context.Context, nodeID, profileID string) (bool, int, error) {
	var liked bool
	var likeCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// INSERT ... ON CONFLICT DO NOTHING decides the direction atomically:
		// a concurrent duplicate hits the unique index instead of double-counting.
		res := tx.Exec(
			`INSERT INTO likes (node_id, profile_id, created_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT (node_id, profile_id) DO NOTHING`,
			nodeID, profileID, time.Now().UTC(),
		)
		if res.Error != nil {
			return res.Error
		}

		delta := 1
		if res.RowsAffected == 0 {
			// Already liked: this toggle removes the like.
			if err := tx.
				Where("node_id = ? AND profile_id = ?", nodeID, profileID).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			delta = -1
			liked = false
		} else {
			liked = true
		}

		if err := tx.Model(&models.ContentNode{}).
			Where("id = ?", nodeID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
			return err
		}

		return tx.Model(&models.ContentNode{}).
			Select("like_count").
			Where("id = ?", nodeID).
			Scan(&likeCount).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.InvalidateNode(ctx, nodeID)
	cache.InvalidateFeed(ctx)
	return liked, likeCount, nil
}

func (r *engagementRepository) ToggleBookmark(ctx context.Context, nodeID, profileID string) (bool, error) {
	var bookmarked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO bookmarks (node_id, profile_id, created_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT (node_id, profile_id) DO NOTHING`,
			nodeID, profileID, time.Now().UTC(),
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			bookmarked = false
			return tx.
				Where("node_id = ? AND profile_id = ?", nodeID, profileID).
				Delete(&models.Bookmark{}).Error
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// RemoveBookmark deletes the bookmark if present; gorm.ErrRecordNotFound is
// returned when there was nothing to remove.
func (r *engagementRepository) RemoveBookmark(ctx context.Context, nodeID, profileID string) error {
	res := r.db.WithContext(ctx).
		Where("node_id = ? AND profile_id = ?", nodeID, profileID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *engagementRepository) LikedNodeIDs(ctx context.Context, profileID string, nodeIDs []string) ([]string, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	var liked []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("profile_id = ? AND node_id IN ?", profileID, nodeIDs).
		Pluck("node_id", &liked).Error
	return liked, err
}

func (r *engagementRepository) BookmarkedNodeIDs(ctx context.Context, profileID string, nodeIDs []string) ([]string, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	var bookmarked []string
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("profile_id = ? AND node_id IN ?", profileID, nodeIDs).
		Pluck("node_id", &bookmarked).Error
	return bookmarked, err
}
