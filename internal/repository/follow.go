package repository

import (
	"context"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// FollowRepository is the gorm-backed follow graph. The service layer
// consumes it through the service.FollowGraph interface.
type FollowRepository interface {
	IsFollower(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingIDs(ctx context.Context, profileID string) ([]string, error)
	FollowerIDs(ctx context.Context, profileID string) ([]string, error)
	Follow(ctx context.Context, followerID, followingID string) error
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) IsFollower(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, profileID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", profileID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) FollowerIDs(ctx context.Context, profileID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", profileID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *followRepository) Follow(ctx context.Context, followerID, followingID string) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, following_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID,
	).Error
}
