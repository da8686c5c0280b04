// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateProfile constructs and persists a sample `models.Profile`.
// Optional override functions may modify the generated profile before saving.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := &models.Profile{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Bio:       gofakeit.Sentence(10),
		AvatarRef: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(profile)
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateFollow persists a follow edge from follower to following.
func (f *Factory) CreateFollow(follower, following *models.Profile) error {
	follow := &models.Follow{
		FollowerID:  follower.ID,
		FollowingID: following.ID,
	}
	return f.db.Create(follow).Error
}

// CreateNode constructs and persists a content node for the given author.
// When parent is non-nil the node inherits privacy, parent author and the
// materialized path the same way the create operation does.
func (f *Factory) CreateNode(author *models.Profile, parent *models.ContentNode, isComment bool, overrides ...func(*models.ContentNode)) (*models.ContentNode, error) {
	id := uuid.NewString()
	node := &models.ContentNode{
		ID:        id,
		IsComment: isComment,
		Text:      gofakeit.Sentence(f.rng.Intn(12) + 3),
		AuthorID:  author.ID,
		Path:      id,
		CreatedAt: f.spreadCreatedAt(),
	}
	if parent != nil {
		node.ParentID = &parent.ID
		node.ParentAuthorID = &parent.AuthorID
		node.IsPrivate = parent.IsPrivate
		node.Path = parent.Path + models.PathSeparator + id
		if node.CreatedAt.Before(parent.CreatedAt) {
			node.CreatedAt = parent.CreatedAt.Add(time.Duration(f.rng.Intn(3600)+1) * time.Second)
		}
	}

	for _, override := range overrides {
		override(node)
	}

	if err := f.db.Create(node).Error; err != nil {
		return nil, err
	}
	return node, nil
}

// CreateLike persists a like from profile on node and bumps the denormalized
// counter so seeded counts stay consistent with the likes table.
func (f *Factory) CreateLike(profile *models.Profile, node *models.ContentNode) error {
	like := &models.Like{
		NodeID:    node.ID,
		ProfileID: profile.ID,
	}
	if err := f.db.Create(like).Error; err != nil {
		return err
	}
	return f.db.Model(&models.ContentNode{}).
		Where("id = ?", node.ID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
}

// CreateBookmark persists a bookmark from profile on node.
func (f *Factory) CreateBookmark(profile *models.Profile, node *models.ContentNode) error {
	bookmark := &models.Bookmark{
		NodeID:    node.ID,
		ProfileID: profile.ID,
	}
	return f.db.Create(bookmark).Error
}

// spreadCreatedAt produces a realistic created_at spread over MaxDays.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
