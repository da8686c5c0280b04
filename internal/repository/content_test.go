package repository

import (
	"context"
	"testing"
	"time"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func nodeIDsOf(nodes []*models.ContentNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestContentRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	node := newTestNode(t, db, author, nil, false)

	got, err := repo.GetByID(ctx, node.ID, models.NodeRelations{Author: true})
	require.NoError(t, err)
	assert.Equal(t, node.ID, got.ID)
	require.NotNil(t, got.Author)
	assert.Equal(t, author.Username, got.Author.Username)

	_, err = repo.GetByID(ctx, "does-not-exist", models.NodeRelations{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContentRepository_FindDescendants_BranchKind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	root := newTestNode(t, db, author, nil, false)

	c1 := newTestNode(t, db, author, root, true)
	c1a := newTestNode(t, db, author, c1, true)
	r1 := newTestNode(t, db, author, root, false)
	// A comment hanging under the repost belongs to the repost branch and
	// must not leak into the comment view.
	commentUnderRepost := newTestNode(t, db, author, r1, true)

	comments, err := repo.FindDescendants(ctx, root, true, models.Sorting{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c1.ID, c1a.ID}, nodeIDsOf(comments))

	reposts, err := repo.FindDescendants(ctx, root, false, models.Sorting{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{r1.ID}, nodeIDsOf(reposts))
	assert.NotContains(t, nodeIDsOf(reposts), commentUnderRepost.ID)
}

func TestContentRepository_FindDescendants_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	root := newTestNode(t, db, author, nil, false)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first := newTestNode(t, db, author, root, true, func(n *models.ContentNode) {
		n.CreatedAt = base
		n.LikeCount = 1
	})
	second := newTestNode(t, db, author, root, true, func(n *models.ContentNode) {
		n.CreatedAt = base.Add(time.Hour)
		n.LikeCount = 9
	})
	// Replies sort by creation time regardless of the requested column.
	replyLate := newTestNode(t, db, author, second, true, func(n *models.ContentNode) {
		n.CreatedAt = base.Add(3 * time.Hour)
	})
	replyEarly := newTestNode(t, db, author, second, true, func(n *models.ContentNode) {
		n.CreatedAt = base.Add(2 * time.Hour)
	})

	got, err := repo.FindDescendants(ctx, root, true, models.Sorting{SortBy: "likeCount", OrderBy: "DESC"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Direct children lead, ordered by like_count DESC; replies follow in
	// creation order.
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, replyEarly.ID, got[2].ID)
	assert.Equal(t, replyLate.ID, got[3].ID)
}

func TestContentRepository_SetSubtreePrivacy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	follower := newTestProfile(t, db)
	stranger := newTestProfile(t, db)

	root := newTestNode(t, db, author, nil, false)
	comment := newTestNode(t, db, author, root, true)
	unrelated := newTestNode(t, db, author, nil, false)

	for _, p := range []*models.Profile{follower, stranger} {
		require.NoError(t, db.Create(&models.Bookmark{NodeID: root.ID, ProfileID: p.ID}).Error)
		require.NoError(t, db.Create(&models.Bookmark{NodeID: comment.ID, ProfileID: p.ID}).Error)
		require.NoError(t, db.Create(&models.Bookmark{NodeID: unrelated.ID, ProfileID: p.ID}).Error)
	}

	keep := []string{follower.ID, author.ID}
	require.NoError(t, repo.SetSubtreePrivacy(ctx, root, true, keep))

	// The whole subtree flipped private, other trees untouched.
	var flipped models.ContentNode
	require.NoError(t, db.First(&flipped, "id = ?", comment.ID).Error)
	assert.True(t, flipped.IsPrivate)
	var untouched models.ContentNode
	require.NoError(t, db.First(&untouched, "id = ?", unrelated.ID).Error)
	assert.False(t, untouched.IsPrivate)

	// The stranger lost subtree bookmarks, the follower kept them, and
	// bookmarks outside the subtree survived for everyone.
	var count int64
	db.Model(&models.Bookmark{}).Where("profile_id = ?", stranger.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&models.Bookmark{}).Where("profile_id = ?", follower.ID).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestContentRepository_SetSubtreePrivacy_PublicKeepsBookmarks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	reader := newTestProfile(t, db)
	root := newTestNode(t, db, author, nil, false, func(n *models.ContentNode) { n.IsPrivate = true })
	require.NoError(t, db.Create(&models.Bookmark{NodeID: root.ID, ProfileID: reader.ID}).Error)

	require.NoError(t, repo.SetSubtreePrivacy(ctx, root, false, nil))

	var count int64
	db.Model(&models.Bookmark{}).Count(&count)
	assert.EqualValues(t, 1, count, "going public never revokes bookmarks")
}

func TestContentRepository_DeleteSubtree(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	reader := newTestProfile(t, db)
	root := newTestNode(t, db, author, nil, false)
	comment := newTestNode(t, db, author, root, true)
	survivor := newTestNode(t, db, author, nil, false)

	require.NoError(t, db.Create(&models.Like{NodeID: comment.ID, ProfileID: reader.ID}).Error)
	require.NoError(t, db.Create(&models.Bookmark{NodeID: root.ID, ProfileID: reader.ID}).Error)
	require.NoError(t, db.Create(&models.Like{NodeID: survivor.ID, ProfileID: reader.ID}).Error)

	require.NoError(t, repo.DeleteSubtree(ctx, root))

	var nodes int64
	db.Model(&models.ContentNode{}).Count(&nodes)
	assert.EqualValues(t, 1, nodes)

	var likes int64
	db.Model(&models.Like{}).Count(&likes)
	assert.EqualValues(t, 1, likes, "only engagement on the deleted subtree goes away")

	var bookmarks int64
	db.Model(&models.Bookmark{}).Count(&bookmarks)
	assert.EqualValues(t, 0, bookmarks)
}

func TestContentRepository_SubtreeImageRefs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	root := newTestNode(t, db, author, nil, false, func(n *models.ContentNode) {
		n.ImageRefs = []string{"a.png"}
	})
	newTestNode(t, db, author, root, true, func(n *models.ContentNode) {
		n.ImageRefs = []string{"b.png", "c.png"}
	})
	newTestNode(t, db, author, nil, false, func(n *models.ContentNode) {
		n.ImageRefs = []string{"other.png"}
	})

	refs, err := repo.SubtreeImageRefs(ctx, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.png", "c.png"}, refs)
}

func TestContentRepository_ListRoots(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	alice := newTestProfile(t, db)
	bob := newTestProfile(t, db)

	pub := newTestNode(t, db, alice, nil, false)
	priv := newTestNode(t, db, alice, nil, false, func(n *models.ContentNode) { n.IsPrivate = true })
	withMedia := newTestNode(t, db, bob, nil, false, func(n *models.ContentNode) {
		n.ImageRefs = []string{"pic.png"}
	})
	// Neither comments nor reposts are roots.
	newTestNode(t, db, bob, pub, true)
	newTestNode(t, db, bob, pub, false)

	t.Run("public only by default", func(t *testing.T) {
		got, err := repo.ListRoots(ctx, RootsQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{pub.ID, withMedia.ID}, nodeIDsOf(got))
	})

	t.Run("visible authors unlock private roots", func(t *testing.T) {
		got, err := repo.ListRoots(ctx, RootsQuery{
			Page: 1, Limit: 10, VisibleAuthorIDs: []string{alice.ID},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{pub.ID, priv.ID, withMedia.ID}, nodeIDsOf(got))
	})

	t.Run("author filter", func(t *testing.T) {
		got, err := repo.ListRoots(ctx, RootsQuery{Page: 1, Limit: 10, AuthorID: bob.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{withMedia.ID}, nodeIDsOf(got))
	})

	t.Run("media only", func(t *testing.T) {
		got, err := repo.ListRoots(ctx, RootsQuery{Page: 1, Limit: 10, MediaOnly: true})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{withMedia.ID}, nodeIDsOf(got))
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := repo.ListRoots(ctx, RootsQuery{Page: 1, Limit: 1})
		require.NoError(t, err)
		page2, err := repo.ListRoots(ctx, RootsQuery{Page: 2, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page1, 1)
		require.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})

	t.Run("sort by like count", func(t *testing.T) {
		require.NoError(t, db.Model(&models.ContentNode{}).
			Where("id = ?", withMedia.ID).
			UpdateColumn("like_count", 5).Error)

		got, err := repo.ListRoots(ctx, RootsQuery{
			Page: 1, Limit: 10,
			Sorting: models.Sorting{SortBy: "likeCount", OrderBy: "DESC"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, withMedia.ID, got[0].ID)
	})
}

func TestContentRepository_ListBookmarked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := newTestProfile(t, db)
	reader := newTestProfile(t, db)
	n1 := newTestNode(t, db, author, nil, false)
	n2 := newTestNode(t, db, author, nil, false)
	newTestNode(t, db, author, nil, false)

	require.NoError(t, db.Create(&models.Bookmark{NodeID: n1.ID, ProfileID: reader.ID, CreatedAt: time.Now().Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Bookmark{NodeID: n2.ID, ProfileID: reader.ID, CreatedAt: time.Now()}).Error)

	got, err := repo.ListBookmarked(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, n2.ID, got[0].ID, "newest bookmark first")
	assert.Equal(t, n1.ID, got[1].ID)
}
