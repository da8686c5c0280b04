package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"chirp/internal/models"
	"chirp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// contentRepoStub is a stub for repository.ContentRepository.
type contentRepoStub struct {
	createFn            func(context.Context, *models.ContentNode) error
	getByIDFn           func(context.Context, string, models.NodeRelations) (*models.ContentNode, error)
	findDescendantsFn   func(context.Context, *models.ContentNode, bool, models.Sorting) ([]*models.ContentNode, error)
	updateFn            func(context.Context, *models.ContentNode) error
	setSubtreePrivacyFn func(context.Context, *models.ContentNode, bool, []string) error
	subtreeImageRefsFn  func(context.Context, *models.ContentNode) ([]string, error)
	deleteSubtreeFn     func(context.Context, *models.ContentNode) error
	listRootsFn         func(context.Context, repository.RootsQuery) ([]*models.ContentNode, error)
	listBookmarkedFn    func(context.Context, string) ([]*models.ContentNode, error)
}

func (s *contentRepoStub) Create(ctx context.Context, node *models.ContentNode) error {
	return s.createFn(ctx, node)
}
func (s *contentRepoStub) GetByID(ctx context.Context, id string, rel models.NodeRelations) (*models.ContentNode, error) {
	return s.getByIDFn(ctx, id, rel)
}
func (s *contentRepoStub) FindDescendants(ctx context.Context, root *models.ContentNode, isComment bool, sort models.Sorting) ([]*models.ContentNode, error) {
	return s.findDescendantsFn(ctx, root, isComment, sort)
}
func (s *contentRepoStub) Update(ctx context.Context, node *models.ContentNode) error {
	return s.updateFn(ctx, node)
}
func (s *contentRepoStub) SetSubtreePrivacy(ctx context.Context, root *models.ContentNode, isPrivate bool, keep []string) error {
	return s.setSubtreePrivacyFn(ctx, root, isPrivate, keep)
}
func (s *contentRepoStub) SubtreeImageRefs(ctx context.Context, root *models.ContentNode) ([]string, error) {
	return s.subtreeImageRefsFn(ctx, root)
}
func (s *contentRepoStub) DeleteSubtree(ctx context.Context, root *models.ContentNode) error {
	return s.deleteSubtreeFn(ctx, root)
}
func (s *contentRepoStub) ListRoots(ctx context.Context, q repository.RootsQuery) ([]*models.ContentNode, error) {
	return s.listRootsFn(ctx, q)
}
func (s *contentRepoStub) ListBookmarked(ctx context.Context, profileID string) ([]*models.ContentNode, error) {
	return s.listBookmarkedFn(ctx, profileID)
}

func noopContentRepo() *contentRepoStub {
	return &contentRepoStub{
		createFn: func(_ context.Context, _ *models.ContentNode) error { return nil },
		getByIDFn: func(_ context.Context, id string, _ models.NodeRelations) (*models.ContentNode, error) {
			return &models.ContentNode{ID: id, Path: id}, nil
		},
		findDescendantsFn: func(_ context.Context, _ *models.ContentNode, _ bool, _ models.Sorting) ([]*models.ContentNode, error) {
			return nil, nil
		},
		updateFn:            func(_ context.Context, _ *models.ContentNode) error { return nil },
		setSubtreePrivacyFn: func(_ context.Context, _ *models.ContentNode, _ bool, _ []string) error { return nil },
		subtreeImageRefsFn:  func(_ context.Context, _ *models.ContentNode) ([]string, error) { return nil, nil },
		deleteSubtreeFn:     func(_ context.Context, _ *models.ContentNode) error { return nil },
		listRootsFn: func(_ context.Context, _ repository.RootsQuery) ([]*models.ContentNode, error) {
			return nil, nil
		},
		listBookmarkedFn: func(_ context.Context, _ string) ([]*models.ContentNode, error) { return nil, nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	toggleLikeFn        func(context.Context, string, string) (bool, int, error)
	toggleBookmarkFn    func(context.Context, string, string) (bool, error)
	removeBookmarkFn    func(context.Context, string, string) error
	likedNodeIDsFn      func(context.Context, string, []string) ([]string, error)
	bookmarkedNodeIDsFn func(context.Context, string, []string) ([]string, error)
}

func (s *engagementRepoStub) ToggleLike(ctx context.Context, nodeID, profileID string) (bool, int, error) {
	return s.toggleLikeFn(ctx, nodeID, profileID)
}
func (s *engagementRepoStub) ToggleBookmark(ctx context.Context, nodeID, profileID string) (bool, error) {
	return s.toggleBookmarkFn(ctx, nodeID, profileID)
}
func (s *engagementRepoStub) RemoveBookmark(ctx context.Context, nodeID, profileID string) error {
	return s.removeBookmarkFn(ctx, nodeID, profileID)
}
func (s *engagementRepoStub) LikedNodeIDs(ctx context.Context, profileID string, nodeIDs []string) ([]string, error) {
	return s.likedNodeIDsFn(ctx, profileID, nodeIDs)
}
func (s *engagementRepoStub) BookmarkedNodeIDs(ctx context.Context, profileID string, nodeIDs []string) ([]string, error) {
	return s.bookmarkedNodeIDsFn(ctx, profileID, nodeIDs)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		toggleLikeFn:        func(_ context.Context, _, _ string) (bool, int, error) { return true, 1, nil },
		toggleBookmarkFn:    func(_ context.Context, _, _ string) (bool, error) { return true, nil },
		removeBookmarkFn:    func(_ context.Context, _, _ string) error { return nil },
		likedNodeIDsFn:      func(_ context.Context, _ string, _ []string) ([]string, error) { return nil, nil },
		bookmarkedNodeIDsFn: func(_ context.Context, _ string, _ []string) ([]string, error) { return nil, nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn      func(context.Context, *models.Profile) error
	getByIDFn     func(context.Context, string) (*models.Profile, error)
	getByUserIDFn func(context.Context, string) (*models.Profile, error)
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn:      func(_ context.Context, _ *models.Profile) error { return nil },
		getByIDFn:     func(_ context.Context, id string) (*models.Profile, error) { return &models.Profile{ID: id}, nil },
		getByUserIDFn: func(_ context.Context, _ string) (*models.Profile, error) { return nil, gorm.ErrRecordNotFound },
		updateFn:      func(_ context.Context, _ *models.Profile) error { return nil },
	}
}

// followGraphStub is a stub for the FollowGraph collaborator.
type followGraphStub struct {
	isFollowerFn   func(context.Context, string, string) (bool, error)
	followingIDsFn func(context.Context, string) ([]string, error)
	followerIDsFn  func(context.Context, string) ([]string, error)
}

func (s *followGraphStub) IsFollower(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.isFollowerFn(ctx, followerID, followingID)
}
func (s *followGraphStub) FollowingIDs(ctx context.Context, profileID string) ([]string, error) {
	return s.followingIDsFn(ctx, profileID)
}
func (s *followGraphStub) FollowerIDs(ctx context.Context, profileID string) ([]string, error) {
	return s.followerIDsFn(ctx, profileID)
}

func noopFollowGraph() *followGraphStub {
	return &followGraphStub{
		isFollowerFn:   func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		followingIDsFn: func(_ context.Context, _ string) ([]string, error) { return nil, nil },
		followerIDsFn:  func(_ context.Context, _ string) ([]string, error) { return nil, nil },
	}
}

// fileStoreStub is a stub for the FileStore collaborator.
type fileStoreStub struct {
	storeFn   func(context.Context, []*multipart.FileHeader) ([]string, error)
	replaceFn func(context.Context, []*multipart.FileHeader, []string) ([]string, error)
	removeFn  func(context.Context, []string) error
}

func (s *fileStoreStub) Store(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	return s.storeFn(ctx, files)
}
func (s *fileStoreStub) Replace(ctx context.Context, files []*multipart.FileHeader, prev []string) ([]string, error) {
	return s.replaceFn(ctx, files, prev)
}
func (s *fileStoreStub) Remove(ctx context.Context, names []string) error {
	return s.removeFn(ctx, names)
}

func noopFileStore() *fileStoreStub {
	return &fileStoreStub{
		storeFn: func(_ context.Context, _ []*multipart.FileHeader) ([]string, error) { return nil, nil },
		replaceFn: func(_ context.Context, _ []*multipart.FileHeader, _ []string) ([]string, error) {
			return nil, nil
		},
		removeFn: func(_ context.Context, _ []string) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

// assertAccessDeniedError asserts that err is an AppError with code ACCESS_DENIED.
func assertAccessDeniedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "ACCESS_DENIED")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
