package service

import (
	"context"
	"errors"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 100
)

// FeedQuery carries feed listing parameters after transport parsing.
type FeedQuery struct {
	Page      int
	Limit     int
	Sorting   models.Sorting
	AuthorID  string
	MediaOnly bool
	// ViewerID is empty for anonymous requests.
	ViewerID string
}

// FeedService composes visibility-filtered, paginated views over root-level
// content and subtree detail views.
type FeedService struct {
	contentRepo    repository.ContentRepository
	engagementRepo repository.EngagementRepository
	follows        FollowGraph
}

// NewFeedService creates a new feed service.
func NewFeedService(
	contentRepo repository.ContentRepository,
	engagementRepo repository.EngagementRepository,
	follows FollowGraph,
) *FeedService {
	return &FeedService{
		contentRepo:    contentRepo,
		engagementRepo: engagementRepo,
		follows:        follows,
	}
}

// ListFeed returns root-level nodes the viewer may see: public content plus
// private content from the viewer and the authors the viewer follows.
func (s *FeedService) ListFeed(ctx context.Context, q FeedQuery) ([]*models.ContentNode, error) {
	q = normalize(q)

	rq := repository.RootsQuery{
		Sorting:   q.Sorting,
		Page:      q.Page,
		Limit:     q.Limit,
		AuthorID:  q.AuthorID,
		MediaOnly: q.MediaOnly,
	}
	if q.ViewerID != "" {
		followings, err := s.follows.FollowingIDs(ctx, q.ViewerID)
		if err != nil {
			return nil, err
		}
		rq.VisibleAuthorIDs = append(followings, q.ViewerID)
	}

	var nodes []*models.ContentNode
	var err error
	if s.cacheableFirstPage(q) {
		err = cache.Aside(ctx, cache.FeedFirstPageKey, &nodes, cache.FeedTTL, func() error {
			var fetchErr error
			nodes, fetchErr = s.contentRepo.ListRoots(ctx, rq)
			return fetchErr
		})
	} else {
		nodes, err = s.contentRepo.ListRoots(ctx, rq)
	}
	if err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, nodes, q.ViewerID); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ListFollowingFeed returns roots authored by profiles the viewer follows.
// An unresolved viewer falls back to the public feed without privacy elevation.
func (s *FeedService) ListFollowingFeed(ctx context.Context, q FeedQuery) ([]*models.ContentNode, error) {
	if q.ViewerID == "" {
		return s.ListFeed(ctx, q)
	}
	q = normalize(q)

	followings, err := s.follows.FollowingIDs(ctx, q.ViewerID)
	if err != nil {
		return nil, err
	}
	if len(followings) == 0 {
		return []*models.ContentNode{}, nil
	}

	nodes, err := s.contentRepo.ListRoots(ctx, repository.RootsQuery{
		Sorting:   q.Sorting,
		Page:      q.Page,
		Limit:     q.Limit,
		MediaOnly: q.MediaOnly,
		AuthorIDs: followings,
		// Following implies follower access to their private trees.
		VisibleAuthorIDs: append(followings, q.ViewerID),
	})
	if err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, nodes, q.ViewerID); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ListBookmarks returns every node the profile has bookmarked.
func (s *FeedService) ListBookmarks(ctx context.Context, profileID string) ([]*models.ContentNode, error) {
	if profileID == "" {
		return nil, models.NewNotFoundError("Profile", profileID)
	}

	nodes, err := s.contentRepo.ListBookmarked(ctx, profileID)
	if err != nil {
		return nil, err
	}

	for _, n := range nodes {
		n.Bookmarked = true
	}
	if err := s.annotateLiked(ctx, nodes, profileID); err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetByID returns a single node after the privacy check.
func (s *FeedService) GetByID(ctx context.Context, nodeID, viewerID string, rel models.NodeRelations) (*models.ContentNode, error) {
	node, err := s.contentRepo.GetByID(ctx, nodeID, rel)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", nodeID)
		}
		return nil, err
	}

	if err := visibleTo(ctx, s.contentRepo, s.follows, node, viewerID); err != nil {
		return nil, err
	}

	if viewerID != "" {
		if err := s.annotate(ctx, []*models.ContentNode{node}, viewerID); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// GetSubtreeView returns the node's reply forest for one branch kind
// (comments or reposts), privacy-checked against the viewer.
func (s *FeedService) GetSubtreeView(ctx context.Context, nodeID string, isComment bool, sort models.Sorting, viewerID string) ([]*models.ContentNode, error) {
	node, err := s.GetByID(ctx, nodeID, viewerID, models.NodeRelations{})
	if err != nil {
		return nil, err
	}

	flat, err := s.contentRepo.FindDescendants(ctx, node, isComment, sort)
	if err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, flat, viewerID); err != nil {
		return nil, err
	}
	return AssembleTree(flat), nil
}

// cacheableFirstPage reports whether the query is the anonymous default
// first page, the only feed variant worth caching.
func (s *FeedService) cacheableFirstPage(q FeedQuery) bool {
	return q.ViewerID == "" &&
		q.Page == 1 &&
		q.Limit == defaultFeedLimit &&
		q.AuthorID == "" &&
		!q.MediaOnly &&
		q.Sorting.Column() == "created_at" &&
		q.Sorting.Direction() == "DESC"
}

func (s *FeedService) annotate(ctx context.Context, nodes []*models.ContentNode, viewerID string) error {
	if viewerID == "" || len(nodes) == 0 {
		return nil
	}
	if err := s.annotateLiked(ctx, nodes, viewerID); err != nil {
		return err
	}

	ids := nodeIDs(nodes)
	bookmarked, err := s.engagementRepo.BookmarkedNodeIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	mark := toSet(bookmarked)
	for _, n := range nodes {
		n.Bookmarked = mark[n.ID]
	}
	return nil
}

func (s *FeedService) annotateLiked(ctx context.Context, nodes []*models.ContentNode, viewerID string) error {
	if len(nodes) == 0 {
		return nil
	}
	liked, err := s.engagementRepo.LikedNodeIDs(ctx, viewerID, nodeIDs(nodes))
	if err != nil {
		return err
	}
	mark := toSet(liked)
	for _, n := range nodes {
		n.Liked = mark[n.ID]
	}
	return nil
}

func normalize(q FeedQuery) FeedQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultFeedLimit
	}
	if q.Limit > maxFeedLimit {
		q.Limit = maxFeedLimit
	}
	return q
}

func nodeIDs(nodes []*models.ContentNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
