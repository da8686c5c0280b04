package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	NodeKeyPrefix    = "node:%s"
	ProfileKeyPrefix = "profile:%s"
	// FeedFirstPageKey caches the anonymous default first page only; every
	// other feed variant goes to the database.
	FeedFirstPageKey = "feed:first"
)

const (
	NodeTTL    = 30 * time.Minute
	ProfileTTL = 5 * time.Minute
	FeedTTL    = 1 * time.Minute
)

func NodeKey(nodeID string) string {
	return fmt.Sprintf(NodeKeyPrefix, nodeID)
}

func ProfileKey(profileID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateNode(ctx context.Context, nodeID string) {
	Invalidate(ctx, NodeKey(nodeID))
}

func InvalidateProfile(ctx context.Context, profileID string) {
	Invalidate(ctx, ProfileKey(profileID))
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPageKey)
}
