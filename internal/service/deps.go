// Package service implements the application's domain logic on top of the
// repository layer and external collaborators.
package service

import (
	"context"
	"mime/multipart"
)

// FollowGraph is the follow-relationship collaborator. The production
// implementation is the gorm follow repository; tests substitute stubs.
type FollowGraph interface {
	IsFollower(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingIDs(ctx context.Context, profileID string) ([]string, error)
	FollowerIDs(ctx context.Context, profileID string) ([]string, error)
}

// FileStore is the opaque file storage collaborator for content images.
type FileStore interface {
	Store(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	Replace(ctx context.Context, files []*multipart.FileHeader, prevNames []string) ([]string, error)
	Remove(ctx context.Context, names []string) error
}
