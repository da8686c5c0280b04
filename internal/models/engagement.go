package models

import "time"

// Like marks that a profile likes a content node. The composite unique
// index is what makes the toggle idempotent under concurrency: duplicate
// inserts hit the constraint instead of creating a second row.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NodeID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_node_profile" json:"node_id"`
	ProfileID string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_node_profile" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is a profile's saved reference to a content node.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NodeID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_node_profile" json:"node_id"`
	ProfileID string    `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_node_profile" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}
