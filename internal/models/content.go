// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// PathSeparator joins node IDs into a materialized ancestry path.
// A root's path is its own ID; a child's path is parentPath + "/" + childID.
const PathSeparator = "/"

// ContentNode is a single node in a content tree. Roots, reposts and
// comments all share this shape; IsComment and ParentID tell them apart.
type ContentNode struct {
	ID             string       `gorm:"type:uuid;primaryKey" json:"id"`
	IsComment      bool         `gorm:"not null;default:false;index" json:"is_comment"`
	Text           string       `gorm:"type:text" json:"text"`
	ImageRefs      []string     `gorm:"serializer:json" json:"image_refs"`
	AuthorID       string       `gorm:"type:uuid;not null;index" json:"author_id"`
	Author         *Profile     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ParentID       *string      `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent         *ContentNode `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	ParentAuthorID *string      `gorm:"type:uuid" json:"parent_author_id,omitempty"`
	ParentAuthor   *Profile     `gorm:"foreignKey:ParentAuthorID" json:"parent_author,omitempty"`
	IsPrivate      bool         `gorm:"not null;default:false;index" json:"is_private"`
	// LikeCount is denormalized; it is only ever changed with server-side
	// arithmetic so concurrent toggles cannot lose updates.
	LikeCount int    `gorm:"not null;default:0" json:"like_count"`
	Path      string `gorm:"not null;index" json:"-"`
	// Liked/Bookmarked reflect the requesting viewer; computed at query time
	Liked      bool           `gorm:"-" json:"liked"`
	Bookmarked bool           `gorm:"-" json:"bookmarked"`
	Replies    []*ContentNode `gorm:"-" json:"replies,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// IsRoot reports whether the node is a top-level record.
func (n *ContentNode) IsRoot() bool {
	return n.ParentID == nil
}

// RootID returns the ID of the root of this node's tree, derived from the
// first segment of the materialized path.
func (n *ContentNode) RootID() string {
	if i := strings.Index(n.Path, PathSeparator); i > 0 {
		return n.Path[:i]
	}
	return n.Path
}

// DescendantPrefix is the LIKE pattern matching every descendant of the node.
func (n *ContentNode) DescendantPrefix() string {
	return n.Path + PathSeparator + "%"
}

// NodeRelations selects which associations to load with a node.
type NodeRelations struct {
	Author       bool
	Parent       bool
	ParentAuthor bool
}

// AllNodeRelations loads author, parent and parent author.
func AllNodeRelations() NodeRelations {
	return NodeRelations{Author: true, Parent: true, ParentAuthor: true}
}

// Sorting holds normalized sort parameters for feed and subtree queries.
type Sorting struct {
	SortBy  string // "createdAt" or "likeCount"
	OrderBy string // "ASC" or "DESC"
}

// Column maps the API sort field onto a whitelisted database column.
// Unrecognized fields fall back to created_at.
func (s Sorting) Column() string {
	if s.SortBy == "likeCount" {
		return "like_count"
	}
	return "created_at"
}

// Direction returns the normalized sort direction, defaulting to DESC.
func (s Sorting) Direction() string {
	if strings.EqualFold(s.OrderBy, "ASC") {
		return "ASC"
	}
	return "DESC"
}
