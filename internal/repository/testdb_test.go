package repository

import (
	"path/filepath"
	"testing"
	"time"

	"chirp/internal/database"
	"chirp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupMockDB returns a gorm DB backed by sqlmock for pinning exact SQL.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newTestProfile(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()

	p := &models.Profile{
		ID:       uuid.NewString(),
		UserID:   uuid.NewString(),
		Username: "user-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// newTestNode persists a node with the same path/inheritance rules the
// service applies on create.
func newTestNode(t *testing.T, db *gorm.DB, author *models.Profile, parent *models.ContentNode, isComment bool, mutate ...func(*models.ContentNode)) *models.ContentNode {
	t.Helper()

	id := uuid.NewString()
	node := &models.ContentNode{
		ID:        id,
		IsComment: isComment,
		Text:      "node " + id[:8],
		AuthorID:  author.ID,
		Path:      id,
		CreatedAt: time.Now().UTC(),
	}
	if parent != nil {
		node.ParentID = &parent.ID
		node.ParentAuthorID = &parent.AuthorID
		node.IsPrivate = parent.IsPrivate
		node.Path = parent.Path + models.PathSeparator + id
	}
	for _, m := range mutate {
		m(node)
	}
	require.NoError(t, db.Create(node).Error)
	return node
}
