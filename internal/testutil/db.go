package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tactac/internal/database"
	"tactac/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// OpenTestDB opens a private in-memory SQLite database with the full schema.
// Each call gets its own database, so tests may run in parallel.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:tactac_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// UserOption customizes a fixture user.
type UserOption func(*models.User)

// AsAdmin gives the fixture user the admin role.
func AsAdmin() UserOption {
	return func(u *models.User) { u.Role = models.RoleAdmin }
}

// WithStatus sets the fixture user's status.
func WithStatus(status models.UserStatus) UserOption {
	return func(u *models.User) { u.Status = status }
}

// WithPassword stores a bcrypt digest of password at minimum cost.
func WithPassword(password string) UserOption {
	return func(u *models.User) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		u.Password = string(hash)
	}
}

// CreateUser inserts an active user named username.
func CreateUser(t *testing.T, db *gorm.DB, username string, opts ...UserOption) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Password: "not-a-real-digest",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a live post by author without touching counters.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, caption string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Image: "mem://posts/" + caption, Caption: caption}
	require.NoError(t, db.Omit("Author").Create(p).Error)
	return p
}

// Reload fetches a fresh copy of dest's row by primary key.
func Reload[T any](t *testing.T, db *gorm.DB, id uint) *T {
	t.Helper()
	var out T
	require.NoError(t, db.First(&out, id).Error)
	return &out
}
