package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tactac/internal/models"
	"tactac/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func smallPlan() Options {
	return Options{
		Users:              6,
		PostsPerUser:       2,
		MaxLikesPerPost:    5,
		MaxCommentsPerPost: 3,
		MaxDays:            5,
		Admins:             1,
		Password:           "password123",
		FastHash:           true,
		Clean:              true,
		Seed:               99,
	}
}

// assertCountersMatchRows checks every stored counter against the rows it summarizes.
func assertCountersMatchRows(t *testing.T, db *gorm.DB) {
	t.Helper()

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		var likes, comments int64
		require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ? AND is_deleted = ?", p.ID, false).Count(&comments).Error)
		assert.Equal(t, int(likes), p.LikeCount, "post %d likeCount", p.ID)
		assert.Equal(t, int(comments), p.CommentCount, "post %d commentCount", p.ID)
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		var postCount, received int64
		require.NoError(t, db.Model(&models.Post{}).Where("author_id = ? AND is_deleted = ?", u.ID, false).Count(&postCount).Error)
		require.NoError(t, db.Model(&models.Like{}).
			Joins("JOIN posts ON posts.id = likes.post_id").
			Where("posts.author_id = ?", u.ID).Count(&received).Error)
		assert.Equal(t, int(postCount), u.PostCount, "user %d postCount", u.ID)
		assert.Equal(t, int(received), u.TotalLikesReceived, "user %d totalLikesReceived", u.ID)
	}
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	summary, err := NewSeeder(db, smallPlan()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Users)
	assert.Equal(t, 12, summary.Posts)

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	assert.Equal(t, int64(summary.Likes), likes)
	assertCountersMatchRows(t, db)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	var someone models.User
	require.NoError(t, db.First(&someone).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(someone.Password), []byte("password123")))
}

func TestSeeder_RunTwiceWithClean(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	_, err := NewSeeder(db, smallPlan()).Run(ctx)
	require.NoError(t, err)
	_, err = NewSeeder(db, smallPlan()).Run(ctx)
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(6), users)
	assertCountersMatchRows(t, db)
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()

	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, "plan.yml")
		require.NoError(t, os.WriteFile(path, []byte("users: 3\nposts_per_user: 1\nfast_hash: true\n"), 0o600))

		opts, err := LoadPlan(path)
		require.NoError(t, err)
		assert.Equal(t, 3, opts.Users)
		assert.Equal(t, 1, opts.PostsPerUser)
		assert.True(t, opts.FastHash)
		assert.Equal(t, DefaultOptions().MaxLikesPerPost, opts.MaxLikesPerPost)
	})

	t.Run("rejects too many admins", func(t *testing.T) {
		path := filepath.Join(dir, "admins.yml")
		require.NoError(t, os.WriteFile(path, []byte("users: 1\nadmins: 2\n"), 0o600))

		_, err := LoadPlan(path)
		assert.ErrorContains(t, err, "admins")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yml")
		require.NoError(t, os.WriteFile(path, []byte("users: [\n"), 0o600))

		_, err := LoadPlan(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPlan(filepath.Join(dir, "nope.yml"))
		assert.Error(t, err)
	})
}
