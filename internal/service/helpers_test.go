package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// imageStoreStub is a stub for ImageStore.
type imageStoreStub struct {
	mu       sync.Mutex
	storeFn  func(context.Context, ImageUpload, ImageVariant) (string, error)
	released []string
}

func (s *imageStoreStub) Store(ctx context.Context, in ImageUpload, variant ImageVariant) (string, error) {
	return s.storeFn(ctx, in, variant)
}

func (s *imageStoreStub) Release(_ context.Context, url string) {
	if url == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, url)
}

func newImageStoreStub() *imageStoreStub {
	n := 0
	return &imageStoreStub{
		storeFn: func(_ context.Context, _ ImageUpload, variant ImageVariant) (string, error) {
			n++
			return fmt.Sprintf("mem://%s/%d.webp", variant, n), nil
		},
	}
}

type testEnv struct {
	db       *gorm.DB
	store    repository.Store
	counters *Counters
	creds    *CredentialService
	images   *imageStoreStub
	limits   config.Limits
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenTestDB(t)
	store := repository.NewStore(db)
	return &testEnv{
		db:       db,
		store:    store,
		counters: NewCounters(store),
		creds:    NewCredentialService("test-secret-that-is-long-enough-123", time.Hour, bcrypt.MinCost),
		images:   newImageStoreStub(),
		limits:   config.DefaultLimits(),
	}
}

func (e *testEnv) posts() *PostService {
	return NewPostService(e.store, e.counters, e.images, e.limits)
}

func (e *testEnv) comments() *CommentService {
	return NewCommentService(e.store, e.counters, e.limits)
}

func (e *testEnv) users() *UserService {
	return NewUserService(e.store, e.counters, e.creds, e.images, e.limits)
}

func (e *testEnv) moderation() *ModerationService {
	return NewModerationService(e.store, e.counters, e.images, e.limits)
}

// user creates an account with password "Password1".
func (e *testEnv) user(t *testing.T, name string, opts ...testutil.UserOption) (*models.User, *Caller) {
	t.Helper()
	opts = append([]testutil.UserOption{testutil.WithPassword("Password1")}, opts...)
	u := testutil.CreateUser(t, e.db, name, opts...)
	return u, CallerFor(u)
}

// post creates a post through the counter rules so that counters stay consistent.
func (e *testEnv) post(t *testing.T, author *models.User, caption string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Image: "mem://post/" + caption + ".webp", Caption: caption}
	require.NoError(t, e.counters.CreatePost(context.Background(), p))
	return p
}

func (e *testEnv) comment(t *testing.T, author *models.User, post *models.Post, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{AuthorID: author.ID, PostID: post.ID, Content: content}
	require.NoError(t, e.counters.CreateComment(context.Background(), c))
	return c
}

func (e *testEnv) like(t *testing.T, u *models.User, p *models.Post) {
	t.Helper()
	_, err := e.counters.Like(context.Background(), u.ID, p.ID)
	require.NoError(t, err)
}

func (e *testEnv) reloadUser(t *testing.T, id uint) *models.User {
	return testutil.Reload[models.User](t, e.db, id)
}

func (e *testEnv) reloadPost(t *testing.T, id uint) *models.Post {
	return testutil.Reload[models.Post](t, e.db, id)
}

// assertCountersDerived checks every stored counter against the rows it summarizes.
func (e *testEnv) assertCountersDerived(t *testing.T) {
	t.Helper()
	e.checkCounters(t, true)
}

// assertCountersDerivedAfterPostDeletion skips totalLikesReceived, which keeps
// the likes of deleted posts.
func (e *testEnv) assertCountersDerivedAfterPostDeletion(t *testing.T) {
	t.Helper()
	e.checkCounters(t, false)
}

func (e *testEnv) checkCounters(t *testing.T, likesReceived bool) {
	t.Helper()

	var users []models.User
	require.NoError(t, e.db.Find(&users).Error)
	for _, u := range users {
		var posts, likes int64
		require.NoError(t, e.db.Model(&models.Post{}).Where("author_id = ? AND is_deleted = ?", u.ID, false).Count(&posts).Error)
		require.NoError(t, e.db.Model(&models.Like{}).
			Joins("JOIN posts ON posts.id = likes.post_id").
			Where("posts.author_id = ?", u.ID).Count(&likes).Error)
		require.Equal(t, int(posts), u.PostCount, "postCount of %s", u.Username)
		if likesReceived {
			require.Equal(t, int(likes), u.TotalLikesReceived, "totalLikesReceived of %s", u.Username)
		}
	}

	var posts []models.Post
	require.NoError(t, e.db.Where("is_deleted = ?", false).Find(&posts).Error)
	for _, p := range posts {
		var likes, comments int64
		require.NoError(t, e.db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
		require.NoError(t, e.db.Model(&models.Comment{}).Where("post_id = ? AND is_deleted = ?", p.ID, false).Count(&comments).Error)
		require.Equal(t, int(likes), p.LikeCount, "likeCount of post %d", p.ID)
		require.Equal(t, int(comments), p.CommentCount, "commentCount of post %d", p.ID)
	}
}
