package service

import (
	"context"
	"testing"

	"tactac/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_CreatePostCreditsAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.user(t, "alice")

	env.post(t, alice, "one")
	env.post(t, alice, "two")

	assert.Equal(t, 2, env.reloadUser(t, alice.ID).PostCount)
	env.assertCountersDerived(t)
}

func TestCounters_LikeAndUnlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _ := env.user(t, "alice")
	bob, _ := env.user(t, "bob")
	post := env.post(t, alice, "sunset")

	count, err := env.counters.Like(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, env.reloadUser(t, alice.ID).TotalLikesReceived)

	_, err = env.counters.Like(ctx, bob.ID, post.ID)
	assert.True(t, models.HasCode(err, models.CodeDuplicateLike), "got %v", err)
	assert.Equal(t, 1, env.reloadPost(t, post.ID).LikeCount)

	// Authors may like their own posts.
	count, err = env.counters.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	env.assertCountersDerived(t)

	count, err = env.counters.Unlike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = env.counters.Unlike(ctx, bob.ID, post.ID)
	assert.True(t, models.HasCode(err, models.CodeLikeNotFound), "got %v", err)
	env.assertCountersDerived(t)
}

func TestCounters_LikeMissingPost(t *testing.T) {
	env := newTestEnv(t)
	bob, _ := env.user(t, "bob")

	_, err := env.counters.Like(context.Background(), bob.ID, 999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestCounters_DeletePostCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _ := env.user(t, "alice")
	bob, _ := env.user(t, "bob")
	carol, _ := env.user(t, "carol")
	doomed := env.post(t, alice, "doomed")
	kept := env.post(t, alice, "kept")

	env.like(t, bob, doomed)
	env.like(t, carol, doomed)
	env.like(t, bob, kept)
	env.comment(t, bob, doomed, "nice")
	env.comment(t, carol, doomed, "wow")

	deleted, err := env.counters.DeletePost(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, doomed.Image, deleted.Image)

	stored := env.reloadPost(t, doomed.ID)
	assert.True(t, stored.IsDeleted)

	var likes, liveComments, allComments int64
	require.NoError(t, env.db.Model(&models.Like{}).Where("post_id = ?", doomed.ID).Count(&likes).Error)
	require.NoError(t, env.db.Model(&models.Comment{}).Where("post_id = ? AND is_deleted = ?", doomed.ID, false).Count(&liveComments).Error)
	require.NoError(t, env.db.Model(&models.Comment{}).Where("post_id = ?", doomed.ID).Count(&allComments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, liveComments)
	assert.Equal(t, int64(2), allComments, "comments are soft-deleted")

	author := env.reloadUser(t, alice.ID)
	assert.Equal(t, 1, author.PostCount)
	assert.Equal(t, 3, author.TotalLikesReceived, "lifetime tally keeps likes of deleted posts")
	env.assertCountersDerivedAfterPostDeletion(t)

	_, err = env.counters.DeletePost(ctx, doomed.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	_, err = env.counters.Like(ctx, carol.ID, doomed.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestCounters_CommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _ := env.user(t, "alice")
	bob, _ := env.user(t, "bob")
	post := env.post(t, alice, "p")

	c := env.comment(t, bob, post, "first")
	env.comment(t, alice, post, "second")
	assert.Equal(t, 2, env.reloadPost(t, post.ID).CommentCount)

	deleted, err := env.counters.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.PostID)
	assert.Equal(t, 1, env.reloadPost(t, post.ID).CommentCount)

	_, err = env.counters.DeleteComment(ctx, c.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	env.assertCountersDerived(t)

	require.NoError(t, env.db.Model(&models.Post{}).Where("id = ?", post.ID).Update("is_deleted", true).Error)
	err = env.counters.CreateComment(ctx, &models.Comment{AuthorID: bob.ID, PostID: post.ID, Content: "late"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestCounters_DeleteUserRepairsOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _ := env.user(t, "alice")
	bob, _ := env.user(t, "bob")
	carol, _ := env.user(t, "carol")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", bob.ID).Update("profile_image", "mem://profile/bob.webp").Error)

	alicePost := env.post(t, alice, "alice-post")
	bobPost := env.post(t, bob, "bob-post")
	bobGone := env.post(t, bob, "bob-gone")
	carolPost := env.post(t, carol, "carol-post")

	// Bob's activity on other people's posts.
	env.like(t, bob, alicePost)
	env.like(t, bob, carolPost)
	env.comment(t, bob, alicePost, "from bob")
	env.comment(t, bob, alicePost, "again bob")
	removedComment := env.comment(t, bob, carolPost, "removed later")
	_, err := env.counters.DeleteComment(ctx, removedComment.ID)
	require.NoError(t, err)

	// Other people's activity on Bob's posts.
	env.like(t, alice, bobPost)
	env.like(t, carol, bobPost)
	env.comment(t, carol, bobPost, "from carol")

	// Unrelated activity that must survive.
	env.like(t, carol, alicePost)
	env.comment(t, carol, alicePost, "stays")

	_, err = env.counters.DeletePost(ctx, bobGone.ID)
	require.NoError(t, err)

	cascade, err := env.counters.DeleteUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, cascade.User.ID)
	assert.Equal(t, int64(2), cascade.Posts)
	assert.ElementsMatch(t, []string{"mem://profile/bob.webp", bobPost.Image}, cascade.Images)
	assert.NotContains(t, cascade.Images, bobGone.Image)

	var users int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", bob.ID).Count(&users).Error)
	assert.Zero(t, users)

	var leftovers int64
	require.NoError(t, env.db.Model(&models.Post{}).Where("author_id = ?", bob.ID).Count(&leftovers).Error)
	assert.Zero(t, leftovers)
	require.NoError(t, env.db.Model(&models.Comment{}).Where("author_id = ?", bob.ID).Count(&leftovers).Error)
	assert.Zero(t, leftovers)
	require.NoError(t, env.db.Model(&models.Like{}).Where("user_id = ?", bob.ID).Count(&leftovers).Error)
	assert.Zero(t, leftovers)

	ap := env.reloadPost(t, alicePost.ID)
	assert.Equal(t, 1, ap.LikeCount)
	assert.Equal(t, 1, ap.CommentCount)
	cp := env.reloadPost(t, carolPost.ID)
	assert.Equal(t, 0, cp.LikeCount)
	assert.Equal(t, 0, cp.CommentCount)

	assert.Equal(t, 1, env.reloadUser(t, alice.ID).TotalLikesReceived)
	assert.Equal(t, 0, env.reloadUser(t, carol.ID).TotalLikesReceived)
	env.assertCountersDerived(t)

	_, err = env.counters.DeleteUser(ctx, bob.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
