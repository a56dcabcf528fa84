package service

import (
	"context"
	"log/slog"

	"tactac/internal/cache"
	"tactac/internal/middleware"
	"tactac/internal/models"
	"tactac/internal/observability"
	"tactac/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Counters applies every mutation that moves a denormalized counter. Each method
// is one transaction: the entity change and its counter adjustments commit together.
type Counters struct {
	store repository.Store
}

func NewCounters(store repository.Store) *Counters {
	return &Counters{store: store}
}

// UserCascade reports what a user deletion removed.
type UserCascade struct {
	User     *models.User
	Posts    int64
	Comments int64
	Likes    int64
	// Images are the stored objects the deleted rows referenced.
	Images []string
}

func (c *Counters) run(ctx context.Context, name string, attrs []attribute.KeyValue, fn func(ctx context.Context, tx repository.Store) error) error {
	span, ctx := observability.NewSpan(ctx, "counters."+name, attrs...)
	defer span.End()

	err := c.store.Transaction(ctx, func(tx repository.Store) error {
		return fn(ctx, tx)
	})
	span.SetError(err)
	if err == nil {
		cache.Invalidate(ctx, cache.AdminMetricsKey)
	}
	return err
}

// CreatePost inserts post and credits its author.
func (c *Counters) CreatePost(ctx context.Context, post *models.Post) error {
	err := c.run(ctx, "create_post", []attribute.KeyValue{attribute.Int64("user.id", int64(post.AuthorID))},
		func(ctx context.Context, tx repository.Store) error {
			if err := tx.Posts().Create(ctx, post); err != nil {
				return err
			}
			return tx.Users().AdjustPostCount(ctx, post.AuthorID, 1)
		})
	if err == nil {
		observability.PostsTotal.WithLabelValues("create").Inc()
	}
	return err
}

// DeletePost soft-deletes a live post with its comments, drops its likes and
// uncredits its author. The author's lifetime like tally is left alone.
func (c *Counters) DeletePost(ctx context.Context, postID uint) (*models.Post, error) {
	var (
		post            *models.Post
		likes, comments int64
	)
	err := c.run(ctx, "delete_post", []attribute.KeyValue{attribute.Int64("post.id", int64(postID))},
		func(ctx context.Context, tx repository.Store) error {
			var err error
			if post, err = tx.Posts().GetByID(ctx, postID, repository.ExcludeDeleted); err != nil {
				return err
			}
			if likes, err = tx.Likes().DeleteByPosts(ctx, []uint{postID}); err != nil {
				return err
			}
			if comments, err = tx.Comments().SoftDeleteByPost(ctx, postID); err != nil {
				return err
			}
			if err := tx.Posts().SoftDelete(ctx, postID); err != nil {
				return err
			}
			return tx.Users().AdjustPostCount(ctx, post.AuthorID, -1)
		})
	if err != nil {
		return nil, err
	}

	observability.PostsTotal.WithLabelValues("delete").Inc()
	observability.RecordCascade("like", likes)
	observability.RecordCascade("comment", comments)
	middleware.Logger.InfoContext(ctx, "post deleted",
		slog.Uint64("post_id", uint64(postID)),
		slog.Int64("likes_removed", likes),
		slog.Int64("comments_removed", comments),
	)
	return post, nil
}

// Like records userID's like of a live post and returns the new like count.
func (c *Counters) Like(ctx context.Context, userID, postID uint) (int, error) {
	var likeCount int
	err := c.run(ctx, "like", []attribute.KeyValue{
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	}, func(ctx context.Context, tx repository.Store) error {
		post, err := tx.Posts().GetByID(ctx, postID, repository.ExcludeDeleted)
		if err != nil {
			return err
		}
		inserted, err := tx.Likes().Insert(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !inserted {
			return models.NewDuplicateLikeError()
		}
		if err := tx.Posts().AdjustLikeCount(ctx, postID, 1); err != nil {
			return err
		}
		if err := tx.Users().AdjustLikesReceived(ctx, post.AuthorID, 1); err != nil {
			return err
		}
		likeCount, err = currentLikeCount(ctx, tx, postID)
		return err
	})
	if err != nil {
		return 0, err
	}
	observability.LikesTotal.WithLabelValues("like").Inc()
	return likeCount, nil
}

// Unlike removes userID's like of a live post and returns the new like count.
func (c *Counters) Unlike(ctx context.Context, userID, postID uint) (int, error) {
	var likeCount int
	err := c.run(ctx, "unlike", []attribute.KeyValue{
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	}, func(ctx context.Context, tx repository.Store) error {
		post, err := tx.Posts().GetByID(ctx, postID, repository.ExcludeDeleted)
		if err != nil {
			return err
		}
		removed, err := tx.Likes().Delete(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewLikeNotFoundError()
		}
		if err := tx.Posts().AdjustLikeCount(ctx, postID, -1); err != nil {
			return err
		}
		if err := tx.Users().AdjustLikesReceived(ctx, post.AuthorID, -1); err != nil {
			return err
		}
		likeCount, err = currentLikeCount(ctx, tx, postID)
		return err
	})
	if err != nil {
		return 0, err
	}
	observability.LikesTotal.WithLabelValues("unlike").Inc()
	return likeCount, nil
}

func currentLikeCount(ctx context.Context, tx repository.Store, postID uint) (int, error) {
	post, err := tx.Posts().GetByID(ctx, postID, repository.IncludeDeleted)
	if err != nil {
		return 0, err
	}
	return post.LikeCount, nil
}

// CreateComment inserts comment on a live post and bumps the post's comment count.
func (c *Counters) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := c.run(ctx, "create_comment", []attribute.KeyValue{attribute.Int64("post.id", int64(comment.PostID))},
		func(ctx context.Context, tx repository.Store) error {
			if _, err := tx.Posts().GetByID(ctx, comment.PostID, repository.ExcludeDeleted); err != nil {
				return err
			}
			if err := tx.Comments().Create(ctx, comment); err != nil {
				return err
			}
			return tx.Posts().AdjustCommentCount(ctx, comment.PostID, 1)
		})
	if err == nil {
		observability.CommentsTotal.WithLabelValues("create").Inc()
	}
	return err
}

// DeleteComment soft-deletes a live comment and decrements its post's comment count.
func (c *Counters) DeleteComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	var comment *models.Comment
	err := c.run(ctx, "delete_comment", []attribute.KeyValue{attribute.Int64("comment.id", int64(commentID))},
		func(ctx context.Context, tx repository.Store) error {
			var err error
			if comment, err = tx.Comments().GetByID(ctx, commentID, repository.ExcludeDeleted); err != nil {
				return err
			}
			if err := tx.Comments().SoftDelete(ctx, commentID); err != nil {
				return err
			}
			return tx.Posts().AdjustCommentCount(ctx, comment.PostID, -1)
		})
	if err != nil {
		return nil, err
	}
	observability.CommentsTotal.WithLabelValues("delete").Inc()
	return comment, nil
}

// DeleteUser removes a user together with everything they authored or liked,
// repairing the counters of other users' posts. Statement order follows the
// foreign keys: dependents of the user's posts, the posts, the user's remaining
// comments and likes, then the user row.
func (c *Counters) DeleteUser(ctx context.Context, userID uint) (*UserCascade, error) {
	out := &UserCascade{}
	err := c.run(ctx, "delete_user", []attribute.KeyValue{attribute.Int64("user.id", int64(userID))},
		func(ctx context.Context, tx repository.Store) error {
			user, err := tx.Users().GetByID(ctx, userID)
			if err != nil {
				return err
			}
			out.User = user
			if user.ProfileImage != "" {
				out.Images = append(out.Images, user.ProfileImage)
			}

			posts, err := tx.Posts().ListByAuthor(ctx, userID, repository.IncludeDeleted)
			if err != nil {
				return err
			}
			postIDs := make([]uint, 0, len(posts))
			for _, p := range posts {
				postIDs = append(postIDs, p.ID)
				// Deleted posts released their image already.
				if !p.IsDeleted {
					out.Images = append(out.Images, p.Image)
				}
			}

			likesOnPosts, err := tx.Likes().DeleteByPosts(ctx, postIDs)
			if err != nil {
				return err
			}
			commentsOnPosts, err := tx.Comments().HardDeleteByPosts(ctx, postIDs)
			if err != nil {
				return err
			}
			if out.Posts, err = tx.Posts().HardDelete(ctx, postIDs); err != nil {
				return err
			}

			tallies, err := tx.Comments().TallyLiveByAuthor(ctx, userID)
			if err != nil {
				return err
			}
			for _, t := range tallies {
				if err := tx.Posts().AdjustCommentCount(ctx, t.PostID, -t.Count); err != nil {
					return err
				}
			}
			ownComments, err := tx.Comments().HardDeleteByAuthor(ctx, userID)
			if err != nil {
				return err
			}

			targets, err := tx.Likes().TargetsByUser(ctx, userID)
			if err != nil {
				return err
			}
			for _, t := range targets {
				if err := tx.Posts().AdjustLikeCount(ctx, t.PostID, -1); err != nil {
					return err
				}
				if err := tx.Users().AdjustLikesReceived(ctx, t.AuthorID, -1); err != nil {
					return err
				}
			}
			ownLikes, err := tx.Likes().DeleteByUser(ctx, userID)
			if err != nil {
				return err
			}

			out.Comments = commentsOnPosts + ownComments
			out.Likes = likesOnPosts + ownLikes
			return tx.Users().Delete(ctx, userID)
		})
	if err != nil {
		return nil, err
	}

	observability.RecordCascade("post", out.Posts)
	observability.RecordCascade("comment", out.Comments)
	observability.RecordCascade("like", out.Likes)
	middleware.Logger.InfoContext(ctx, "user deleted",
		slog.Uint64("deleted_user_id", uint64(userID)),
		slog.Int64("posts_removed", out.Posts),
		slog.Int64("comments_removed", out.Comments),
		slog.Int64("likes_removed", out.Likes),
	)
	return out, nil
}
