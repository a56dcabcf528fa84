package service

import (
	"context"
	"time"

	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/validation"
)

type PostService struct {
	store    repository.Store
	counters *Counters
	images   ImageStore
	limits   config.Limits
	now      func() time.Time
}

// CreatePostInput is a new post with its uploaded image.
type CreatePostInput struct {
	Caption string
	Image   ImageUpload
}

// LikeState is a post's like count as seen by the caller after a like or unlike.
type LikeState struct {
	LikeCount int  `json:"likeCount"`
	HasLiked  bool `json:"hasLiked"`
}

func NewPostService(store repository.Store, counters *Counters, images ImageStore, limits config.Limits) *PostService {
	return &PostService{
		store:    store,
		counters: counters,
		images:   images,
		limits:   limits,
		now:      defaultNow,
	}
}

// GetPost returns a live post rendered for caller.
func (s *PostService) GetPost(ctx context.Context, caller *Caller, postID uint) (*models.PostView, error) {
	post, err := s.store.Posts().GetByID(ctx, postID, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}
	views, err := s.render(ctx, caller, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// CreatePost stores the image, then inserts the post. The image is released if the insert fails.
func (s *PostService) CreatePost(ctx context.Context, caller *Caller, in CreatePostInput) (*models.PostView, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	caption, err := validation.CleanText("Caption", in.Caption, s.limits.CaptionMaxLen)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(in.Image.Content) == 0 {
		return nil, models.NewValidationError("Image is required")
	}

	url, err := s.images.Store(ctx, in.Image, VariantPost)
	if err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: caller.ID, Image: url, Caption: caption}
	if err := s.counters.CreatePost(ctx, post); err != nil {
		s.images.Release(ctx, url)
		return nil, err
	}

	return s.GetPost(ctx, caller, post.ID)
}

// UpdateCaption changes the caption of the caller's own post. Admins get no bypass here.
func (s *PostService) UpdateCaption(ctx context.Context, caller *Caller, postID uint, caption string) (*models.PostView, error) {
	post, err := s.store.Posts().GetByID(ctx, postID, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, post.AuthorID, OwnerOnly, "You can only edit your own posts"); err != nil {
		return nil, err
	}

	caption, err = validation.CleanText("Caption", caption, s.limits.CaptionMaxLen)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.store.Posts().UpdateCaption(ctx, postID, caption); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, caller, postID)
}

// DeletePost removes a post owned by the caller, or any post when the caller is an admin.
func (s *PostService) DeletePost(ctx context.Context, caller *Caller, postID uint) error {
	post, err := s.store.Posts().GetByID(ctx, postID, repository.ExcludeDeleted)
	if err != nil {
		return err
	}
	if err := Authorize(caller, post.AuthorID, OwnerOrAdmin, "You can only delete your own posts"); err != nil {
		return err
	}

	deleted, err := s.counters.DeletePost(ctx, postID)
	if err != nil {
		return err
	}
	s.images.Release(ctx, deleted.Image)
	return nil
}

// Like adds the caller's like to a post.
func (s *PostService) Like(ctx context.Context, caller *Caller, postID uint) (*LikeState, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	count, err := s.counters.Like(ctx, caller.ID, postID)
	if err != nil {
		return nil, err
	}
	return &LikeState{LikeCount: count, HasLiked: true}, nil
}

// Unlike removes the caller's like from a post.
func (s *PostService) Unlike(ctx context.Context, caller *Caller, postID uint) (*LikeState, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	count, err := s.counters.Unlike(ctx, caller.ID, postID)
	if err != nil {
		return nil, err
	}
	return &LikeState{LikeCount: count, HasLiked: false}, nil
}
