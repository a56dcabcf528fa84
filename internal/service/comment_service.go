package service

import (
	"context"
	"strings"

	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/validation"
)

type CommentService struct {
	store    repository.Store
	counters *Counters
	limits   config.Limits
}

// CommentPage is one rendered page of a post's comments.
type CommentPage struct {
	Comments   []models.CommentView `json:"comments"`
	Pagination models.Pagination    `json:"pagination"`
}

func NewCommentService(store repository.Store, counters *Counters, limits config.Limits) *CommentService {
	return &CommentService{
		store:    store,
		counters: counters,
		limits:   limits,
	}
}

func (s *CommentService) cleanContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", models.NewValidationError("Comment content is required")
	}
	content, err := validation.CleanText("Comment", content, s.limits.CommentMaxLen)
	if err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return content, nil
}

// CreateComment adds the caller's comment to a live post.
func (s *CommentService) CreateComment(ctx context.Context, caller *Caller, postID uint, content string) (*models.CommentView, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	content, err := s.cleanContent(content)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{AuthorID: caller.ID, PostID: postID, Content: content}
	if err := s.counters.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.view(ctx, caller, comment.ID)
}

// ListComments returns one page of a live post's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, caller *Caller, postID uint, page, limit int) (*CommentPage, error) {
	if _, err := s.store.Posts().GetByID(ctx, postID, repository.ExcludeDeleted); err != nil {
		return nil, err
	}

	page, limit = s.limits.ClampPage(page, limit)
	comments, total, err := s.store.Comments().ListByPost(ctx, postID, limit, (page-1)*limit, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, comments[i].View(caller.UserID()))
	}
	return &CommentPage{
		Comments:   views,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// UpdateComment replaces the text of the caller's own comment. Admins get no bypass here.
func (s *CommentService) UpdateComment(ctx context.Context, caller *Caller, commentID uint, content string) (*models.CommentView, error) {
	comment, err := s.store.Comments().GetByID(ctx, commentID, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, comment.AuthorID, OwnerOnly, "You can only edit your own comments"); err != nil {
		return nil, err
	}

	content, err = s.cleanContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.store.Comments().UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.view(ctx, caller, commentID)
}

// DeleteComment removes the caller's comment, or any comment when the caller is an admin.
func (s *CommentService) DeleteComment(ctx context.Context, caller *Caller, commentID uint) error {
	comment, err := s.store.Comments().GetByID(ctx, commentID, repository.ExcludeDeleted)
	if err != nil {
		return err
	}
	if err := Authorize(caller, comment.AuthorID, OwnerOrAdmin, "You can only delete your own comments"); err != nil {
		return err
	}
	_, err = s.counters.DeleteComment(ctx, commentID)
	return err
}

func (s *CommentService) view(ctx context.Context, caller *Caller, commentID uint) (*models.CommentView, error) {
	comment, err := s.store.Comments().GetByID(ctx, commentID, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}
	v := comment.View(caller.UserID())
	return &v, nil
}
