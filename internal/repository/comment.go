package repository

import (
	"context"
	"errors"

	"tactac/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostTally is a per-post row count.
type PostTally struct {
	PostID uint
	Count  int
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, vis Visibility) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int, vis Visibility) ([]models.Comment, int64, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	SoftDelete(ctx context.Context, id uint) error
	SoftDeleteByPost(ctx context.Context, postID uint) (int64, error)
	HardDeleteByPosts(ctx context.Context, postIDs []uint) (int64, error)
	HardDeleteByAuthor(ctx context.Context, authorID uint) (int64, error)
	TallyLiveByAuthor(ctx context.Context, authorID uint) ([]PostTally, error)
	CountByAuthor(ctx context.Context, authorID uint, vis Visibility) (int64, error)
	Count(ctx context.Context, vis Visibility) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, vis Visibility) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Scopes(vis.scope("comments")).
		Preload("Author").
		Where("comments.id = ?", id).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment")
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int, vis Visibility) ([]models.Comment, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Comment{}).Where("comments.post_id = ?", postID)
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope, vis.scope("comments")).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Scopes(scope, vis.scope("comments")).
		Preload("Author").
		Order("comments.created_at DESC, comments.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

// UpdateContent replaces the text of a live comment and marks it edited.
func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"content": content, "is_edited": true})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment")
	}
	return nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment")
	}
	return nil
}

func (r *commentRepository) SoftDeleteByPost(ctx context.Context, postID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *commentRepository) HardDeleteByPosts(ctx context.Context, postIDs []uint) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&models.Comment{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *commentRepository) HardDeleteByAuthor(ctx context.Context, authorID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Comment{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

// TallyLiveByAuthor counts the author's live comments per live post. These are
// exactly the comments reflected in some post's comment count.
func (r *commentRepository) TallyLiveByAuthor(ctx context.Context, authorID uint) ([]PostTally, error) {
	var tallies []PostTally
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("comments.post_id AS post_id, COUNT(*) AS count").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.author_id = ? AND comments.is_deleted = ? AND posts.is_deleted = ?", authorID, false, false).
		Group("comments.post_id").
		Order("comments.post_id ASC").
		Scan(&tallies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tallies, nil
}

func (r *commentRepository) CountByAuthor(ctx context.Context, authorID uint, vis Visibility) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Scopes(vis.scope("comments")).
		Where("comments.author_id = ?", authorID).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *commentRepository) Count(ctx context.Context, vis Visibility) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Scopes(vis.scope("comments")).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
