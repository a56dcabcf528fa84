package repository

import (
	"context"
	"errors"
	"time"

	"tactac/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostOrder selects the sort of a post listing.
type PostOrder int

const (
	// OrderNewest sorts by creation time, newest first.
	OrderNewest PostOrder = iota
	// OrderMostLiked sorts by like count, then newest first.
	OrderMostLiked
)

// PostFilter narrows a post listing. Zero values match everything.
type PostFilter struct {
	AuthorID     uint
	CreatedSince time.Time
	MinLikes     int
	Order        PostOrder
	Limit        int
	Offset       int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, vis Visibility) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, vis Visibility) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, vis Visibility) ([]models.Post, error)
	Count(ctx context.Context, filter PostFilter, vis Visibility) (int64, error)
	UpdateCaption(ctx context.Context, id uint, caption string) error
	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, ids []uint) (int64, error)
	AdjustLikeCount(ctx context.Context, id uint, delta int) error
	AdjustCommentCount(ctx context.Context, id uint, delta int) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, vis Visibility) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Scopes(vis.scope("posts")).
		Preload("Author").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (filter PostFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Model(&models.Post{})
	if filter.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", filter.AuthorID)
	}
	if !filter.CreatedSince.IsZero() {
		db = db.Where("posts.created_at >= ?", filter.CreatedSince)
	}
	if filter.MinLikes > 0 {
		db = db.Where("posts.like_count >= ?", filter.MinLikes)
	}
	return db
}

// List returns one page of posts with their authors and the total match count.
// Ties are broken by id so that pages stay disjoint on a stable dataset.
func (r *postRepository) List(ctx context.Context, filter PostFilter, vis Visibility) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Scopes(filter.scope, vis.scope("posts")).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order := "posts.created_at DESC, posts.id DESC"
	if filter.Order == OrderMostLiked {
		order = "posts.like_count DESC, posts.created_at DESC, posts.id DESC"
	}

	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Scopes(filter.scope, vis.scope("posts")).
		Preload("Author").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, vis Visibility) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Scopes(vis.scope("posts")).
		Where("posts.author_id = ?", authorID).
		Order("posts.id ASC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter, vis Visibility) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Scopes(filter.scope, vis.scope("posts")).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *postRepository) UpdateCaption(ctx context.Context, id uint, caption string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("caption", caption)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

func (r *postRepository) HardDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Post{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *postRepository) AdjustLikeCount(ctx context.Context, id uint, delta int) error {
	return adjustCounter(r.db.WithContext(ctx), &models.Post{}, id, "like_count", delta)
}

func (r *postRepository) AdjustCommentCount(ctx context.Context, id uint, delta int) error {
	return adjustCounter(r.db.WithContext(ctx), &models.Post{}, id, "comment_count", delta)
}
