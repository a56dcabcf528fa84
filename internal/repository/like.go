package repository

import (
	"context"

	"tactac/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeTarget identifies a liked post and the author credited with the like.
type LikeTarget struct {
	PostID   uint
	AuthorID uint
}

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Insert(ctx context.Context, userID, postID uint) (bool, error)
	Delete(ctx context.Context, userID, postID uint) (bool, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	DeleteByPosts(ctx context.Context, postIDs []uint) (int64, error)
	TargetsByUser(ctx context.Context, userID uint) ([]LikeTarget, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Insert stores a like and reports whether a new row was written. The unique
// (user_id, post_id) index decides races: the loser inserts nothing.
func (r *likeRepository) Insert(ctx context.Context, userID, postID uint) (bool, error) {
	like := models.Like{UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return false, nil
		}
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the (user, post) like and reports whether one existed.
func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// LikedPostIDs returns the subset of postIDs the user has liked, in one query.
func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var liked []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return liked, nil
}

func (r *likeRepository) DeleteByPosts(ctx context.Context, postIDs []uint) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&models.Like{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

// TargetsByUser lists the user's likes on posts authored by someone else.
func (r *likeRepository) TargetsByUser(ctx context.Context, userID uint) ([]LikeTarget, error) {
	var targets []LikeTarget
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("likes.post_id AS post_id, posts.author_id AS author_id").
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("likes.user_id = ? AND posts.author_id <> ?", userID, userID).
		Order("likes.post_id ASC").
		Scan(&targets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return targets, nil
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Like{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *likeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
