package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"tactac/internal/models"

	"gorm.io/gorm"
)

// UserFilter narrows an admin user listing.
type UserFilter struct {
	// Search is a case-insensitive substring of username or email.
	Search string
	Status models.UserStatus
	Limit  int
	Offset int
}

// UserCountFilter narrows a user count. Zero values match everything.
type UserCountFilter struct {
	Status       models.UserStatus
	CreatedSince time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	AdjustPostCount(ctx context.Context, id uint, delta int) error
	AdjustLikesReceived(ctx context.Context, id uint, delta int) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Count(ctx context.Context, filter UserCountFilter) (int64, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername matches case-insensitively. A missing user yields (nil, nil).
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username_lower = ?", strings.ToLower(strings.TrimSpace(username)))
}

// GetByEmail matches case-insensitively. A missing user yields (nil, nil).
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByLogin resolves an email address or a username. A missing user yields (nil, nil).
func (r *userRepository) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	key := strings.ToLower(strings.TrimSpace(identifier))
	return r.findOne(ctx, "email = ? OR username_lower = ?", key, key)
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("Email or username already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateFields writes the given columns. A username change also rewrites its lookup key.
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if username, ok := fields["username"].(string); ok {
		fields["username_lower"] = strings.ToLower(username)
	}
	if email, ok := fields["email"].(string); ok {
		fields["email"] = strings.ToLower(strings.TrimSpace(email))
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return models.NewConflictError("Email or username already in use")
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

func (r *userRepository) AdjustPostCount(ctx context.Context, id uint, delta int) error {
	return adjustCounter(r.db.WithContext(ctx), &models.User{}, id, "post_count", delta)
}

func (r *userRepository) AdjustLikesReceived(ctx context.Context, id uint, delta int) error {
	return adjustCounter(r.db.WithContext(ctx), &models.User{}, id, "total_likes_received", delta)
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.User{})
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			like := "%" + search + "%"
			db = db.Where("username_lower LIKE ? OR email LIKE ?", like, like)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (r *userRepository) Count(ctx context.Context, filter UserCountFilter) (int64, error) {
	db := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if !filter.CreatedSince.IsZero() {
		db = db.Where("created_at >= ?", filter.CreatedSince)
	}

	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
