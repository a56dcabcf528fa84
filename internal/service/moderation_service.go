package service

import (
	"context"
	"strings"
	"time"

	"tactac/internal/cache"
	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/observability"
	"tactac/internal/repository"
)

// AdminMetrics is the dashboard summary. Posts and comments count live rows only.
type AdminMetrics struct {
	Users struct {
		Total      int64 `json:"total"`
		Active     int64 `json:"active"`
		Suspended  int64 `json:"suspended"`
		NewLast24h int64 `json:"newLast24h"`
	} `json:"users"`
	Posts struct {
		Total      int64 `json:"total"`
		NewLast24h int64 `json:"newLast24h"`
	} `json:"posts"`
	Comments struct {
		Total int64 `json:"total"`
	} `json:"comments"`
	Likes struct {
		Total int64 `json:"total"`
	} `json:"likes"`
}

// UserQuery filters the admin user listing.
type UserQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []models.OwnProfile `json:"users"`
	Pagination models.Pagination   `json:"pagination"`
}

// UserStats are a user's live activity totals.
type UserStats struct {
	Posts      int64 `json:"posts"`
	Comments   int64 `json:"comments"`
	LikesGiven int64 `json:"likesGiven"`
}

// AdminUserDetail aggregates a user and their activity for admin views.
type AdminUserDetail struct {
	User  models.OwnProfile `json:"user"`
	Stats UserStats         `json:"stats"`
}

// UpdateUserInput changes a user's status and/or role.
type UpdateUserInput struct {
	Status *string `json:"status"`
	Role   *string `json:"role"`
}

// ModerationService provides admin moderation and reporting logic.
type ModerationService struct {
	store    repository.Store
	counters *Counters
	images   ImageStore
	limits   config.Limits
	now      func() time.Time
}

// NewModerationService returns a new ModerationService.
func NewModerationService(store repository.Store, counters *Counters, images ImageStore, limits config.Limits) *ModerationService {
	return &ModerationService{
		store:    store,
		counters: counters,
		images:   images,
		limits:   limits,
		now:      defaultNow,
	}
}

func requireAdmin(caller *Caller) error {
	return Authorize(caller, 0, AdminOnly, "Admin access required")
}

// Metrics returns the dashboard summary, cached briefly in Redis.
func (s *ModerationService) Metrics(ctx context.Context, caller *Caller) (*AdminMetrics, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var m AdminMetrics
	err := cache.Aside(ctx, cache.AdminMetricsKey, &m, s.limits.MetricsCacheTTL, func() error {
		return s.collectMetrics(ctx, &m)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ModerationService) collectMetrics(ctx context.Context, m *AdminMetrics) error {
	since := s.now().UTC().Add(-s.limits.NewAccountsWindow)
	users := s.store.Users()
	posts := s.store.Posts()

	var err error
	if m.Users.Total, err = users.Count(ctx, repository.UserCountFilter{}); err != nil {
		return err
	}
	if m.Users.Active, err = users.Count(ctx, repository.UserCountFilter{Status: models.StatusActive}); err != nil {
		return err
	}
	if m.Users.Suspended, err = users.Count(ctx, repository.UserCountFilter{Status: models.StatusSuspended}); err != nil {
		return err
	}
	if m.Users.NewLast24h, err = users.Count(ctx, repository.UserCountFilter{CreatedSince: since}); err != nil {
		return err
	}
	if m.Posts.Total, err = posts.Count(ctx, repository.PostFilter{}, repository.ExcludeDeleted); err != nil {
		return err
	}
	if m.Posts.NewLast24h, err = posts.Count(ctx, repository.PostFilter{CreatedSince: since}, repository.ExcludeDeleted); err != nil {
		return err
	}
	if m.Comments.Total, err = s.store.Comments().Count(ctx, repository.ExcludeDeleted); err != nil {
		return err
	}
	if m.Likes.Total, err = s.store.Likes().Count(ctx); err != nil {
		return err
	}
	return nil
}

// ListUsers pages through users, newest first. An unknown status filter is ignored.
func (s *ModerationService) ListUsers(ctx context.Context, caller *Caller, q UserQuery) (*UserPage, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	page, limit := s.limits.ClampPage(q.Page, q.Limit)
	filter := repository.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if status := models.UserStatus(strings.ToLower(q.Status)); status.Valid() {
		filter.Status = status
	}

	users, total, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.OwnProfile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Own())
	}
	return &UserPage{Users: out, Pagination: models.NewPagination(page, limit, total)}, nil
}

// GetUser returns a user's own profile with their activity totals.
func (s *ModerationService) GetUser(ctx context.Context, caller *Caller, userID uint) (*AdminUserDetail, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &AdminUserDetail{User: user.Own()}
	if detail.Stats.Posts, err = s.store.Posts().Count(ctx, repository.PostFilter{AuthorID: userID}, repository.ExcludeDeleted); err != nil {
		return nil, err
	}
	if detail.Stats.Comments, err = s.store.Comments().CountByAuthor(ctx, userID, repository.ExcludeDeleted); err != nil {
		return nil, err
	}
	if detail.Stats.LikesGiven, err = s.store.Likes().CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateUser changes another user's status and/or role.
func (s *ModerationService) UpdateUser(ctx context.Context, caller *Caller, userID uint, in UpdateUserInput) (*models.OwnProfile, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if in.Status == nil && in.Role == nil {
		return nil, models.NewValidationError("Provide a status or a role to update")
	}

	fields := map[string]interface{}{}
	var fieldErrs []models.FieldError
	if in.Status != nil {
		status := models.UserStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		if !status.Valid() {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "status", Message: "status must be one of: active, suspended, deactivated"})
		}
		fields["status"] = status
	}
	if in.Role != nil {
		role := models.UserRole(strings.ToLower(strings.TrimSpace(*in.Role)))
		if !role.Valid() {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "role", Message: "role must be one of: user, admin"})
		}
		fields["role"] = role
	}
	if len(fieldErrs) > 0 {
		return nil, models.NewFieldValidationError(fieldErrs[0].Message, fieldErrs)
	}
	if userID == caller.ID {
		return nil, models.NewForbiddenError("You cannot change your own role or status")
	}

	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.store.Users().UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.AdminMetricsKey)
	observability.Audit(ctx, observability.AuditEvent{
		ActorID:    caller.ID,
		Action:     "update_user",
		TargetType: "user",
		TargetID:   userID,
		Fields:     fields,
	})

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	own := user.Own()
	return &own, nil
}

// DeleteUser removes another user and everything they own.
func (s *ModerationService) DeleteUser(ctx context.Context, caller *Caller, userID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if userID == caller.ID {
		return models.NewSelfDeletionForbiddenError()
	}

	cascade, err := s.counters.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, url := range cascade.Images {
		s.images.Release(ctx, url)
	}
	cache.Invalidate(ctx, cache.AdminMetricsKey)
	observability.Audit(ctx, observability.AuditEvent{
		ActorID:    caller.ID,
		Action:     "delete_user",
		TargetType: "user",
		TargetID:   userID,
		Fields: map[string]interface{}{
			"username": cascade.User.Username,
			"posts":    cascade.Posts,
			"comments": cascade.Comments,
			"likes":    cascade.Likes,
		},
	})
	return nil
}

// DeletePost removes any live post.
func (s *ModerationService) DeletePost(ctx context.Context, caller *Caller, postID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	post, err := s.counters.DeletePost(ctx, postID)
	if err != nil {
		return err
	}
	s.images.Release(ctx, post.Image)
	cache.Invalidate(ctx, cache.AdminMetricsKey)
	observability.Audit(ctx, observability.AuditEvent{
		ActorID:    caller.ID,
		Action:     "delete_post",
		TargetType: "post",
		TargetID:   postID,
		Fields:     map[string]interface{}{"author_id": post.AuthorID},
	})
	return nil
}

// DeleteComment removes any live comment.
func (s *ModerationService) DeleteComment(ctx context.Context, caller *Caller, commentID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	comment, err := s.counters.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.AdminMetricsKey)
	observability.Audit(ctx, observability.AuditEvent{
		ActorID:    caller.ID,
		Action:     "delete_comment",
		TargetType: "comment",
		TargetID:   commentID,
		Fields:     map[string]interface{}{"author_id": comment.AuthorID, "post_id": comment.PostID},
	})
	return nil
}
