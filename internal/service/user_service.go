package service

import (
	"context"
	"strings"

	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/validation"
)

type UserService struct {
	store    repository.Store
	counters *Counters
	creds    Credentials
	images   ImageStore
	limits   config.Limits
}

// UpdateProfileInput carries the fields to change. Nil fields are left alone.
type UpdateProfileInput struct {
	Username *string
	Bio      *string
	Image    *ImageUpload
}

// ProfileResult is a profile rendered for its viewer: the own profile for the
// owner and for admins, the public profile for everyone else.
type ProfileResult struct {
	User    interface{} `json:"user"`
	IsOwner bool        `json:"isOwner"`
}

func NewUserService(store repository.Store, counters *Counters, creds Credentials, images ImageStore, limits config.Limits) *UserService {
	return &UserService{
		store:    store,
		counters: counters,
		creds:    creds,
		images:   images,
		limits:   limits,
	}
}

// GetProfile looks a user up by username (case-insensitive).
func (s *UserService) GetProfile(ctx context.Context, caller *Caller, username string) (*ProfileResult, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}

	switch Classify(caller, user.ID) {
	case Owner:
		return &ProfileResult{User: user.Own(), IsOwner: true}, nil
	case Admin:
		return &ProfileResult{User: user.Own()}, nil
	default:
		return &ProfileResult{User: user.Public()}, nil
	}
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, caller *Caller) (*models.OwnProfile, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	user, err := s.store.Users().GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	own := user.Own()
	return &own, nil
}

// UpdateProfile changes username, bio and profile image. A replaced image is
// released only after the new one is saved.
func (s *UserService) UpdateProfile(ctx context.Context, caller *Caller, in UpdateProfileInput) (*models.OwnProfile, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	user, err := s.store.Users().GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != user.Username {
			if err := validation.ValidateUsername(username); err != nil {
				return nil, models.NewFieldValidationError(err.Error(), []models.FieldError{{Field: "username", Message: err.Error()}})
			}
			if err := ensureAvailable(ctx, s.store.Users(), user.ID, username, ""); err != nil {
				return nil, err
			}
			fields["username"] = username
		}
	}
	if in.Bio != nil {
		bio, err := validation.CleanText("Bio", *in.Bio, s.limits.BioMaxLen)
		if err != nil {
			return nil, models.NewFieldValidationError(err.Error(), []models.FieldError{{Field: "bio", Message: err.Error()}})
		}
		fields["bio"] = bio
	}

	var newImage string
	if in.Image != nil && len(in.Image.Content) > 0 {
		if newImage, err = s.images.Store(ctx, *in.Image, VariantProfile); err != nil {
			return nil, err
		}
		fields["profile_image"] = newImage
	}

	if len(fields) > 0 {
		if err := s.store.Users().UpdateFields(ctx, user.ID, fields); err != nil {
			s.images.Release(ctx, newImage)
			return nil, err
		}
	}
	if newImage != "" && user.ProfileImage != "" {
		s.images.Release(ctx, user.ProfileImage)
	}

	return s.Me(ctx, caller)
}

func (s *UserService) checkPassword(ctx context.Context, caller *Caller, password string) (*models.User, error) {
	if caller == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	user, err := s.store.Users().GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if password == "" || !s.creds.Verify(password, user.Password) {
		return nil, models.NewUnauthorizedError("Current password is incorrect")
	}
	return user, nil
}

// UpdateEmail changes the caller's email after re-checking their password.
func (s *UserService) UpdateEmail(ctx context.Context, caller *Caller, email, currentPassword string) (*models.OwnProfile, error) {
	var in struct {
		Email string `json:"email" validate:"required,email,max=255"`
	}
	in.Email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	user, err := s.checkPassword(ctx, caller, currentPassword)
	if err != nil {
		return nil, err
	}
	if in.Email != user.Email {
		if err := ensureAvailable(ctx, s.store.Users(), user.ID, "", in.Email); err != nil {
			return nil, err
		}
		if err := s.store.Users().UpdateFields(ctx, user.ID, map[string]interface{}{"email": in.Email}); err != nil {
			return nil, err
		}
	}
	return s.Me(ctx, caller)
}

// UpdatePassword replaces the caller's password after re-checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, caller *Caller, currentPassword, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewFieldValidationError(err.Error(), []models.FieldError{{Field: "newPassword", Message: err.Error()}})
	}
	user, err := s.checkPassword(ctx, caller, currentPassword)
	if err != nil {
		return err
	}

	digest, err := s.creds.Hash(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.store.Users().UpdateFields(ctx, user.ID, map[string]interface{}{"password": digest})
}

// DeleteAccount removes the caller and everything they own after re-checking their password.
func (s *UserService) DeleteAccount(ctx context.Context, caller *Caller, password string) error {
	if _, err := s.checkPassword(ctx, caller, password); err != nil {
		return err
	}
	cascade, err := s.counters.DeleteUser(ctx, caller.ID)
	if err != nil {
		return err
	}
	for _, url := range cascade.Images {
		s.images.Release(ctx, url)
	}
	return nil
}
