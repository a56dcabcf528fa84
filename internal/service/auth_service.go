package service

import (
	"context"
	"strings"

	"tactac/internal/cache"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/validation"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
}

// LoginInput is the login payload. Identifier is an email address or a username.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	store repository.Store
	creds Credentials
}

func NewAuthService(store repository.Store, creds Credentials) *AuthService {
	return &AuthService{store: store, creds: creds}
}

// Register creates an active user account and signs them in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	if err := ensureAvailable(ctx, s.store.Users(), 0, in.Username, in.Email); err != nil {
		return nil, err
	}

	digest, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: digest,
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	// The unique indexes still decide a race between two identical signups.
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.AdminMetricsKey)

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// ensureAvailable reports a Conflict when username or email belongs to a user other than selfID.
func ensureAvailable(ctx context.Context, users repository.UserRepository, selfID uint, username, email string) error {
	if email != "" {
		existing, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewConflictError("Email already in use")
		}
	}
	if username != "" {
		existing, err := users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewConflictError("Username already taken")
		}
	}
	return nil
}

// Login verifies the credentials. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByLogin(ctx, in.Identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.creds.Verify(in.Password, user.Password) {
		return nil, models.NewInvalidCredentialsError()
	}
	if !user.IsActive() {
		return nil, models.NewAccountBlockedError(user.Status)
	}

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Identify(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, models.NewAccountBlockedError(user.Status)
	}
	return user, nil
}

// Identify resolves a bearer token to its user regardless of account status.
func (s *AuthService) Identify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	userID, err := s.creds.ParseToken(token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, err
	}
	return user, nil
}
