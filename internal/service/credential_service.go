package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "tactac-api"
	tokenAudience = "tactac-client"
)

// Credentials hashes passwords and issues and verifies bearer tokens.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
	IssueToken(userID uint) (string, error)
	ParseToken(token string) (uint, error)
}

// CredentialService implements Credentials with bcrypt and HS256 JWTs.
type CredentialService struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewCredentialService builds the service. A non-positive cost falls back to bcrypt's default.
func NewCredentialService(secret string, ttl time.Duration, cost int) *CredentialService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CredentialService{
		secret: []byte(secret),
		ttl:    ttl,
		cost:   cost,
		now:    time.Now,
	}
}

func (s *CredentialService) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (s *CredentialService) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// IssueToken signs a token whose subject is the user id.
func (s *CredentialService) IssueToken(userID uint) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

var errInvalidToken = errors.New("invalid token")

// ParseToken validates signature, issuer, audience and time claims and returns the subject.
func (s *CredentialService) ParseToken(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return 0, errInvalidToken
	}
	return uint(userID), nil
}
