// Package bootstrap wires the database and cache shared by the server and the
// operational commands.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tactac/internal/cache"
	"tactac/internal/config"
	"tactac/internal/database"
	"tactac/internal/middleware"
	"tactac/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultRootUsername = "tactac_root"
	defaultRootEmail    = "root@tactac.local"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the cache disabled, for commands that never read it.
	SkipRedis bool
}

// InitRuntime connects to DB and Redis and ensures the development root admin.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var r *redis.Client
	if !opts.SkipRedis {
		// May result in a nil client if unreachable.
		cache.InitRedis(cfg.RedisURL)
		r = cache.GetClient()
	}

	if err := EnsureDevRootAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	return db, r, nil
}

// EnsureDevRootAdmin creates or promotes the development root account when
// DEV_BOOTSTRAP_ROOT is enabled outside production. Existing credentials are
// never overwritten.
func EnsureDevRootAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if cfg.IsProduction() || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = defaultRootUsername
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = defaultRootEmail
	}
	if cfg.DevRootPassword == "" {
		return errors.New("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}

	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("username_lower = ?", strings.ToLower(username)).First(&root).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.DevRootPassword), cost)
			if err != nil {
				return fmt.Errorf("hash root password: %w", err)
			}
			root = models.User{
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				Role:     models.RoleAdmin,
				Status:   models.StatusActive,
			}
			created = true
			return tx.Create(&root).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&models.User{}).Where("id = ?", root.ID).Updates(map[string]any{
				"role":   models.RoleAdmin,
				"status": models.StatusActive,
			}).Error
		}
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("development root admin ensured",
		slog.String("username", username),
		slog.Bool("created", created),
	)
	return nil
}
