// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tactac/internal/middleware"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options describe the size and shape of a seeded dataset. They can be read
// from a YAML plan file.
type Options struct {
	Users              int    `yaml:"users"`
	PostsPerUser       int    `yaml:"posts_per_user"`
	MaxLikesPerPost    int    `yaml:"max_likes_per_post"`
	MaxCommentsPerPost int    `yaml:"max_comments_per_post"`
	MaxDays            int    `yaml:"max_days"`
	Admins             int    `yaml:"admins"`
	Password           string `yaml:"password"`
	// FastHash digests passwords at bcrypt's minimum cost.
	FastHash bool  `yaml:"fast_hash"`
	Clean    bool  `yaml:"clean"`
	Seed     int64 `yaml:"seed"`
}

// DefaultOptions is a small dataset suitable for local development.
func DefaultOptions() Options {
	return Options{
		Users:              20,
		PostsPerUser:       3,
		MaxLikesPerPost:    8,
		MaxCommentsPerPost: 4,
		MaxDays:            14,
		Admins:             1,
		Password:           "password123",
		Clean:              true,
	}
}

// LoadPlan reads a YAML plan on top of DefaultOptions.
func LoadPlan(path string) (Options, error) {
	opts := DefaultOptions()
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read seed plan: %w", err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("parse seed plan %s: %w", path, err)
	}
	return opts, opts.validate()
}

func (o Options) validate() error {
	switch {
	case o.Users < 0, o.PostsPerUser < 0, o.MaxLikesPerPost < 0, o.MaxCommentsPerPost < 0:
		return fmt.Errorf("seed plan counts must not be negative")
	case o.Admins > o.Users:
		return fmt.Errorf("seed plan asks for %d admins but only %d users", o.Admins, o.Users)
	case len(o.Password) < 8:
		return fmt.Errorf("seed plan password must be at least 8 characters")
	}
	return nil
}

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
}

// Seeder writes fake data through the same counter-maintaining paths the API uses.
type Seeder struct {
	db       *gorm.DB
	store    repository.Store
	counters *service.Counters
	factory  *Factory
	opts     Options
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	store := repository.NewStore(db)
	return &Seeder{
		db:       db,
		store:    store,
		counters: service.NewCounters(store),
		factory:  NewFactory(opts.Seed, opts.MaxDays),
		opts:     opts,
	}
}

// Run optionally clears the database and then seeds users, posts, likes and comments.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if err := s.opts.validate(); err != nil {
		return nil, err
	}
	if s.opts.Clean {
		if err := ClearAll(s.db); err != nil {
			return nil, fmt.Errorf("clear database: %w", err)
		}
	}

	summary := &Summary{}
	users, err := s.seedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	summary.Users = len(users)

	for _, author := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			post := s.factory.BuildPost(author)
			if err := s.counters.CreatePost(ctx, post); err != nil {
				return nil, fmt.Errorf("seed post: %w", err)
			}
			summary.Posts++

			likers := s.factory.Pick(users, s.factory.Intn(s.opts.MaxLikesPerPost), author.ID)
			for _, liker := range likers {
				if _, err := s.counters.Like(ctx, liker.ID, post.ID); err != nil {
					return nil, fmt.Errorf("seed like: %w", err)
				}
				summary.Likes++
			}

			commenters := s.factory.Pick(users, s.factory.Intn(s.opts.MaxCommentsPerPost), 0)
			for _, commenter := range commenters {
				if err := s.counters.CreateComment(ctx, s.factory.BuildComment(commenter, post)); err != nil {
					return nil, fmt.Errorf("seed comment: %w", err)
				}
				summary.Comments++
			}
		}
	}

	middleware.Logger.Info("seeding complete",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("likes", summary.Likes),
		slog.Int("comments", summary.Comments),
	)
	return summary, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]*models.User, error) {
	cost := bcrypt.DefaultCost
	if s.opts.FastHash {
		cost = bcrypt.MinCost
	}
	// Every seeded account shares one password, so one digest serves them all.
	digest, err := bcrypt.GenerateFromPassword([]byte(s.opts.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user := s.factory.BuildUser(i+1, string(digest))
		if i < s.opts.Admins {
			user.Role = models.RoleAdmin
		}
		if err := s.store.Users().Create(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// ClearAll removes every row from the domain tables, children first.
func ClearAll(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Like{}, &models.Comment{}, &models.Post{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
