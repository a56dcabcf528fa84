// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Visibility states whether soft-deleted posts and comments take part in a read.
// Every post and comment read takes one explicitly; there is no implicit scope.
type Visibility int

const (
	// ExcludeDeleted hides soft-deleted rows. This is what user-facing reads use.
	ExcludeDeleted Visibility = iota
	// IncludeDeleted returns rows regardless of their deletion flag.
	IncludeDeleted
)

// scope returns a gorm scope applying v to table.
func (v Visibility) scope(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v == ExcludeDeleted {
			return db.Where(table+".is_deleted = ?", false)
		}
		return db
	}
}

// Store groups the repositories that share one database handle, so a service can
// run a unit of work against all of them inside one transaction.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Likes() LikeRepository
	// Transaction runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db       *gorm.DB
	users    UserRepository
	posts    PostRepository
	comments CommentRepository
	likes    LikeRepository
}

// NewStore creates a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:       db,
		users:    NewUserRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
		likes:    NewLikeRepository(db),
	}
}

func (s *gormStore) Users() UserRepository       { return s.users }
func (s *gormStore) Posts() PostRepository       { return s.posts }
func (s *gormStore) Comments() CommentRepository { return s.comments }
func (s *gormStore) Likes() LikeRepository       { return s.likes }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
