package models

import (
	"time"
)

// Comment is text attached to one post, authored by one user.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsEdited  bool      `gorm:"not null;default:false" json:"isEdited"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView is a comment as rendered for a specific caller.
type CommentView struct {
	ID        uint          `json:"id"`
	Author    AuthorSummary `json:"author"`
	Post      uint          `json:"post"`
	Content   string        `json:"content"`
	IsEdited  bool          `json:"isEdited"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	IsOwner   bool          `json:"isOwner"`
}

// View renders c for the caller identified by callerID (0 for anonymous).
func (c *Comment) View(callerID uint) CommentView {
	return CommentView{
		ID:        c.ID,
		Author:    c.Author.Summary(),
		Post:      c.PostID,
		Content:   c.Content,
		IsEdited:  c.IsEdited,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		IsOwner:   callerID != 0 && callerID == c.AuthorID,
	}
}
