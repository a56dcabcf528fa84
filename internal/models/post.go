package models

import (
	"time"
)

// Post is one image with a caption, owned by exactly one user.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;index" json:"authorId"`
	Author       User      `gorm:"foreignKey:AuthorID" json:"author"`
	Image        string    `gorm:"not null" json:"image"`
	Caption      string    `gorm:"type:text;not null;default:''" json:"caption"`
	LikeCount    int       `gorm:"not null;default:0;index" json:"likeCount"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostView is a post as rendered for a specific caller.
type PostView struct {
	ID           uint          `json:"id"`
	Author       AuthorSummary `json:"author"`
	Image        string        `json:"image"`
	Caption      string        `json:"caption"`
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	IsOwner      bool          `json:"isOwner"`
	HasLiked     bool          `json:"hasLiked"`
}

// View renders p without caller-relative flags.
func (p *Post) View() PostView {
	return PostView{
		ID:           p.ID,
		Author:       p.Author.Summary(),
		Image:        p.Image,
		Caption:      p.Caption,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
