package models

import "time"

// Like records that a user liked a post. One row per (user, post) pair;
// unliking deletes the row.
type Like struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
}
