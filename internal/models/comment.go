package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post, or a reply to another comment
// when ParentCommentID is set. Author fields are snapshots like on Post,
// with one deliberate difference: the profile sync fan-out does not touch
// them, so old comments keep the name their author had when they wrote.
type Comment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PostID  uint   `gorm:"not null;index" json:"post_id"`
	Content string `gorm:"not null" json:"content"`

	AuthorID     uint   `gorm:"not null;index" json:"author_id"`
	AuthorName   string `gorm:"not null" json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	AuthorBadge  string `json:"author_badge"`

	ParentCommentID *uint  `gorm:"index" json:"parent_comment_id,omitempty"`
	ReplyToName     string `json:"reply_to_name,omitempty"`

	ReportsCount int64 `gorm:"->;-:migration" json:"reports_count,omitempty"`
}
