package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Tags is a list of topic tags stored as a JSON array in a text column so
// the model works identically on postgres and the sqlite test driver.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type for tags: %T", value)
	}
}

// Post represents a forum post. Author fields are denormalized snapshots
// taken at creation time; they are only refreshed by the profile sync
// fan-out, not by ordinary profile reads.
type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"not null" json:"content"`
	Excerpt  string `json:"excerpt"`
	Category string `gorm:"not null;index" json:"category"`
	Tags     Tags   `gorm:"type:text" json:"tags"`

	Visibility string `gorm:"not null;default:public" json:"visibility"`

	AuthorID     uint   `gorm:"not null;index" json:"author_id"`
	AuthorName   string `gorm:"not null" json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	AuthorBadge  string `json:"author_badge"`
	AuthorRole   string `json:"author_role"`

	// Computed by the repository from the votes/likes/comments tables;
	// never written back.
	UpvotesCount   int64  `gorm:"->;-:migration" json:"upvotes_count"`
	DownvotesCount int64  `gorm:"->;-:migration" json:"downvotes_count"`
	LikesCount     int64  `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount  int64  `gorm:"->;-:migration" json:"comments_count"`
	MyVote         string `gorm:"->;-:migration" json:"my_vote,omitempty"`
	Liked          bool   `gorm:"->;-:migration" json:"liked"`
}
