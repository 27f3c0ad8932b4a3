package models

import "time"

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Vote records a user's single vote on a post. The composite unique index
// makes the (user, post) pair the identity of the row, so casting the
// opposite direction is an update, never a second row.
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    uint   `gorm:"not null;uniqueIndex:idx_vote_user_post" json:"user_id"`
	PostID    uint   `gorm:"not null;uniqueIndex:idx_vote_user_post;index" json:"post_id"`
	Direction string `gorm:"not null" json:"direction"`
}

// ValidVoteDirection reports whether d is a recognized vote direction.
func ValidVoteDirection(d string) bool {
	return d == VoteUp || d == VoteDown
}
