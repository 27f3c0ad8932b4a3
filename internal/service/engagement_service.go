package service

import (
	"context"

	"techhive/internal/models"
	"techhive/internal/observability"
	"techhive/internal/repository"
)

// EngagementService owns the vote and like ledger on posts. Votes are
// mutually exclusive per (user, post): casting the opposite direction
// moves the vote, casting the same direction again is a no-op. There is
// no way to remove a vote. Likes are an independent toggle.
type EngagementService struct {
	postRepo repository.PostRepository
}

type VoteInput struct {
	PostID    uint
	UserID    uint
	Direction string
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(postRepo repository.PostRepository) *EngagementService {
	return &EngagementService{postRepo: postRepo}
}

// Vote records the user's vote and returns the post with fresh counts.
func (s *EngagementService) Vote(ctx context.Context, in VoteInput) (*models.Post, error) {
	if !models.ValidVoteDirection(in.Direction) {
		observability.RecordEngagementEvent("vote", "rejected")
		return nil, models.NewValidationError("Vote type must be upvote or downvote")
	}

	// Confirm the post exists before touching the ledger so a vote on a
	// missing post reads as NotFound, not a dangling vote row.
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	if err := s.postRepo.CastVote(ctx, in.UserID, in.PostID, in.Direction); err != nil {
		observability.RecordEngagementEvent("vote", "error")
		return nil, models.NewInternalError(err)
	}
	observability.RecordEngagementEvent("vote", "ok")

	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

// ToggleLike flips the user's like on the post and returns the post
// with fresh counts.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		observability.RecordEngagementEvent("like", "error")
		return nil, models.NewInternalError(err)
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		observability.RecordEngagementEvent("like", "error")
		return nil, models.NewInternalError(err)
	}
	observability.RecordEngagementEvent("like", "ok")

	return s.postRepo.GetByID(ctx, postID, userID)
}
