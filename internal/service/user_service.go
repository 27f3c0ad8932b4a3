package service

import (
	"context"
	"time"

	"techhive/internal/models"
	"techhive/internal/observability"
	"techhive/internal/repository"
	"techhive/internal/validation"
)

const maxBioLen = 500

// UserService handles user profile business logic, including the
// fan-out that keeps denormalized author snapshots on posts in step
// with the profile.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	Email  string
	Name   string
	Bio    string
	Avatar string
}

// ProfileSyncResult reports what a profile update touched.
type ProfileSyncResult struct {
	User         *models.User `json:"user"`
	PostsUpdated int64        `json:"posts_updated"`
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfileByEmail applies a partial profile update, then rewrites
// the author snapshot on every post the user owns. Comments keep the
// snapshot they were written with.
func (s *UserService) UpdateProfileByEmail(ctx context.Context, in UpdateProfileInput) (*ProfileSyncResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.Email)
	}

	if in.Name != "" {
		if err := validation.ValidateUsername(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	postsUpdated, err := s.postRepo.SyncAuthorSnapshots(ctx, user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ProfileFanoutPostsUpdated.Add(float64(postsUpdated))

	return &ProfileSyncResult{User: user, PostsUpdated: postsUpdated}, nil
}

// UpgradePremium flips the user onto the premium tier: role premium,
// badge gold, premium_since stamped on first upgrade. Admins keep their
// role but still pick up the badge and timestamp. Upgrading twice is a
// no-op beyond the first.
func (s *UserService) UpgradePremium(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleAdmin {
		user.Role = models.RolePremium
	}
	user.Badge = models.BadgeGold
	if user.PremiumSince == nil {
		now := time.Now()
		user.PremiumSince = &now
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// The new badge shows on the user's posts right away.
	postsUpdated, err := s.postRepo.SyncAuthorSnapshots(ctx, user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ProfileFanoutPostsUpdated.Add(float64(postsUpdated))

	return user, nil
}
