package service

import (
	"context"
	"testing"
	"time"

	"techhive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return &models.User{ID: 1}, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestUserService_UpdateProfileByEmail_NotFound(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return nil, nil }

	svc := NewUserService(userRepo, noopPostRepo())
	_, err := svc.UpdateProfileByEmail(context.Background(), UpdateProfileInput{Email: "ghost@example.com"})
	assertNotFoundError(t, err)
}

func TestUserService_UpdateProfileByEmail_FansOutToPosts(t *testing.T) {
	t.Parallel()

	stored := &models.User{ID: 4, Name: "old-name", Email: "ada@example.com", Avatar: "old.png"}
	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return stored, nil }

	var synced *models.User
	postRepo := noopPostRepo()
	postRepo.syncAuthorSnapshotsFn = func(_ context.Context, u *models.User) (int64, error) {
		synced = u
		return 3, nil
	}

	svc := NewUserService(userRepo, postRepo)
	result, err := svc.UpdateProfileByEmail(context.Background(), UpdateProfileInput{
		Email:  "ada@example.com",
		Name:   "new-name",
		Avatar: "new.png",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 3, result.PostsUpdated)
	require.NotNil(t, synced, "fan-out must run after the profile write")
	assert.Equal(t, "new-name", synced.Name)
	assert.Equal(t, "new.png", synced.Avatar)
}

func TestUserService_UpdateProfileByEmail_Validation(t *testing.T) {
	t.Parallel()

	stored := &models.User{ID: 4, Name: "keep", Email: "ada@example.com"}
	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return stored, nil }

	svc := NewUserService(userRepo, noopPostRepo())

	t.Run("bad username", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateProfileByEmail(context.Background(), UpdateProfileInput{
			Email: "ada@example.com",
			Name:  "-bad-",
		})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateProfileByEmail(context.Background(), UpdateProfileInput{
			Email: "ada@example.com",
			Bio:   string(make([]byte, 501)),
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpgradePremium(t *testing.T) {
	t.Parallel()

	t.Run("general user becomes premium with gold badge", func(t *testing.T) {
		t.Parallel()
		stored := &models.User{ID: 1, Role: models.RoleGeneral, Badge: models.BadgeBronze}
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }

		svc := NewUserService(userRepo, noopPostRepo())
		user, err := svc.UpgradePremium(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, models.RolePremium, user.Role)
		assert.Equal(t, models.BadgeGold, user.Badge)
		require.NotNil(t, user.PremiumSince)
	})

	t.Run("admin keeps admin role", func(t *testing.T) {
		t.Parallel()
		stored := &models.User{ID: 2, Role: models.RoleAdmin, Badge: models.BadgeBronze}
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }

		svc := NewUserService(userRepo, noopPostRepo())
		user, err := svc.UpgradePremium(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Equal(t, models.BadgeGold, user.Badge)
	})

	t.Run("premium_since set once", func(t *testing.T) {
		t.Parallel()
		since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		stored := &models.User{ID: 3, Role: models.RolePremium, Badge: models.BadgeGold, PremiumSince: &since}
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }

		svc := NewUserService(userRepo, noopPostRepo())
		user, err := svc.UpgradePremium(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, user.PremiumSince.Equal(since), "repeat upgrade must not move premium_since")
	})

	t.Run("badge change fans out to posts", func(t *testing.T) {
		t.Parallel()
		stored := &models.User{ID: 4, Role: models.RoleGeneral, Badge: models.BadgeBronze}
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }

		var synced *models.User
		postRepo := noopPostRepo()
		postRepo.syncAuthorSnapshotsFn = func(_ context.Context, u *models.User) (int64, error) {
			synced = u
			return 2, nil
		}

		svc := NewUserService(userRepo, postRepo)
		_, err := svc.UpgradePremium(context.Background(), 4)
		require.NoError(t, err)
		require.NotNil(t, synced)
		assert.Equal(t, models.BadgeGold, synced.Badge)
	})
}
