package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"techhive/internal/models"
	"techhive/internal/repository"
	"techhive/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserServer(db *gorm.DB) *Server {
	s := &Server{db: db}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	s.userRepo = userRepo
	s.postRepo = postRepo
	s.userService = service.NewUserService(userRepo, postRepo)
	return s
}

func seedAuthorWithPosts(t *testing.T, db *gorm.DB, postCount int) models.User {
	t.Helper()
	author := models.User{
		Name: "original-name", Email: "author@example.com", Password: "pw",
		Role: models.RoleGeneral, Badge: models.BadgeBronze, Avatar: "old.png",
	}
	require.NoError(t, db.Create(&author).Error)

	for i := 0; i < postCount; i++ {
		post := models.Post{
			Title:        fmt.Sprintf("Post %d", i+1),
			Content:      "content",
			Category:     "general",
			Visibility:   models.VisibilityPublic,
			AuthorID:     author.ID,
			AuthorName:   author.Name,
			AuthorAvatar: author.Avatar,
			AuthorBadge:  author.Badge,
		}
		require.NoError(t, db.Create(&post).Error)
	}
	return author
}

func TestUpdateProfileByEmail_FansOutToPosts(t *testing.T) {
	db := setupEngagementTestDB(t)
	s := newUserServer(db)
	author := seedAuthorWithPosts(t, db, 3)

	// A comment written before the rename keeps its original snapshot.
	post := models.Post{
		Title: "host", Content: "c", Category: "general",
		Visibility: models.VisibilityPublic, AuthorID: author.ID, AuthorName: author.Name,
	}
	require.NoError(t, db.Create(&post).Error)
	comment := models.Comment{
		PostID: post.ID, Content: "hello", AuthorID: author.ID, AuthorName: author.Name,
	}
	require.NoError(t, db.Create(&comment).Error)

	app := fiber.New()
	app.Put("/users/:email", func(c *fiber.Ctx) error {
		c.Locals("userID", author.ID)
		return s.UpdateProfileByEmail(c)
	})

	body, _ := json.Marshal(map[string]string{
		"name":   "new-name",
		"bio":    "updated bio",
		"avatar": "new.png",
	})
	req := httptest.NewRequest(http.MethodPut, "/users/"+author.Email, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Message      string       `json:"message"`
		UserUpdated  *models.User `json:"userUpdated"`
		PostsUpdated int64        `json:"postsUpdated"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotNil(t, payload.UserUpdated)
	assert.Equal(t, "new-name", payload.UserUpdated.Name)
	assert.Equal(t, int64(4), payload.PostsUpdated)

	// Every post snapshot now carries the new identity.
	var stale int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("author_id = ? AND author_name <> ?", author.ID, "new-name").
		Count(&stale).Error)
	assert.Equal(t, int64(0), stale)

	// Comment snapshots are deliberately frozen.
	var storedComment models.Comment
	require.NoError(t, db.First(&storedComment, comment.ID).Error)
	assert.Equal(t, "original-name", storedComment.AuthorName)
}

func TestUpdateProfileByEmail_OwnershipEnforced(t *testing.T) {
	db := setupEngagementTestDB(t)
	s := newUserServer(db)
	author := seedAuthorWithPosts(t, db, 1)

	stranger := models.User{Name: "stranger", Email: "stranger@example.com", Password: "pw", Role: models.RoleGeneral, Badge: models.BadgeBronze}
	require.NoError(t, db.Create(&stranger).Error)
	admin := models.User{Name: "siteadmin", Email: "admin@example.com", Password: "pw", Role: models.RoleAdmin, Badge: models.BadgeGold}
	require.NoError(t, db.Create(&admin).Error)

	updateAs := func(userID uint) *http.Response {
		app := fiber.New()
		app.Put("/users/:email", func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return s.UpdateProfileByEmail(c)
		})
		body, _ := json.Marshal(map[string]string{"bio": "new bio"})
		req := httptest.NewRequest(http.MethodPut, "/users/"+author.Email, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("stranger forbidden", func(t *testing.T) {
		resp := updateAs(stranger.ID)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin allowed", func(t *testing.T) {
		resp := updateAs(admin.ID)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestUpgradePremium_Handler(t *testing.T) {
	db := setupEngagementTestDB(t)
	s := newUserServer(db)
	author := seedAuthorWithPosts(t, db, 2)

	app := fiber.New()
	app.Post("/users/me/premium", func(c *fiber.Ctx) error {
		c.Locals("userID", author.ID)
		return s.UpgradePremium(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/users/me/premium", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		User *models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotNil(t, payload.User)
	assert.Equal(t, models.RolePremium, payload.User.Role)
	assert.Equal(t, models.BadgeGold, payload.User.Badge)
	assert.NotNil(t, payload.User.PremiumSince)

	// The gold badge fans out to existing post snapshots.
	var goldPosts int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("author_id = ? AND author_badge = ?", author.ID, models.BadgeGold).
		Count(&goldPosts).Error)
	assert.Equal(t, int64(2), goldPosts)
}
