// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"techhive/internal/models"
	"techhive/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateProfileByEmail handles PUT /api/users/:email
// @Summary Update a profile by email
// @Description Update the user row identified by email, then fan the new name, avatar and badge out to all of the author's posts. Comments keep their original snapshots.
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "Account email"
// @Param request body object{name=string,bio=string,avatar=string} true "Profile fields"
// @Success 200 {object} object{message=string,userUpdated=models.User,postsUpdated=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{email} [put]
func (s *Server) UpdateProfileByEmail(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	email := c.Params("email")

	var req struct {
		Name   string `json:"name"`
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Only the account owner or an admin may sync a profile.
	me, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	if me.Email != email {
		admin, adminErr := s.isAdmin(c, userID)
		if adminErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, adminErr)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("You can only update your own profile"))
		}
	}

	result, err := s.userService.UpdateProfileByEmail(ctx, service.UpdateProfileInput{
		Email:  email,
		Name:   req.Name,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishUserEvent(result.User.ID, EventProfileSynced, map[string]interface{}{
		"user_id":       result.User.ID,
		"posts_updated": result.PostsUpdated,
	})

	return c.JSON(fiber.Map{
		"message":      "Profile updated",
		"userUpdated":  result.User,
		"postsUpdated": result.PostsUpdated,
	})
}

// UpgradePremium handles POST /api/users/me/premium
// @Summary Upgrade the current user to premium
// @Tags users
// @Produce json
// @Success 200 {object} object{message=string,user=models.User}
// @Router /users/me/premium [post]
func (s *Server) UpgradePremium(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.UpgradePremium(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Upgraded to premium",
		"user":    user,
	})
}

// GetAllUsers handles GET /api/admin/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(users)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
