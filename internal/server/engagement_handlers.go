// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"techhive/internal/models"
	"techhive/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VotePost handles PATCH /api/posts/:id/vote
// @Summary Vote on a post
// @Description Cast an upvote or downvote. Voting replaces any opposite vote; repeating the same direction changes nothing. Votes cannot be removed.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{type=string} true "Vote direction: upvote or downvote"
// @Success 200 {object} object{message=string,post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/vote [patch]
func (s *Server) VotePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type string `json:"type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.engagementService.Vote(ctx, service.VoteInput{
		PostID:    postID,
		UserID:    userID,
		Direction: req.Type,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishBroadcastEvent(EventPostReactionUpdated, map[string]interface{}{
		"post_id":         post.ID,
		"upvotes_count":   post.UpvotesCount,
		"downvotes_count": post.DownvotesCount,
		"likes_count":     post.LikesCount,
		"updated_at":      time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(fiber.Map{
		"message": "Vote recorded",
		"post":    post,
	})
}

// LikePost handles PATCH /api/posts/:id/like
// This endpoint toggles the like status - if already liked, it unlikes; if not liked, it likes
// @Summary Toggle like on a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string,post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [patch]
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.engagementService.ToggleLike(ctx, userID, postID)
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishBroadcastEvent(EventPostReactionUpdated, map[string]interface{}{
		"post_id":         post.ID,
		"upvotes_count":   post.UpvotesCount,
		"downvotes_count": post.DownvotesCount,
		"likes_count":     post.LikesCount,
		"updated_at":      time.Now().UTC().Format(time.RFC3339Nano),
	})

	message := "Post liked"
	if !post.Liked {
		message = "Post unliked"
	}

	return c.JSON(fiber.Map{
		"message": message,
		"post":    post,
	})
}
