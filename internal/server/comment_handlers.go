// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"techhive/internal/models"
	"techhive/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
// @Summary List comments for a post
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, postID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comment
// @Summary Comment on a post
// @Description Add a top-level comment, or a reply when parent_comment_id is set.
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{content=string,parent_comment_id=int} true "Comment"
// @Success 201 {object} object{message=string,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comment [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		PostID:          postID,
		AuthorID:        userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishBroadcastEvent(EventCommentCreated, map[string]interface{}{
		"post_id":    comment.PostID,
		"comment_id": comment.ID,
		"author_id":  comment.AuthorID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	// Replying notifies the parent comment's author directly.
	if comment.ParentCommentID != nil {
		if parent, perr := s.commentRepo.GetByID(ctx, *comment.ParentCommentID); perr == nil && parent.AuthorID != userID {
			s.publishUserEvent(parent.AuthorID, EventCommentReply, map[string]interface{}{
				"post_id":           comment.PostID,
				"comment_id":        comment.ID,
				"parent_comment_id": *comment.ParentCommentID,
				"author_name":       comment.AuthorName,
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		CommentID: commentID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, commentID, userID); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
