// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"techhive/internal/models"
	"techhive/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportComment handles POST /api/comments/:id/report
// @Summary Report a comment
// @Description File a pending report against a comment. Reporting the same comment twice is a silent no-op.
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body object{reason=string,details=string} true "Report: reason is spam, abuse or other; details are required"
// @Success 200 {object} object{message=string,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id}/report [post]
func (s *Server) ReportComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason  string `json:"reason"`
		Details string `json:"details"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.moderationService.ReportComment(ctx, service.ReportCommentInput{
		CommentID:  commentID,
		ReporterID: userID,
		Reason:     req.Reason,
		Details:    req.Details,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Report received",
		"comment": comment,
	})
}

// WarnCommentAuthor handles PUT /api/admin/warn/:commentId
// @Summary Warn a comment's author
// @Description Resolve all pending reports on the comment and increment the author's warning count.
// @Tags moderation
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{message=string,reports_resolved=int,author_warnings=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/warn/{commentId} [put]
func (s *Server) WarnCommentAuthor(c *fiber.Ctx) error {
	ctx := c.Context()
	adminID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	result, err := s.moderationService.WarnCommentAuthor(ctx, commentID, adminID)
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishUserEvent(result.Comment.AuthorID, EventWarningIssued, map[string]interface{}{
		"comment_id":     result.Comment.ID,
		"post_id":        result.Comment.PostID,
		"warnings_count": result.AuthorWarnings,
	})

	return c.JSON(fiber.Map{
		"message":          "Warning issued",
		"reports_resolved": result.ReportsResolved,
		"author_warnings":  result.AuthorWarnings,
	})
}

// GetReports handles GET /api/admin/reports?status=pending
func (s *Server) GetReports(c *fiber.Ctx) error {
	ctx := c.Context()
	status := c.Query("status")
	page := parsePagination(c, 50)

	reports, err := s.moderationService.ListReports(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(reports)
}
