// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"techhive/internal/models"
	"techhive/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description List visible posts with optional sort (new, hot, top, rising)
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Param sort query string false "Sort order"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)
	sort := c.Query("sort", "new")

	posts, err := s.postService.ListPosts(ctx, page.Limit, page.Offset, userID, sort)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	posts, err := s.postService.SearchPosts(ctx, q, page.Limit, page.Offset, userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(ctx, id, userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID := c.Locals("userID").(uint)

	posts, err := s.postService.GetPostsByAuthor(ctx, authorID, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string,category=string,tags=[]string,visibility=string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title      string      `json:"title"`
		Content    string      `json:"content"`
		Category   string      `json:"category"`
		Tags       models.Tags `json:"tags"`
		Visibility string      `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID:   userID,
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	if post.Visibility == models.VisibilityPublic {
		s.publishBroadcastEvent(EventPostCreated, map[string]interface{}{
			"post_id":    post.ID,
			"author_id":  post.AuthorID,
			"category":   post.Category,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      string      `json:"title"`
		Content    string      `json:"content"`
		Category   string      `json:"category"`
		Tags       models.Tags `json:"tags"`
		Visibility string      `json:"visibility"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		PostID:     postID,
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, postID, userID); err != nil {
		return mapServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
