// Package service contains the business logic layer between HTTP
// handlers and repositories.
package service

import (
	"context"
	"strings"

	"techhive/internal/models"
	"techhive/internal/repository"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
	maxTags       = 10
	excerptLen    = 200
)

// PostService handles post business logic.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Content    string
	Category   string
	Tags       models.Tags
	Visibility string
}

type UpdatePostInput struct {
	PostID     uint
	UserID     uint
	Title      string
	Content    string
	Category   string
	Tags       models.Tags
	Visibility string
}

// NewPostService creates a new post service. isAdmin resolves whether a
// user may act on posts they do not own.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, isAdmin: isAdmin}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, models.NewValidationError("Category is required")
	}
	if len(in.Tags) > maxTags {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, models.NewValidationError("Visibility must be public or private")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      title,
		Content:    content,
		Excerpt:    makeExcerpt(content),
		Category:   category,
		Tags:       in.Tags,
		Visibility: visibility,

		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		AuthorBadge:  author.Badge,
		AuthorRole:   author.Role,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

// GetPost returns the post with engagement counts for the viewer.
// Private posts are hidden from everyone but their author and admins,
// reported as not found rather than forbidden.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if post.Visibility == models.VisibilityPrivate && post.AuthorID != currentUserID {
		admin := false
		if currentUserID != 0 {
			admin, err = s.isAdmin(ctx, currentUserID)
			if err != nil {
				return nil, err
			}
		}
		if !admin {
			return nil, models.NewNotFoundError("Post", id)
		}
	}

	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID, sort)
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewUnauthorizedError("You can only edit your own posts")
		}
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
		post.Excerpt = makeExcerpt(in.Content)
	}
	if in.Category != "" {
		post.Category = strings.TrimSpace(in.Category)
	}
	if in.Tags != nil {
		if len(in.Tags) > maxTags {
			return nil, models.NewValidationError("Too many tags (max 10)")
		}
		post.Tags = in.Tags
	}
	if in.Visibility != "" {
		if in.Visibility != models.VisibilityPublic && in.Visibility != models.VisibilityPrivate {
			return nil, models.NewValidationError("Visibility must be public or private")
		}
		post.Visibility = in.Visibility
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// makeExcerpt takes the first excerptLen runes of the content, cut on a
// rune boundary so multi-byte characters survive.
func makeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLen {
		return content
	}
	return string(runes[:excerptLen]) + "…"
}
