// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"techhive/internal/cache"
	"techhive/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
		cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	}
	return err
}

// applyCommentDetails selects the comment columns plus the computed
// reports count.
func (r *commentRepository) applyCommentDetails(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, " +
		"(SELECT COUNT(*) FROM reports WHERE reports.comment_id = comments.id) as reports_count")
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.applyCommentDetails(r.db.WithContext(ctx)).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByPost returns the post's comments oldest first, so threads read
// top to bottom.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx)).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Save(comment).Error
	if err == nil {
		cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
	}
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	return nil
}
