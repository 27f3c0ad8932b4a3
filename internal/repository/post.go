// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"techhive/internal/cache"
	"techhive/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	CastVote(ctx context.Context, userID, postID uint, direction string) error
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	SyncAuthorSnapshots(ctx context.Context, author *models.User) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostsList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if currentUserID == 0 {
		// Anonymous reads carry no per-user fields and are safe to cache.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), currentUserID).First(&post, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		if _, ok := err.(*models.AppError); ok {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyVisibility(r.applyPostDetails(r.db.WithContext(ctx), currentUserID), currentUserID).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyVisibility(r.applyPostDetails(r.db.WithContext(ctx), currentUserID), currentUserID)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// applySort appends the ORDER BY (and optional WHERE) clause for the requested sort type.
// upvotes_count, likes_count and comments_count are SELECT aliases from applyPostDetails;
// PostgreSQL allows referencing them in ORDER BY within the same query level.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "hot":
		return db.Order(gorm.Expr(
			"(upvotes_count - downvotes_count + comments_count * 2.0) / POWER(EXTRACT(EPOCH FROM (NOW() - posts.created_at)) / 3600.0 + 2, 1.5) DESC",
		))
	case "top":
		return db.Order("upvotes_count DESC, created_at DESC")
	case "rising":
		return db.
			Where("posts.created_at > NOW() - INTERVAL '48 hours'").
			Order("(upvotes_count + likes_count + comments_count * 2) DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyVisibility(r.applyPostDetails(r.db.WithContext(ctx), currentUserID), currentUserID).
		Where("title ILIKE ? OR content ILIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// applyVisibility hides private posts from everyone but their author.
// Detail lookups skip this so the service layer can distinguish a
// private post from a missing one.
func (r *postRepository) applyVisibility(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID == 0 {
		return db.Where("posts.visibility = ?", models.VisibilityPublic)
	}
	return db.Where("posts.visibility = ? OR posts.author_id = ?", models.VisibilityPublic, currentUserID)
}

// applyPostDetails adds subqueries to fetch counts, the caller's vote and
// liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id AND votes.direction = 'upvote') as upvotes_count, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id AND votes.direction = 'downvote') as downvotes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked"+
			", COALESCE((SELECT direction FROM votes WHERE votes.post_id = posts.id AND votes.user_id = ?), '') as my_vote",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, '' as my_vote")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// CastVote records or flips a user's vote in a single atomic upsert. The
// composite unique index on (user_id, post_id) guarantees one row per
// pair, so two racing opposite-direction votes serialize on the index
// instead of leaving both directions set.
func (r *postRepository) CastVote(ctx context.Context, userID, postID uint, direction string) error {
	vote := models.Vote{UserID: userID, PostID: postID, Direction: direction}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"direction":  direction,
			"updated_at": time.Now(),
		}),
	}).Create(&vote).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps the like set idempotent
	// under racing double-clicks.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return result.Error
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SyncAuthorSnapshots rewrites the denormalized author columns on every
// post the author owns in one multi-row UPDATE. Comments keep their
// original snapshots on purpose. Returns the number of posts touched.
func (r *postRepository) SyncAuthorSnapshots(ctx context.Context, author *models.User) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", author.ID).
		Updates(map[string]interface{}{
			"author_name":   author.Name,
			"author_avatar": author.Avatar,
			"author_badge":  author.Badge,
			"author_role":   author.Role,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	cache.InvalidatePostsList(ctx)
	return result.RowsAffected, nil
}
