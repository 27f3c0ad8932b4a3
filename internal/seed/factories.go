// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"techhive/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:   gofakeit.Name(),
		Email:  fmt.Sprintf("%s%d@example.com", gofakeit.Username(), gofakeit.Number(100, 999)),
		Role:   models.RoleGeneral,
		Badge:  models.BadgeBronze,
		Bio:    gofakeit.Sentence(10),
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "Password123!"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s> role=%s", user.Name, user.Email, user.Role)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for the given author in the given category
// but does not persist it. Author snapshot fields are copied from the
// author exactly as post creation does at runtime.
func (f *Factory) BuildPost(author *models.User, category string, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:        titleCase(gofakeit.Sentence(5)),
		Content:      gofakeit.Paragraph(1, 3, 5, "\n"),
		Category:     category,
		Tags:         randomTags(category),
		Visibility:   models.VisibilityPublic,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		AuthorBadge:  author.Badge,
		AuthorRole:   author.Role,
	}
	post.Excerpt = excerpt(post.Content)

	// spread created_at over the recent past so feeds look lived-in
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given author.
func (f *Factory) CreatePost(author *models.User, category string, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, category, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: category=%s author=%d title=%q", post.Category, post.AuthorID, post.Title)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment constructs and persists a comment on the provided post
// authored by the provided user. The author snapshot is taken at creation
// time and is never refreshed afterwards.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:       post.ID,
		Content:      gofakeit.Sentence(8),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		AuthorBadge:  author.Badge,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		log.Printf("[dry-run] CreateComment: post=%d author=%d", comment.PostID, comment.AuthorID)
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReply persists a reply to parent on the same post.
func (f *Factory) CreateReply(author *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	return f.CreateComment(author, post, append([]func(*models.Comment){func(c *models.Comment) {
		c.ParentCommentID = &parent.ID
		c.ReplyToName = parent.AuthorName
	}}, overrides...)...)
}

// CreateVote persists a vote from `user` on `post`. The (user, post) pair
// is the row identity, so re-voting updates the direction in place.
func (f *Factory) CreateVote(user *models.User, post *models.Post, direction string) error {
	vote := &models.Vote{
		UserID:    user.ID,
		PostID:    post.ID,
		Direction: direction,
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"direction", "updated_at"}),
	}).Create(vote).Error
}

// CreateLike persists a like from `user` on `post`.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// CreateReport persists a pending report from `reporter` on `comment`.
func (f *Factory) CreateReport(reporter *models.User, comment *models.Comment, reason string) error {
	report := &models.Report{
		CommentID:  comment.ID,
		ReporterID: reporter.ID,
		Reason:     reason,
		Details:    gofakeit.Sentence(6),
		Status:     models.ReportStatusPending,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(report).Error
}
