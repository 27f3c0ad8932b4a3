package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"techhive/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool

	// MaxDays bounds how far back in time post timestamps are spread.
	MaxDays int
	// SkipBcrypt stores the demo password in plain text for fast dev runs.
	SkipBcrypt bool
	// DryRun builds entities without touching the database.
	DryRun bool
}

// categoryWeight is a relative share of posts for one category.
type categoryWeight struct {
	Category string
	Weight   int
}

// defaultWeights decides how seeded posts spread across categories.
// Weights are relative, not percentages.
var defaultWeights = []categoryWeight{
	{Category: "general", Weight: 5},
	{Category: "programming", Weight: 4},
	{Category: "devops", Weight: 3},
	{Category: "hardware", Weight: 2},
	{Category: "career", Weight: 2},
	{Category: "showcase", Weight: 2},
	{Category: "help", Weight: 2},
}

// tagPools gives each category a plausible tag vocabulary.
var tagPools = map[string][]string{
	"general":     {"discussion", "news", "community", "meta", "off-topic"},
	"programming": {"go", "rust", "python", "typescript", "testing", "concurrency"},
	"devops":      {"docker", "kubernetes", "ci-cd", "terraform", "monitoring"},
	"hardware":    {"keyboards", "homelab", "gpu", "raspberry-pi", "networking"},
	"career":      {"interviews", "remote-work", "salary", "mentorship"},
	"showcase":    {"side-project", "open-source", "launch", "feedback-wanted"},
	"help":        {"debugging", "how-do-i", "stuck", "beginner"},
}

// computeCounts splits total posts across categories by relative weight.
// Remainders go to the heaviest categories first so the counts always sum
// to total.
func computeCounts(total int, weights []categoryWeight) map[string]int {
	counts := make(map[string]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return counts
	}

	sum := 0
	for _, w := range weights {
		sum += w.Weight
	}
	if sum <= 0 {
		return counts
	}

	assigned := 0
	for _, w := range weights {
		n := total * w.Weight / sum
		counts[w.Category] = n
		assigned += n
	}
	for i := 0; assigned < total; i = (i + 1) % len(weights) {
		counts[weights[i].Category]++
		assigned++
	}
	return counts
}

func randomTags(category string) models.Tags {
	pool, ok := tagPools[category]
	if !ok {
		pool = tagPools["general"]
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	n := 1 + r.Intn(3)
	if n > len(pool) {
		n = len(pool)
	}
	picked := r.Perm(len(pool))[:n]
	tags := make(models.Tags, 0, n)
	for _, idx := range picked {
		tags = append(tags, pool[idx])
	}
	return tags
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const seedExcerptLen = 200

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= seedExcerptLen {
		return content
	}
	return string(runes[:seedExcerptLen]) + "…"
}

// Seed populates the database with demo data: users across all roles,
// posts spread over the categories, comment threads with replies, votes
// and likes, and a few pending reports for the admin queue.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if opts.DryRun {
		log.Println("🎉 Dry run completed, no engagement seeded")
		return nil
	}

	comments, err := createComments(factory, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", len(comments))

	if err := createEngagement(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("✓ votes and likes created")

	if err := createReports(factory, users, comments); err != nil {
		return fmt.Errorf("failed to create reports: %w", err)
	}
	log.Println("✓ pending reports created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reports, votes, likes, comments, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few well-known accounts for manual testing
	if count >= 3 {
		known := []struct {
			name  string
			email string
			role  string
			badge string
		}{
			{"TechHive Admin", "admin@example.com", models.RoleAdmin, models.BadgeGold},
			{"Premium Pat", "premium@example.com", models.RolePremium, models.BadgeGold},
			{"Test User", "test@example.com", models.RoleGeneral, models.BadgeBronze},
		}
		for _, k := range known {
			user, err := factory.CreateUser(func(u *models.User) {
				u.Name = k.name
				u.Email = k.email
				u.Role = k.role
				u.Badge = k.badge
				if k.role == models.RolePremium {
					now := time.Now()
					u.PremiumSince = &now
				}
			})
			if err != nil {
				log.Printf("Failed to create user %s: %v", k.email, err)
				continue
			}
			users = append(users, user)
		}
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser(func(u *models.User) {
			// roughly one in five seeded users is premium
			if r.Intn(5) == 0 {
				u.Role = models.RolePremium
				u.Badge = models.BadgeGold
				now := time.Now()
				u.PremiumSince = &now
			}
		})
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 || count <= 0 {
		return nil, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	counts := computeCounts(count, defaultWeights)

	posts := make([]*models.Post, 0, count)
	for category, n := range counts {
		for i := 0; i < n; i++ {
			author := users[r.Intn(len(users))]
			post := factory.BuildPost(author, category, func(p *models.Post) {
				// roughly one in eight posts is private
				if r.Intn(8) == 0 {
					p.Visibility = models.VisibilityPrivate
				}
			})
			posts = append(posts, post)
		}
	}

	// batch in chunks to keep statements a reasonable size
	const batchSize = 100
	for start := 0; start < len(posts); start += batchSize {
		end := start + batchSize
		if end > len(posts) {
			end = len(posts)
		}
		if err := factory.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

func createComments(factory *Factory, users []*models.User, posts []*models.Post) ([]*models.Comment, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	comments := make([]*models.Comment, 0, len(posts)*2)

	for _, post := range posts {
		n := r.Intn(4) // 0 to 3 top-level comments
		for i := 0; i < n; i++ {
			author := users[r.Intn(len(users))]
			comment, err := factory.CreateComment(author, post)
			if err != nil {
				return nil, err
			}
			comments = append(comments, comment)

			// about a third of comments get a reply
			if r.Intn(3) == 0 {
				replier := users[r.Intn(len(users))]
				reply, err := factory.CreateReply(replier, post, comment)
				if err != nil {
					return nil, err
				}
				comments = append(comments, reply)
			}
		}
	}

	return comments, nil
}

func createEngagement(factory *Factory, users []*models.User, posts []*models.Post) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		voters := r.Perm(len(users))
		nVotes := r.Intn(len(users) + 1)
		for _, idx := range voters[:nVotes] {
			direction := models.VoteUp
			// skew positive, real feeds usually do
			if r.Intn(4) == 0 {
				direction = models.VoteDown
			}
			if err := factory.CreateVote(users[idx], post, direction); err != nil {
				return err
			}
		}

		likers := r.Perm(len(users))
		nLikes := r.Intn(len(users) + 1)
		for _, idx := range likers[:nLikes] {
			if err := factory.CreateLike(users[idx], post); err != nil {
				return err
			}
		}
	}

	return nil
}

func createReports(factory *Factory, users []*models.User, comments []*models.Comment) error {
	if len(comments) == 0 || len(users) < 2 {
		return nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	reasons := []string{models.ReportReasonSpam, models.ReportReasonAbuse, models.ReportReasonOther}

	// flag roughly one in ten comments so the admin queue has work in it
	for _, comment := range comments {
		if r.Intn(10) != 0 {
			continue
		}
		reporter := users[r.Intn(len(users))]
		if reporter.ID == comment.AuthorID {
			continue
		}
		reason := reasons[r.Intn(len(reasons))]
		if err := factory.CreateReport(reporter, comment, reason); err != nil {
			return err
		}
	}

	return nil
}
