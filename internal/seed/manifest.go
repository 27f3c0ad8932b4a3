package seed

import (
	"errors"
	"fmt"
	"os"

	"techhive/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manifest describes permanent content that every environment should
// have: staff accounts and the pinned welcome post for each category.
// Applying a manifest is idempotent; re-running it updates accounts in
// place and never duplicates pinned posts.
type Manifest struct {
	Accounts    []AccountSpec    `yaml:"accounts"`
	PinnedPosts []PinnedPostSpec `yaml:"pinned_posts"`
}

// AccountSpec is a durable account created or refreshed by the manifest.
type AccountSpec struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
	Badge string `yaml:"badge"`
	Bio   string `yaml:"bio"`
}

// PinnedPostSpec is a permanent post identified by its category and
// title. AuthorEmail must refer to one of the manifest accounts.
type PinnedPostSpec struct {
	Category    string   `yaml:"category"`
	Title       string   `yaml:"title"`
	Content     string   `yaml:"content"`
	Tags        []string `yaml:"tags"`
	AuthorEmail string   `yaml:"author_email"`
}

// DefaultManifest is applied when no manifest file is given.
var DefaultManifest = Manifest{
	Accounts: []AccountSpec{
		{
			Name:  "TechHive Staff",
			Email: "staff@techhive.example",
			Role:  models.RoleAdmin,
			Badge: models.BadgeGold,
			Bio:   "Official staff account.",
		},
	},
	PinnedPosts: []PinnedPostSpec{
		{
			Category:    "general",
			Title:       "Welcome to TechHive",
			Content:     "Introduce yourself, read the ground rules, and pick a category to dive into.",
			Tags:        []string{"community", "meta"},
			AuthorEmail: "staff@techhive.example",
		},
		{
			Category:    "help",
			Title:       "How to ask a good question",
			Content:     "Say what you tried, what you expected, and what actually happened. Include versions and error output.",
			Tags:        []string{"how-do-i", "beginner"},
			AuthorEmail: "staff@techhive.example",
		},
	},
}

// LoadManifest reads and validates a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304: operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for broken references before anything is
// written to the database.
func (m *Manifest) Validate() error {
	emails := make(map[string]struct{}, len(m.Accounts))
	for i, acc := range m.Accounts {
		if acc.Email == "" {
			return fmt.Errorf("manifest account %d: email is required", i)
		}
		if acc.Name == "" {
			return fmt.Errorf("manifest account %s: name is required", acc.Email)
		}
		if acc.Role != "" && !models.ValidRole(acc.Role) {
			return fmt.Errorf("manifest account %s: unknown role %q", acc.Email, acc.Role)
		}
		if _, dup := emails[acc.Email]; dup {
			return fmt.Errorf("manifest account %s: duplicate email", acc.Email)
		}
		emails[acc.Email] = struct{}{}
	}

	for i, p := range m.PinnedPosts {
		if p.Category == "" || p.Title == "" {
			return fmt.Errorf("manifest pinned post %d: category and title are required", i)
		}
		if _, ok := emails[p.AuthorEmail]; !ok {
			return fmt.Errorf("manifest pinned post %q: author %q is not a manifest account", p.Title, p.AuthorEmail)
		}
	}
	return nil
}

// Apply seeds the manifest accounts and pinned posts. Accounts are keyed
// by email and refreshed in place; pinned posts are keyed by (category,
// title) and only created when missing.
func (m *Manifest) Apply(db *gorm.DB) error {
	byEmail := make(map[string]*models.User, len(m.Accounts))

	for _, spec := range m.Accounts {
		err := db.Transaction(func(tx *gorm.DB) error {
			hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			role := spec.Role
			if role == "" {
				role = models.RoleGeneral
			}
			badge := spec.Badge
			if badge == "" {
				badge = models.BadgeBronze
			}
			user := models.User{
				Name:     spec.Name,
				Email:    spec.Email,
				Password: string(hashed),
				Role:     role,
				Badge:    badge,
				Bio:      spec.Bio,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "role", "badge", "bio", "updated_at"}),
			}).Create(&user).Error; err != nil {
				return err
			}

			if user.ID == 0 {
				if err := tx.Where("email = ?", spec.Email).First(&user).Error; err != nil {
					return err
				}
			}
			byEmail[spec.Email] = &user
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed manifest account %s: %w", spec.Email, err)
		}
	}

	for _, spec := range m.PinnedPosts {
		author := byEmail[spec.AuthorEmail]
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.Post
			queryErr := tx.Where("category = ? AND title = ?", spec.Category, spec.Title).First(&existing).Error
			switch {
			case queryErr == nil:
				return nil
			case !errors.Is(queryErr, gorm.ErrRecordNotFound):
				return queryErr
			}

			post := models.Post{
				Title:        spec.Title,
				Content:      spec.Content,
				Excerpt:      excerpt(spec.Content),
				Category:     spec.Category,
				Tags:         models.Tags(spec.Tags),
				Visibility:   models.VisibilityPublic,
				AuthorID:     author.ID,
				AuthorName:   author.Name,
				AuthorAvatar: author.Avatar,
				AuthorBadge:  author.Badge,
				AuthorRole:   author.Role,
			}
			return tx.Create(&post).Error
		})
		if err != nil {
			return fmt.Errorf("seed pinned post %q: %w", spec.Title, err)
		}
	}

	return nil
}
