package seed

import (
	"os"
	"path/filepath"
	"testing"

	"techhive/internal/models"
)

func TestLoadManifest_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yml")
	doc := `accounts:
  - name: Forum Staff
    email: staff@forum.example
    role: admin
    badge: gold
pinned_posts:
  - category: general
    title: Read this first
    content: House rules live here.
    tags: [meta, rules]
    author_email: staff@forum.example
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(m.Accounts) != 1 || m.Accounts[0].Role != models.RoleAdmin {
		t.Fatalf("unexpected accounts: %+v", m.Accounts)
	}
	if len(m.PinnedPosts) != 1 || m.PinnedPosts[0].Tags[1] != "rules" {
		t.Fatalf("unexpected pinned posts: %+v", m.PinnedPosts)
	}
}

func TestManifest_ValidateRejectsBrokenReferences(t *testing.T) {
	m := Manifest{
		Accounts: []AccountSpec{{Name: "A", Email: "a@example.com"}},
		PinnedPosts: []PinnedPostSpec{
			{Category: "general", Title: "Orphan", AuthorEmail: "nobody@example.com"},
		},
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for pinned post with unknown author")
	}

	bad := Manifest{Accounts: []AccountSpec{{Name: "A", Email: "a@example.com", Role: "overlord"}}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestManifest_ApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openSeedTestDB(t)

	if err := DefaultManifest.Apply(db); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := DefaultManifest.Apply(db); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != int64(len(DefaultManifest.Accounts)) {
		t.Fatalf("expected %d manifest accounts, got %d", len(DefaultManifest.Accounts), userCount)
	}

	var postCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if postCount != int64(len(DefaultManifest.PinnedPosts)) {
		t.Fatalf("expected %d pinned posts, got %d", len(DefaultManifest.PinnedPosts), postCount)
	}

	var staff models.User
	if err := db.Where("email = ?", "staff@techhive.example").First(&staff).Error; err != nil {
		t.Fatalf("staff account missing: %v", err)
	}
	if staff.Role != models.RoleAdmin || staff.Badge != models.BadgeGold {
		t.Fatalf("staff account has wrong role/badge: %s/%s", staff.Role, staff.Badge)
	}
}
