// Command main runs the database seeder for TechHive.
package main

import (
	"flag"
	"log"

	"techhive/internal/config"
	"techhive/internal/database"
	"techhive/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	manifestPath := flag.String("manifest", "", "Path to a YAML manifest of permanent accounts and pinned posts")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	manifest := &seed.DefaultManifest
	if *manifestPath != "" {
		manifest, err = seed.LoadManifest(*manifestPath)
		if err != nil {
			log.Fatalf("❌ Manifest load failed: %v", err)
		}
		log.Printf("Applying manifest: %s", *manifestPath)
	}
	if err := manifest.Apply(db); err != nil {
		log.Fatalf("❌ Manifest seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All seeded users have the password: Password123!")
}
