// Command main runs the database seeder for tactac.
package main

import (
	"context"
	"flag"
	"log"

	"tactac/internal/bootstrap"
	"tactac/internal/config"
	"tactac/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	plan := flag.String("plan", "", "YAML seed plan (overrides the flags below)")
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	shouldClean := flag.Bool("clean", defaults.Clean, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Hash the shared password at minimum bcrypt cost")
	flag.Parse()

	opts := defaults
	if *plan != "" {
		var err error
		if opts, err = seed.LoadPlan(*plan); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Printf("Applying plan: %s (ignoring other flags)\n", *plan)
	} else {
		opts.Users = *numUsers
		opts.PostsPerUser = *postsPerUser
		opts.Clean = *shouldClean
		opts.FastHash = *fast
	}

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts each, clean=%v\n", opts.Users, opts.PostsPerUser, opts.Clean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("❌ Refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.NewSeeder(db, opts).Run(context.Background())
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Created %d users, %d posts, %d likes and %d comments.", summary.Users, summary.Posts, summary.Likes, summary.Comments)
	log.Printf("📧 All seeded users have the password: %s", opts.Password)
}
