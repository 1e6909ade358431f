// Command seed loads baseline rows and, optionally, generated demo content.
package main

import (
	"context"
	"flag"
	"log"

	"bizsite/internal/config"
	"bizsite/internal/database"
	"bizsite/internal/seed"
)

func main() {
	demo := flag.Bool("demo", false, "Also generate demo content")
	clean := flag.Bool("clean", false, "Remove existing demo content first")
	users := flag.Int("users", seed.DefaultOptions.Users, "Number of demo users")
	products := flag.Int("products", seed.DefaultOptions.Products, "Number of demo products")
	posts := flag.Int("posts", seed.DefaultOptions.Posts, "Number of demo blog posts")
	licenses := flag.Int("licenses", seed.DefaultOptions.Licenses, "Number of demo licenses")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible content")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() && *demo {
		log.Fatal("Refusing to generate demo content in production")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	fixtures, err := seed.LoadFixtures()
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}
	if err := seed.Baseline(db, fixtures); err != nil {
		log.Fatalf("Baseline seeding failed: %v", err)
	}
	if !*demo {
		log.Println("Baseline data ready")
		return
	}

	s := seed.NewSeeder(db, *randSeed)
	if *clean {
		if err := s.ClearDemo(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	opts := seed.DefaultOptions
	opts.Users = *users
	opts.Products = *products
	opts.Posts = *posts
	opts.Licenses = *licenses
	if _, err := s.Demo(context.Background(), opts); err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}
	log.Printf("Done. Demo users have the password: %s", seed.DemoPassword)
}
