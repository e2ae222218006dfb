// Command main runs the database seeder for RethinkClub.
package main

import (
	"flag"
	"log"

	"rethinkclub/internal/config"
	"rethinkclub/internal/database"
	"rethinkclub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numStories := flag.Int("stories", 60, "Number of stories to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d stories, clean=%v\n", *numUsers, *numStories, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(seed.Options{NumUsers: *numUsers, NumStories: *numStories}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
