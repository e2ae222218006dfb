// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"rethinkclub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers   int
	NumStories int
}

// Seeder populates the database with fake development data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll wipes every seeded table. Development only.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []interface{}{
		&models.Interaction{}, &models.Like{}, &models.Comment{},
		&models.Story{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds users, stories, comments, reactions and likes. Reaction counters
// are written to match the interaction rows exactly.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumStories <= 0 {
		opts.NumStories = 60
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	stories, err := s.seedStories(users, opts.NumStories)
	if err != nil {
		return err
	}
	if err := s.seedComments(users, stories); err != nil {
		return err
	}
	if err := s.seedReactions(users, stories); err != nil {
		return err
	}
	if err := s.seedLikes(users, stories); err != nil {
		return err
	}

	log.Printf("Seeded %d users and %d stories", len(users), len(stories))
	return nil
}

func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	// One shared hash keeps seeding fast; every seeded account logs in with
	// "password123!ABCdef".
	hash, err := bcrypt.GenerateFromPassword([]byte("password123!ABCdef"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		users = append(users, models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:       fmt.Sprintf("seed%d.%s", i, gofakeit.Email()),
			Password:    string(hash),
			DisplayName: name,
			PhotoURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i),
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func (s *Seeder) seedStories(users []models.User, n int) ([]models.Story, error) {
	categories := models.AllCategories()
	types := []models.StoryType{models.StoryTypeGood, models.StoryTypeBad, models.StoryTypeLesson}

	stories := make([]models.Story, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		anonymous := s.rand.Intn(10) == 0
		authorName := author.DisplayName
		if anonymous {
			authorName = "Anonymous"
		}

		status := models.StatusPublished
		if s.rand.Intn(8) == 0 {
			status = models.StatusDraft
		}

		created := time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour)
		story := models.Story{
			AuthorID:        author.ID,
			AuthorName:      authorName,
			IsAnonymous:     anonymous,
			Title:           strings.TrimSuffix(gofakeit.Sentence(6), "."),
			WhatHappened:    gofakeit.Paragraph(1, 3, 12, " "),
			WhatILearned:    gofakeit.Paragraph(1, 2, 12, " "),
			AdviceForOthers: gofakeit.Paragraph(1, 2, 10, " "),
			Category:        categories[s.rand.Intn(len(categories))],
			Type:            types[s.rand.Intn(len(types))],
			IsPositive:      s.rand.Intn(2) == 0,
			Tags:            s.fakeTags(),
			Status:          status,
			Views:           s.rand.Intn(500),
			CreatedAt:       created,
		}
		if status == models.StatusPublished {
			story.PublishedAt = &created
		}
		stories = append(stories, story)
	}
	if err := s.db.Create(&stories).Error; err != nil {
		return nil, fmt.Errorf("seed stories: %w", err)
	}
	return stories, nil
}

func (s *Seeder) fakeTags() []string {
	n := 1 + s.rand.Intn(4)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		word := strings.ToLower(gofakeit.HackerNoun())
		tags = append(tags, strings.ReplaceAll(word, " ", "-"))
	}
	return tags
}

func (s *Seeder) seedComments(users []models.User, stories []models.Story) error {
	for i := range stories {
		n := s.rand.Intn(6)
		for j := 0; j < n; j++ {
			author := users[s.rand.Intn(len(users))]
			comment := models.Comment{
				StoryID:    stories[i].ID,
				AuthorID:   author.ID,
				AuthorName: author.DisplayName,
				Text:       gofakeit.Sentence(8 + s.rand.Intn(10)),
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return fmt.Errorf("seed comments: %w", err)
			}
		}
		if n > 0 {
			if err := s.db.Model(&models.Story{}).
				Where("id = ?", stories[i].ID).
				UpdateColumn("comments_count", n).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedReactions(users []models.User, stories []models.Story) error {
	kinds := []models.ReactionKind{
		models.ReactionHelpful, models.ReactionInspiring, models.ReactionEyeOpening,
	}

	for i := range stories {
		var counts models.ReactionCounts
		for u := range users {
			if s.rand.Intn(3) != 0 {
				continue
			}
			kind := kinds[s.rand.Intn(len(kinds))]
			interaction := models.Interaction{
				StoryID: stories[i].ID,
				UserID:  users[u].ID,
				Kind:    kind,
			}
			if err := s.db.Create(&interaction).Error; err != nil {
				return fmt.Errorf("seed reactions: %w", err)
			}
			switch kind {
			case models.ReactionHelpful:
				counts.Helpful++
			case models.ReactionInspiring:
				counts.Inspiring++
			case models.ReactionEyeOpening:
				counts.EyeOpening++
			}
		}

		if err := s.db.Model(&models.Story{}).
			Where("id = ?", stories[i].ID).
			Updates(map[string]interface{}{
				"reactions_helpful":     counts.Helpful,
				"reactions_inspiring":   counts.Inspiring,
				"reactions_eye_opening": counts.EyeOpening,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedLikes(users []models.User, stories []models.Story) error {
	for i := range stories {
		likes := 0
		for u := range users {
			if s.rand.Intn(4) != 0 {
				continue
			}
			like := models.Like{StoryID: stories[i].ID, UserID: users[u].ID}
			if err := s.db.Create(&like).Error; err != nil {
				return fmt.Errorf("seed likes: %w", err)
			}
			likes++
		}
		if likes > 0 {
			if err := s.db.Model(&models.Story{}).
				Where("id = ?", stories[i].ID).
				UpdateColumn("likes", likes).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
