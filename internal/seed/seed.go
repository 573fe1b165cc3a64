// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"estate/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumAgents     int
	NumProperties int
	ShouldClean   bool
	// DryRun builds entities without writing them, used by generator tests.
	DryRun bool
	// MaxDays bounds the created_at backdating spread. Zero means 90 days.
	MaxDays int
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d agents and %d properties...", opts.NumAgents, opts.NumProperties)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	agents, err := createAgents(f, opts.NumAgents)
	if err != nil {
		return fmt.Errorf("failed to create agents: %w", err)
	}
	log.Printf("✓ %d agents created", len(agents))

	properties, err := createProperties(f, agents, opts.NumProperties)
	if err != nil {
		return fmt.Errorf("failed to create properties: %w", err)
	}
	log.Printf("✓ %d properties created", len(properties))

	reviews, err := createReviews(f, properties)
	if err != nil {
		return fmt.Errorf("failed to create reviews: %w", err)
	}
	log.Printf("✓ %d reviews created", len(reviews))

	likeCount, err := createLikes(f, properties, reviews)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", likeCount)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE likes, reviews, properties, galleries, agents CASCADE;`
	return db.Exec(sql).Error
}

func createAgents(f *Factory, count int) ([]*models.Agent, error) {
	agents := make([]*models.Agent, 0, count)

	// A stable demo principal so the mobile client has a known login target.
	demo, err := f.CreateAgent(func(a *models.Agent) {
		a.Name = "Julia Reyes"
		a.Email = "julia@example.com"
	})
	if err != nil {
		return nil, err
	}
	agents = append(agents, demo)

	for i := len(agents); i < count; i++ {
		agent, err := f.CreateAgent()
		if err != nil {
			log.Printf("Failed to create agent: %v", err)
			continue
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

func createProperties(f *Factory, agents []*models.Agent, count int) ([]*models.Property, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	properties := make([]*models.Property, 0, count)

	for i := 0; i < count; i++ {
		agent := agents[r.Intn(len(agents))]

		property, err := f.CreateProperty(agent)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d properties...", i)
		}
	}
	return properties, nil
}

func createReviews(f *Factory, properties []*models.Property) ([]*models.Review, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	reviews := make([]*models.Review, 0, len(properties)*3)

	for _, property := range properties {
		for n := r.Intn(5); n > 0; n-- {
			review, err := f.CreateReview(property)
			if err != nil {
				return nil, err
			}
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func createLikes(f *Factory, properties []*models.Property, reviews []*models.Review) (int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	count := 0

	for _, property := range properties {
		if r.Float32() < 0.5 {
			if err := f.CreateLike(seedUserID(r), property.ID, models.TargetTypeProperty); err != nil {
				return count, err
			}
			count++
		}
	}
	for _, review := range reviews {
		for n := r.Intn(4); n > 0; n-- {
			if err := f.CreateLike(seedUserID(r), review.ID, models.TargetTypeReview); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// seedUserID picks from a small pool of synthetic user ids so that batch
// liked-state lookups have some overlap to find.
func seedUserID(r *rand.Rand) string {
	return fmt.Sprintf("seed-user-%d", r.Intn(20))
}
