// Command main runs the database seeder for the estate API.
package main

import (
	"flag"
	"log"

	"estate/internal/config"
	"estate/internal/database"
	"estate/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numAgents := flag.Int("agents", 20, "Number of agents to create")
	numProperties := flag.Int("properties", 120, "Number of properties to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d agents, %d properties, clean=%v\n", *numAgents, *numProperties, *shouldClean)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumAgents:     *numAgents,
		NumProperties: *numProperties,
		ShouldClean:   *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
}
