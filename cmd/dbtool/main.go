package main

import (
	"database/sql"
	"log"

	"github.com/joho/godotenv"

	"bakery-order-service/internal/adapters/repositories"
	"bakery-order-service/internal/config"
	"bakery-order-service/internal/platform/db"
)

// dbtool initializes the SQLite schema and seeds the product catalog
// outside of server startup.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	if err := initAndSeed(database, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(database *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(database); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(database, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
