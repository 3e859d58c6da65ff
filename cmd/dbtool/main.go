package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"parcel-routing-service/internal/adapters/distance"
	"parcel-routing-service/internal/adapters/repositories"
	"parcel-routing-service/internal/config"
	"parcel-routing-service/internal/platform/db"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	itemsPath := config.Get("ITEMS_PATH", "data/seeds/items.json")
	matrixPath := config.Get("MATRIX_PATH", "data/seeds/distances.json")
	if err := initAndSeed(ctx, conn, itemsPath, matrixPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, itemsPath, matrixPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	records, err := repositories.LoadItemRecords(itemsPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	seed, err := loadMatrixSeed(matrixPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Println("Seeding database...")
	if err := repositories.SeedMatrix(ctx, conn, seed); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if err := repositories.SeedItems(ctx, conn, records); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. items=%d locations=%d", len(records), len(seed.Locations))

	return nil
}

func loadMatrixSeed(path string) (distance.MatrixSeed, error) {
	var seed distance.MatrixSeed
	bytes, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("load matrix seed: read %q: %w", path, err)
	}
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return seed, fmt.Errorf("load matrix seed: parse json: %w", err)
	}
	return seed, nil
}
