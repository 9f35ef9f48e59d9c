package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"manifest-scan-service/internal/adapters/stores"
	"manifest-scan-service/internal/config"
	"manifest-scan-service/internal/domain"
	"manifest-scan-service/internal/parser"
	"manifest-scan-service/internal/platform/db"
	"manifest-scan-service/internal/services"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool initializes the Postgres ledger schema and optionally seeds it
// from a manifest CSV, for local runs and fresh deployments.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing ledger schema...")
	if err := stores.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "")
	if seedPath == "" {
		return
	}

	log.Printf("Seeding ledger from manifest seed=%q...", seedPath)
	if err := seedFromManifest(conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

// seedFromManifest parses a manifest CSV and loads it through the engine
// so the seeded ledger starts in the same state an upload would produce.
func seedFromManifest(conn *sql.DB, seedPath string) error {
	f, err := os.Open(seedPath)
	if err != nil {
		return fmt.Errorf("seed ledger: open %q: %w", seedPath, err)
	}
	defer f.Close()

	records, err := parser.New().ParseCSV(f)
	if err != nil {
		return fmt.Errorf("seed ledger: parse %q: %w", seedPath, err)
	}

	profile := domain.ProfileByName(config.Get("WORKFLOW_PROFILE", "warehouse"))
	engine := services.NewReconciler(stores.NewSQLLedgerStore(conn), profile)

	outcome, err := engine.Load(context.Background(), records)
	if err != nil {
		return fmt.Errorf("seed ledger: load: %w", err)
	}

	log.Printf("Seeded manifest=%s rows=%d", outcome.ManifestID, outcome.Stats.Total)
	return nil
}
