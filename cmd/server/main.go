package main

import (
	"context"
	"fmt"
	"log"
	"manifest-scan-service/internal/adapters/extract"
	"manifest-scan-service/internal/adapters/stores"
	"manifest-scan-service/internal/api"
	"manifest-scan-service/internal/config"
	"manifest-scan-service/internal/domain"
	"manifest-scan-service/internal/parser"
	"manifest-scan-service/internal/platform/db"
	"manifest-scan-service/internal/ports"
	"manifest-scan-service/internal/services"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires a ledger store backend behind the LedgerStore port and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	profile := domain.ProfileByName(config.Get("WORKFLOW_PROFILE", "warehouse"))

	store, cleanup, err := buildStore(config.Get("STORE", "csv"))
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	engine := services.NewReconciler(store, profile)

	// Resume the persisted manifest, if one survives from a previous run.
	if err := engine.Restore(context.Background()); err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(parser.New(), engine, extract.NewPDFTextExtractor())

	log.Printf("Server listening addr=:%s store=%s profile=%s", port, config.Get("STORE", "csv"), profile.Name)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildStore selects the ledger store backend. The returned cleanup closes
// whatever connection the backend holds.
func buildStore(kind string) (ports.LedgerStore, func(), error) {
	noop := func() {}

	switch kind {
	case "memory":
		return stores.NewMemoryLedgerStore(), noop, nil

	case "csv":
		path := config.Get("DATA_FILE", "data/orders.csv")
		return stores.NewCSVLedgerStore(path), noop, nil

	case "sqlite":
		conn, err := db.OpenSqlite(config.Get("DB_PATH", "data/app.db"))
		if err != nil {
			return nil, noop, err
		}
		if err := stores.InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return stores.NewSqliteLedgerStore(conn), func() { conn.Close() }, nil

	case "postgres":
		url := config.Get("DATABASE_URL", "")
		if url == "" {
			return nil, noop, fmt.Errorf("build store: DATABASE_URL is required for the postgres store")
		}
		conn, err := db.OpenPostgres(url)
		if err != nil {
			return nil, noop, err
		}
		if err := stores.InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return stores.NewSQLLedgerStore(conn), func() { conn.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: config.Get("REDIS_ADDR", "localhost:6379"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, noop, fmt.Errorf("build store: verify redis connection: %w", err)
		}
		return stores.NewRedisLedgerStore(client), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("build store: unknown STORE %q", kind)
	}
}
