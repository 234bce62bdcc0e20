package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kali2114/ZenithFlowAPI/internal/api"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
	"github.com/Kali2114/ZenithFlowAPI/internal/worker"
)

func main() {
	godotenv.Load(".env.dev")

	api.SetupGlobalHandler("zenithflow-worker")

	natsURL := os.Getenv("NATS_URL")

	if natsURL == "" {
		log.Fatal("NATS_URL environment variable is not set")
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewPostgresUserRepository(db)

	if err := worker.Start(natsURL, userRepo); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Notification worker started, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down notification worker...")
}
