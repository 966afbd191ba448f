package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Start consumers/schedulers (outbox relay, round expiry, dispute intake).
func main() {
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}

	log.Println("verification-engine worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("verification-engine worker stopped with error: %v", err)
	}
}
