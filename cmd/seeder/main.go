//cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/wasendio/wasend-backend/internal/config"
	"github.com/wasendio/wasend-backend/internal/db"
	"github.com/wasendio/wasend-backend/internal/repository"
	"github.com/wasendio/wasend-backend/internal/service"
)

// Demo contacts for local development. Numbers are Twilio sandbox-style
// placeholders, not real recipients.
var seedContacts = []service.ContactInput{
	{PhoneNumber: "+14155550101", Name: "Ada Lovelace", Email: "ada@example.com", Tags: []string{"demo", "vip"}},
	{PhoneNumber: "+14155550102", Name: "Grace Hopper", Email: "grace@example.com", Tags: []string{"demo"}},
	{PhoneNumber: "+14155550103", Name: "Alan Turing", Email: "alan@example.com", Tags: []string{"demo"}},
	{PhoneNumber: "+14155550104", Name: "Katherine Johnson", Email: "katherine@example.com", Tags: []string{"demo", "vip"}},
	{PhoneNumber: "+14155550105", Name: "Dennis Ritchie", Email: "dennis@example.com", Tags: []string{"demo"}},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Disconnect(context.Background(), database)

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("indexes: %v", err)
	}

	contacts := &service.ContactService{
		ContactRepo: &repository.ContactRepository{DB: database},
		Logger:      slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}

	result, err := contacts.BulkImport(ctx, seedContacts)
	if err != nil {
		log.Fatalf("failed to seed contacts: %v", err)
	}
	fmt.Printf("Seeded contacts: %d added, %d skipped\n", result.Added, result.Skipped)

	fmt.Println("Database seeding completed successfully!")
}
