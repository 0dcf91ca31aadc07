package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/dayline-app/dayline/config"
	"github.com/dayline-app/dayline/internal/domain/entity"
	"github.com/dayline-app/dayline/pkg/helpers"
)

// Dev seeder: one demo account with a handful of tasks. Re-running replaces
// the demo tasks.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@dayline.app"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT ((lower(email))) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	if _, err := db.Exec(`DELETE FROM tasks WHERE owner_id = $1`, id); err != nil {
		log.Fatalf("failed to clear demo tasks: %v", err)
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	tasks := []struct {
		title       string
		description string
		priority    string
		due         *time.Time
		completed   bool
	}{
		{"Buy milk", "2% if they have it", entity.PriorityHigh, &tomorrow, false},
		{"Review pull request", "", entity.PriorityMedium, nil, false},
		{"Renew gym membership", "expires end of month", entity.PriorityLow, nil, true},
	}
	for _, t := range tasks {
		if _, err := db.Exec(`
			INSERT INTO tasks (owner_id, title, description, priority, due_date, completed)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, t.title, t.description, t.priority, t.due, t.completed); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}
	fmt.Printf("seeded %d tasks for %s\n", len(tasks), email)
}
