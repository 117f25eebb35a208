package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/earlysigns/backend/internal/config"
	"github.com/earlysigns/backend/internal/database"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin account email")
	name := flag.String("name", os.Getenv("ADMIN_NAME"), "admin display name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or ADMIN_EMAIL / ADMIN_PASSWORD)")
	}
	if *name == "" {
		*name = "Administrator"
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Re-running promotes an existing account instead of failing, so the
	// seeder can stay in deployment scripts.
	var id int64
	err = db.QueryRow(`
		INSERT INTO users (email, name, password, status, is_admin)
		VALUES ($1, $2, $3, 'approved', TRUE)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, password = EXCLUDED.password, status = 'approved', is_admin = TRUE
		RETURNING id`,
		*email, *name, string(hash),
	).Scan(&id)
	if err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	fmt.Printf("Admin account %s ready (id %d)\n", *email, id)
}
