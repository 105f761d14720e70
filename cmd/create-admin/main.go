// Command create-admin inserts a dashboard admin account.
//
//	DATABASE_URL=... create-admin -username admin -email admin@example.com -name "Site Admin" -password secret
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cnwankpa/portfolio-api/internal/admins"
)

func main() {
	username := flag.String("username", "", "login username")
	email := flag.String("email", "", "admin email address")
	fullName := flag.String("name", "", "full name")
	password := flag.String("password", "", "login password")
	superuser := flag.Bool("superuser", false, "grant superuser")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := admins.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	id := uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO admins (id, email, username, full_name, hashed_password, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, true, $6)
	`, id, *email, *username, *fullName, hash, *superuser)
	if err != nil {
		log.Fatalf("insert admin: %v", err)
	}

	fmt.Printf("created admin %s (%s)\n", *username, id)
}
