package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-feed-service/config"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"
	name := "demoUser"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", userID, email, name, password)

	posts := []struct {
		title, content, image string
	}{
		{"First post", "Hello, this is the first seeded post.", "images/seed-first.png"},
		{"Second post", "Another seeded post so the feed paginates.", "images/seed-second.png"},
		{"Third post", "A third post pushes the feed onto page two.", "images/seed-third.png"},
	}
	for _, p := range posts {
		var postID string
		if err := db.QueryRow(`
			INSERT INTO posts (title, content, image_url, creator)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, p.title, p.content, p.image, userID).Scan(&postID); err != nil {
			log.Fatalf("failed to seed post %q: %v", p.title, err)
		}
		if _, err := db.Exec(`
			INSERT INTO user_posts (user_id, post_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, post_id) DO NOTHING
		`, userID, postID); err != nil {
			log.Fatalf("failed to link post %q: %v", p.title, err)
		}
		fmt.Printf("seeded post: id=%s title=%q\n", postID, p.title)
	}
}
