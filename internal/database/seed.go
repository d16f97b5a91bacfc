package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// author and one sample post with a small block sequence. It is a no-op
// when any users already exist, so it is safe to call on every startup.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var authorID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "admin@inkpress.local", string(hash), "Admin User").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	postID := uuid.New()
	_, err = db.Exec(`
		INSERT INTO posts (id, title, published, author_id)
		VALUES ($1, $2, TRUE, $3)
	`, postID, "First Day on Campus: A Survival Guide", authorID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	blocks := []struct {
		blockType string
		data      string
	}{
		{"HEADING_ONE", `{"text":"Welcome"}`},
		{"PARAGRAPH", `{"text":"Navigating your first day can be tough. Here are some tips to make it a breeze and start your semester right!"}`},
		{"LIST_ITEM", `{"text":"Arrive early"}`},
		{"LIST_ITEM", `{"text":"Bring a map"}`},
	}
	for i, b := range blocks {
		_, err = db.Exec(`
			INSERT INTO content_blocks (id, post_id, "order", type, data)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), postID, i+1, b.blockType, b.data)
		if err != nil {
			return fmt.Errorf("seed insert block %d: %w", i+1, err)
		}
	}

	slog.Info("database seeded with default author and sample post",
		"email", "admin@inkpress.local",
		"post_id", postID,
	)
	return nil
}
