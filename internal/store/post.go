// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// PostStore handles all post and content block database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Listing is one row of a preview query: post metadata, the author's
// identity, and the post's first paragraph block when it has one. The
// block sequence is deliberately not loaded.
type Listing struct {
	Post           models.Post
	Author         models.Author
	FirstParagraph *models.ContentBlock
}

// CreateWithBlocks persists a post aggregate and all of its blocks in a
// single transaction. Either the post row and every block row exist
// afterwards, or none do: any failure rolls the whole transaction back.
func (s *PostStore) CreateWithBlocks(ctx context.Context, p *models.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create post: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (id, title, cover_image_url, published, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Title, p.CoverImageURL, p.Published, p.AuthorID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create post: insert post: %w", err)
	}

	for i := range p.Blocks {
		b := &p.Blocks[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO content_blocks (id, post_id, "order", type, data)
			VALUES ($1, $2, $3, $4, $5)
		`, b.ID, b.PostID, b.Order, b.Type, []byte(b.Data))
		if err != nil {
			return fmt.Errorf("create post: insert block %d: %w", b.Order, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create post: commit: %w", err)
	}
	return nil
}

// FindByID retrieves a post with its full ordered block sequence.
// Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p := &models.Post{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, cover_image_url, published, author_id, created_at
		FROM posts WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.CoverImageURL, &p.Published, &p.AuthorID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, "order", type, data
		FROM content_blocks
		WHERE post_id = $1
		ORDER BY "order" ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find post blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.ContentBlock
		var data []byte
		if err := rows.Scan(&b.ID, &b.PostID, &b.Order, &b.Type, &data); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		b.Data = data
		p.Blocks = append(p.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return p, nil
}

// ListPublished returns published posts newest first, each with its
// author and first paragraph block for preview projection. When search
// is non-empty it filters by case-insensitive substring match against
// the post title or the author's display name.
func (s *PostStore) ListPublished(ctx context.Context, search string) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.cover_image_url, p.published, p.author_id, p.created_at,
		       u.id, u.display_name, u.avatar_url,
		       fp.id, fp.post_id, fp."order", fp.type, fp.data
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN LATERAL (
			SELECT id, post_id, "order", type, data
			FROM content_blocks
			WHERE post_id = p.id AND type = 'PARAGRAPH'
			ORDER BY "order" ASC
			LIMIT 1
		) fp ON true
		WHERE p.published
		  AND ($1 = '' OR p.title ILIKE '%' || $1 || '%' OR u.display_name ILIKE '%' || $1 || '%')
		ORDER BY p.created_at DESC
	`, search)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// ListByAuthor returns all of one author's posts newest first, drafts
// included, with author identity and first paragraph for previews.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.cover_image_url, p.published, p.author_id, p.created_at,
		       u.id, u.display_name, u.avatar_url,
		       fp.id, fp.post_id, fp."order", fp.type, fp.data
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN LATERAL (
			SELECT id, post_id, "order", type, data
			FROM content_blocks
			WHERE post_id = p.id AND type = 'PARAGRAPH'
			ORDER BY "order" ASC
			LIMIT 1
		) fp ON true
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// Delete removes a post; its blocks go with it via ON DELETE CASCADE.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// scanListings reads preview listing rows, tolerating the absent first
// paragraph of posts that have none.
func scanListings(rows *sql.Rows) ([]Listing, error) {
	var items []Listing
	for rows.Next() {
		var (
			l         Listing
			avatarURL sql.NullString
			blockID   *uuid.UUID
			blockPost *uuid.UUID
			order     sql.NullInt64
			blockType sql.NullString
			data      []byte
		)
		if err := rows.Scan(
			&l.Post.ID, &l.Post.Title, &l.Post.CoverImageURL, &l.Post.Published,
			&l.Post.AuthorID, &l.Post.CreatedAt,
			&l.Author.ID, &l.Author.DisplayName, &avatarURL,
			&blockID, &blockPost, &order, &blockType, &data,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if avatarURL.Valid {
			l.Author.AvatarRef = avatarURL.String
		}
		if blockID != nil {
			l.FirstParagraph = &models.ContentBlock{
				ID:     *blockID,
				PostID: *blockPost,
				Order:  int(order.Int64),
				Type:   models.BlockType(blockType.String),
				Data:   data,
			}
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
