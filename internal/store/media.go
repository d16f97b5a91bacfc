// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Media records one uploaded asset so it can later be resolved and
// deleted by its public URL.
type Media struct {
	ID          uuid.UUID `json:"id"`
	S3Key       string    `json:"s3_key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploaderID  uuid.UUID `json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// MediaStore handles media record database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// Create inserts a media record for a completed upload.
func (s *MediaStore) Create(ctx context.Context, m *Media) (*Media, error) {
	result := &Media{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO media (s3_key, url, content_type, size_bytes, uploader_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, s3_key, url, content_type, size_bytes, uploader_id, created_at
	`, m.S3Key, m.URL, m.ContentType, m.SizeBytes, m.UploaderID).Scan(
		&result.ID, &result.S3Key, &result.URL, &result.ContentType,
		&result.SizeBytes, &result.UploaderID, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return result, nil
}

// FindByURL resolves a media record by its public URL. Returns nil if
// not found.
func (s *MediaStore) FindByURL(ctx context.Context, url string) (*Media, error) {
	m := &Media{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, s3_key, url, content_type, size_bytes, uploader_id, created_at
		FROM media WHERE url = $1
	`, url).Scan(&m.ID, &m.S3Key, &m.URL, &m.ContentType, &m.SizeBytes, &m.UploaderID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by url: %w", err)
	}
	return m, nil
}

// Delete removes a media record by id.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
