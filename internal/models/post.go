// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post aggregate errors.
var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrNoBlocks         = errors.New("at least one block is required")
	ErrIncompleteUpload = errors.New("image block missing uploaded url")
)

// Post is the aggregate root for an article. It owns its ordered block
// sequence; blocks are created together with the post and are read-only
// afterwards. Either the post and all of its blocks exist, or none do.
type Post struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	CoverImageURL *string        `json:"cover_image_url,omitempty"`
	Published     bool           `json:"published"`
	AuthorID      uuid.UUID      `json:"author_id"`
	CreatedAt     time.Time      `json:"created_at"`
	Blocks        []ContentBlock `json:"blocks,omitempty"`
}

// NewPost assembles a post aggregate from its parts, enforcing the
// aggregate invariants:
//
//   - the title must be non-empty after trimming,
//   - the block sequence must contain at least one block,
//   - every block type must belong to the closed enumeration,
//   - no image block may have an empty url.
//
// On success, blocks are assigned dense order values 1..N matching their
// given sequence, and CreatedAt is set to the current time.
func NewPost(title string, coverImageURL *string, authorID uuid.UUID, published bool, blocks []ContentBlock) (*Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}

	for i := range blocks {
		if err := blocks[i].Validate(); err != nil {
			return nil, err
		}
		if blocks[i].UploadIncomplete() {
			return nil, ErrIncompleteUpload
		}
	}

	id := uuid.New()
	ordered := make([]ContentBlock, len(blocks))
	copy(ordered, blocks)
	for i := range ordered {
		if ordered[i].ID == uuid.Nil {
			ordered[i].ID = uuid.New()
		}
		ordered[i].PostID = id
		ordered[i].Order = i + 1
	}

	return &Post{
		ID:            id,
		Title:         title,
		CoverImageURL: coverImageURL,
		Published:     published,
		AuthorID:      authorID,
		CreatedAt:     time.Now(),
		Blocks:        ordered,
	}, nil
}

// OwnedBy reports whether the given principal is the post's author.
// Deletion is authorized only for the author; this is the one access
// control rule the post subsystem enforces itself.
func (p *Post) OwnedBy(principalID uuid.UUID) bool {
	return p.AuthorID == principalID
}
