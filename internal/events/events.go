// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events publishes post lifecycle notifications for downstream
// consumers (feeds, newsletters, search indexers). Publishing is
// best-effort: a failed publish is logged by the caller and never rolls
// back the storage operation it follows.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the publishing core.
const (
	TypePostPublished = "post.published"
	TypePostDeleted   = "post.deleted"
)

// PostEvent is the envelope for post lifecycle notifications.
type PostEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title,omitempty"`
}

// NewPostPublished builds a post.published event.
func NewPostPublished(postID, authorID uuid.UUID, title string) PostEvent {
	return PostEvent{
		Type:      TypePostPublished,
		Timestamp: time.Now().UTC(),
		PostID:    postID,
		AuthorID:  authorID,
		Title:     title,
	}
}

// NewPostDeleted builds a post.deleted event.
func NewPostDeleted(postID, authorID uuid.UUID) PostEvent {
	return PostEvent{
		Type:      TypePostDeleted,
		Timestamp: time.Now().UTC(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}
