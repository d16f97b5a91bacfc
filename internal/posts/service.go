// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package posts is the application service over the publishing core: it
// commits validated draft payloads into stored posts, serves preview
// listings and render instruction sequences, and enforces the
// author-only delete rule.
package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/draft"
	"inkpress/internal/events"
	"inkpress/internal/models"
	"inkpress/internal/preview"
	"inkpress/internal/render"
	"inkpress/internal/store"
)

// Repository is the persistence capability the service requires. The
// post-with-blocks write must be atomic: either every row lands or none.
type Repository interface {
	CreateWithBlocks(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListPublished(ctx context.Context, search string) ([]store.Listing, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]store.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service wires the repository and the event publisher together.
type Service struct {
	repo   Repository
	events events.Publisher
}

// NewService creates a post service. A nil publisher falls back to the
// no-op publisher.
func NewService(repo Repository, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &Service{repo: repo, events: pub}
}

// Publish atomically materializes a submitted draft payload into a
// stored post and returns its id.
//
// The payload is re-validated here even though the draft builder already
// validated it: client-side validation is never trusted alone. Every
// block type must be in the closed enumeration, no image block may carry
// an empty url, and the title must be non-empty. Any violation aborts
// with a ValidationError listing all reasons and zero persisted rows.
func (s *Service) Publish(ctx context.Context, payload *draft.Payload, authorID uuid.UUID) (uuid.UUID, error) {
	if authorID == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}

	if reasons := validatePayload(payload); len(reasons) > 0 {
		return uuid.Nil, &ValidationError{Reasons: reasons}
	}

	post, err := models.NewPost(payload.Title, payload.CoverImageURL, authorID, payload.Published, payload.Blocks)
	if err != nil {
		// NewPost re-checks the same invariants; reaching this means the
		// checks above and the aggregate disagree.
		return uuid.Nil, &ValidationError{Reasons: []string{err.Error()}}
	}

	if err := s.repo.CreateWithBlocks(ctx, post); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Only a live post announces itself; saving an unpublished draft is
	// not news for feeds or indexers.
	if post.Published {
		if err := s.events.Publish(ctx, events.NewPostPublished(post.ID, authorID, post.Title)); err != nil {
			slog.Warn("post.published event not delivered", "post_id", post.ID, "error", err)
		}
	}

	slog.Info("post published",
		"post_id", post.ID,
		"author_id", authorID,
		"blocks", len(post.Blocks),
		"dropped", len(payload.DroppedBlocks),
	)
	return post.ID, nil
}

// Delete removes a post. Only the post's author may delete it; this is
// the single access control rule the core enforces itself. A missing
// post reports ErrNotFound, which is a normal outcome (the author may
// have raced a concurrent delete), never a fault.
func (s *Service) Delete(ctx context.Context, postID, principalID uuid.UUID) error {
	if principalID == uuid.Nil {
		return ErrUnauthenticated
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if post == nil {
		return ErrNotFound
	}
	if !post.OwnedBy(principalID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := s.events.Publish(ctx, events.NewPostDeleted(postID, principalID)); err != nil {
		slog.Warn("post.deleted event not delivered", "post_id", postID, "error", err)
	}

	slog.Info("post deleted", "post_id", postID, "author_id", principalID)
	return nil
}

// ListPublished returns previews of published posts, newest first,
// optionally filtered by a case-insensitive substring match on title or
// author display name. Previews are recomputed per call.
func (s *Service) ListPublished(ctx context.Context, search string) ([]preview.Preview, error) {
	listings, err := s.repo.ListPublished(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return project(listings), nil
}

// ListByAuthor returns previews of every post by one author, drafts
// included.
func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]preview.Preview, error) {
	if authorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	listings, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return project(listings), nil
}

// Render loads a post and maps its stored block sequence into display
// instructions.
func (s *Service) Render(ctx context.Context, postID uuid.UUID) (*models.Post, []render.Instruction, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if post == nil {
		return nil, nil, ErrNotFound
	}
	return post, render.Render(post.Blocks), nil
}

// validatePayload collects every boundary violation instead of stopping
// at the first, so the author sees the full picture in one round trip.
func validatePayload(p *draft.Payload) []string {
	var reasons []string

	if strings.TrimSpace(p.Title) == "" {
		reasons = append(reasons, "title is required")
	}
	if len(p.Blocks) == 0 {
		reasons = append(reasons, "at least one block is required")
	}
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if err := b.Validate(); err != nil {
			if errors.Is(err, models.ErrInvalidBlockType) {
				reasons = append(reasons, fmt.Sprintf("block %d: invalid type %q", i+1, b.Type))
			} else {
				reasons = append(reasons, fmt.Sprintf("block %d: %v", i+1, err))
			}
			continue
		}
		if b.UploadIncomplete() {
			reasons = append(reasons, fmt.Sprintf("block %d: image is missing an uploaded url", i+1))
		}
	}
	return reasons
}

func project(listings []store.Listing) []preview.Preview {
	out := make([]preview.Preview, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		out = append(out, preview.Project(&l.Post, l.FirstParagraph, l.Author))
	}
	return out
}
