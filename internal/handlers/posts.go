// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/posts"
	"inkpress/internal/render"
)

// Posts groups the post read and delete HTTP handlers.
type Posts struct {
	service   *posts.Service
	uploads   *Uploads
	feedCache *cache.FeedCache
}

// NewPosts creates a new Posts handler group. uploads and feedCache may
// be nil when storage or Valkey is not configured.
func NewPosts(service *posts.Service, uploads *Uploads, feedCache *cache.FeedCache) *Posts {
	return &Posts{
		service:   service,
		uploads:   uploads,
		feedCache: feedCache,
	}
}

// List serves the published preview feed, optionally filtered by the
// search query parameter. Responses are cached in Valkey; any publish
// or delete clears the cache.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	if h.feedCache != nil {
		if body, ok := h.feedCache.Get(r.Context(), cache.FeedKey(search)); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	previews, err := h.service.ListPublished(r.Context(), search)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	body, err := json.Marshal(previews)
	if err != nil {
		slog.Error("feed encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.feedCache != nil {
		h.feedCache.Set(r.Context(), cache.FeedKey(search), body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// MyBlogs serves all of the authenticated author's posts as previews,
// unpublished ones included.
func (h *Posts) MyBlogs(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	previews, err := h.service.ListByAuthor(r.Context(), sess.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, previews)
}

// postView is the JSON shape of a fully rendered post: its metadata
// plus the display instruction sequence derived from its blocks.
type postView struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	CoverImageURL *string              `json:"cover_image_url,omitempty"`
	Published     bool                 `json:"published"`
	AuthorID      uuid.UUID            `json:"author_id"`
	CreatedAt     string               `json:"created_at"`
	Instructions  []render.Instruction `json:"instructions"`
}

// Get serves one post as a display instruction sequence.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, instructions, err := h.service.Render(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, postView{
		ID:            post.ID,
		Title:         post.Title,
		CoverImageURL: post.CoverImageURL,
		Published:     post.Published,
		AuthorID:      post.AuthorID,
		CreatedAt:     post.CreatedAt.UTC().Format(time.RFC3339),
		Instructions:  instructions,
	})
}

// Delete removes a post. Only its author may delete it; the service
// enforces the 401/403/404 taxonomy. Uploaded images referenced by the
// post are cleaned from S3 best-effort after the rows are gone.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	// Snapshot image URLs before the rows disappear.
	var imageURLs []string
	if h.uploads != nil {
		if post, _, err := h.service.Render(r.Context(), id); err == nil {
			if post.CoverImageURL != nil {
				imageURLs = append(imageURLs, *post.CoverImageURL)
			}
			for i := range post.Blocks {
				if post.Blocks[i].Type == models.BlockImage {
					if url := post.Blocks[i].ImagePayload().URL; url != "" {
						imageURLs = append(imageURLs, url)
					}
				}
			}
		}
	}

	if err := h.service.Delete(r.Context(), id, sess.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	if h.uploads != nil {
		for _, url := range imageURLs {
			h.uploads.cleanup(r, url)
		}
	}
	if h.feedCache != nil {
		h.feedCache.InvalidateAll(r.Context())
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
