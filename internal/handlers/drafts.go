// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/draft"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/posts"
)

// Drafts groups the draft composition HTTP handlers. Drafts live in the
// in-process registry only; the first storage write happens at submit.
type Drafts struct {
	registry  *draft.Registry
	service   *posts.Service
	uploads   *Uploads
	feedCache *cache.FeedCache
}

// NewDrafts creates a new Drafts handler group. uploads and feedCache
// may be nil when storage or Valkey is not configured.
func NewDrafts(registry *draft.Registry, service *posts.Service, uploads *Uploads, feedCache *cache.FeedCache) *Drafts {
	return &Drafts{
		registry:  registry,
		service:   service,
		uploads:   uploads,
		feedCache: feedCache,
	}
}

// draftView is the JSON shape of a draft returned to its author.
type draftView struct {
	ID     uuid.UUID     `json:"id"`
	Blocks []draft.Block `json:"blocks"`
}

// Create starts a new empty draft for the authenticated author.
func (h *Drafts) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	d := h.registry.Create(sess.UserID)
	slog.Info("draft started", "draft_id", d.ID, "author_id", sess.UserID)
	respondJSON(w, http.StatusCreated, draftView{ID: d.ID, Blocks: d.Blocks()})
}

// get resolves the draft named in the URL, enforcing author ownership.
// A draft owned by someone else reads as not found.
func (h *Drafts) get(w http.ResponseWriter, r *http.Request) *draft.Draft {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid draft id")
		return nil
	}

	d, ok := h.registry.Get(id, sess.UserID)
	if !ok {
		respondError(w, http.StatusNotFound, "draft not found")
		return nil
	}
	return d
}

// Get returns the draft's current block sequence.
func (h *Drafts) Get(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}
	respondJSON(w, http.StatusOK, draftView{ID: d.ID, Blocks: d.Blocks()})
}

type updateDraftRequest struct {
	Title     *string `json:"title"`
	Published *bool   `json:"published"`
}

// Update sets the draft's title and/or published flag.
func (h *Drafts) Update(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}

	var req updateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		if msg := validateTitle(*req.Title); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		d.SetTitle(*req.Title)
	}
	if req.Published != nil {
		d.SetPublished(*req.Published)
	}

	respondJSON(w, http.StatusOK, draftView{ID: d.ID, Blocks: d.Blocks()})
}

type appendBlockRequest struct {
	Type models.BlockType `json:"type"`
}

// AppendBlock adds a block of the requested type to the end of the draft.
func (h *Drafts) AppendBlock(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}

	var req appendBlockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	blockID, err := d.AppendBlock(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": blockID})
}

type updateBlockRequest struct {
	Data json.RawMessage `json:"data"`
}

// UpdateBlock replaces a block's data payload.
func (h *Drafts) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}

	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	var req updateBlockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Data) > maxBlockDataLen {
		respondError(w, http.StatusBadRequest, "block data is too large")
		return
	}

	d.UpdateBlockData(blockID, req.Data)
	respondJSON(w, http.StatusOK, draftView{ID: d.ID, Blocks: d.Blocks()})
}

// DeleteBlock removes a block from the draft.
func (h *Drafts) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}

	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	d.DeleteBlock(blockID)
	respondJSON(w, http.StatusOK, draftView{ID: d.ID, Blocks: d.Blocks()})
}

// UploadBlockImage receives a multipart image for an image block. The
// block's upload slot is marked in flight for the duration of the S3
// write; on failure it returns to idle so the author can retry.
func (h *Drafts) UploadBlockImage(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}
	if h.uploads == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	if err := d.BeginImageUpload(blockID); err != nil {
		if errors.Is(err, draft.ErrNotImageBlock) {
			respondError(w, http.StatusBadRequest, "block is not an image block")
			return
		}
		respondError(w, http.StatusNotFound, "block not found")
		return
	}

	url, err := h.uploads.store(w, r)
	if err != nil {
		// The slot was just marked in flight; rolling it back cannot fail.
		_ = d.FailImageUpload(blockID)
		return // store already wrote the error response
	}

	if err := d.CompleteImageUpload(blockID, url); err != nil {
		slog.Error("complete upload failed", "draft_id", d.ID, "block_id", blockID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// UploadCover receives a multipart image for the draft's cover slot.
func (h *Drafts) UploadCover(w http.ResponseWriter, r *http.Request) {
	d := h.get(w, r)
	if d == nil {
		return
	}
	if h.uploads == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	d.BeginCoverUpload()

	url, err := h.uploads.store(w, r)
	if err != nil {
		_ = d.FailCoverUpload()
		return
	}

	if err := d.CompleteCoverUpload(url); err != nil {
		slog.Error("complete cover upload failed", "draft_id", d.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Submit validates the draft, persists it as a post, and discards the
// draft. Image blocks that never got an upload are dropped from the
// post and reported back so the author knows what was lost.
func (h *Drafts) Submit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	d := h.get(w, r)
	if d == nil {
		return
	}

	payload, err := d.Submit()
	if err != nil {
		switch {
		case errors.Is(err, draft.ErrPendingUploads):
			respondError(w, http.StatusConflict, "uploads still in progress")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	postID, err := h.service.Publish(r.Context(), payload, sess.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// The draft is gone once its post exists; resubmitting is meaningless.
	h.registry.Remove(d.ID)

	if h.feedCache != nil {
		h.feedCache.InvalidateAll(r.Context())
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":             postID,
		"dropped_blocks": payload.DroppedBlocks,
	})
}
