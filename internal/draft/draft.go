// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package draft implements the pre-submission authoring state for a new
// post: an append-only block sequence with per-slot image upload tracking.
// A draft belongs to exactly one authoring session and lives only in that
// session's memory until it is submitted; nothing here touches storage.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// Submission errors.
var (
	ErrTitleRequired  = errors.New("title is required")
	ErrNoBlocks       = errors.New("post has no blocks")
	ErrPendingUploads = errors.New("uploads still in progress")
	ErrUploadNotBegun = errors.New("no upload in progress for slot")
	ErrNotImageBlock  = errors.New("block is not an image block")
)

// UploadState tracks one upload slot. A slot moves idle -> uploading ->
// resolved on success, or back to idle on failure. Textual fields of the
// slot (caption, alt) stay independently editable while uploading.
type UploadState string

const (
	UploadIdle     UploadState = "idle"
	UploadInFlight UploadState = "uploading"
	UploadResolved UploadState = "resolved"
)

// Block is one draft content unit. Unlike a persisted block it carries
// upload state and has no order: order is derived from list position at
// submission time.
type Block struct {
	ID     uuid.UUID        `json:"id"`
	Type   models.BlockType `json:"type"`
	Data   json.RawMessage  `json:"data"`
	Upload UploadState      `json:"upload"`
}

// Draft is the in-progress authoring state for a new post. All methods
// are safe for concurrent use, though a draft is intended to be driven by
// a single session.
type Draft struct {
	ID       uuid.UUID
	AuthorID uuid.UUID

	mu          sync.Mutex
	title       string
	published   bool
	coverURL    string
	coverUpload UploadState
	blocks      []Block
}

// Payload is the validated result of a successful submission. Blocks
// carry dense order values derived from their list position after
// abandoned image blocks were filtered out. DroppedBlocks lists the ids
// of image blocks removed because no file was ever uploaded for them;
// the caller must surface this to the author.
type Payload struct {
	Title         string                `json:"title"`
	CoverImageURL *string               `json:"cover_image_url,omitempty"`
	Published     bool                  `json:"published"`
	Blocks        []models.ContentBlock `json:"blocks"`
	DroppedBlocks []uuid.UUID           `json:"dropped_blocks,omitempty"`
}

// New creates an empty draft for the given author. Posts are published by
// default, matching the authoring flow.
func New(authorID uuid.UUID) *Draft {
	return &Draft{
		ID:          uuid.New(),
		AuthorID:    authorID,
		published:   true,
		coverUpload: UploadIdle,
	}
}

// SetTitle replaces the draft title.
func (d *Draft) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

// SetPublished sets the publication flag submitted with the post.
func (d *Draft) SetPublished(published bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = published
}

// AppendBlock creates a block of the given type with its type-appropriate
// empty payload and appends it to the end of the sequence. There is no
// mid-sequence insertion and no reordering: sequence order is insertion
// order minus deletions.
func (d *Draft) AppendBlock(t models.BlockType) (uuid.UUID, error) {
	if !t.Valid() {
		return uuid.Nil, fmt.Errorf("%w: %q", models.ErrInvalidBlockType, t)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	b := Block{
		ID:     uuid.New(),
		Type:   t,
		Data:   models.EmptyData(t),
		Upload: UploadIdle,
	}
	d.blocks = append(d.blocks, b)
	return b.ID, nil
}

// UpdateBlockData replaces the payload of the block with the given id.
// Unknown ids are a silent no-op: ids are generated internally and never
// come from an untrusted source at this stage. The block's upload state
// is untouched, so captions stay editable mid-upload.
func (d *Draft) UpdateBlockData(id uuid.UUID, data json.RawMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.blocks {
		if d.blocks[i].ID == id {
			d.blocks[i].Data = data
			return
		}
	}
}

// DeleteBlock removes the block with the given id. Order is recomputed
// from list position at submission, so no renumbering happens here.
func (d *Draft) DeleteBlock(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.blocks {
		if d.blocks[i].ID == id {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			return
		}
	}
}

// Blocks returns a snapshot of the current block sequence.
func (d *Draft) Blocks() []Block {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// BeginImageUpload marks the image block's upload slot as in flight.
// Submission is blocked until the upload completes or fails.
func (d *Draft) BeginImageUpload(blockID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.blocks {
		if d.blocks[i].ID == blockID {
			if d.blocks[i].Type != models.BlockImage {
				return ErrNotImageBlock
			}
			d.blocks[i].Upload = UploadInFlight
			return nil
		}
	}
	return fmt.Errorf("begin upload: block %s not found", blockID)
}

// CompleteImageUpload stores the resulting url into the block's payload,
// preserving caption and alt text edited while the upload ran, and marks
// the slot resolved.
func (d *Draft) CompleteImageUpload(blockID uuid.UUID, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.blocks {
		if d.blocks[i].ID != blockID {
			continue
		}
		if d.blocks[i].Upload != UploadInFlight {
			return ErrUploadNotBegun
		}

		var data models.ImageData
		_ = json.Unmarshal(d.blocks[i].Data, &data)
		data.URL = url
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("complete upload: %w", err)
		}
		d.blocks[i].Data = raw
		d.blocks[i].Upload = UploadResolved
		return nil
	}
	return fmt.Errorf("complete upload: block %s not found", blockID)
}

// FailImageUpload returns the block's slot to idle without a url. The
// block stays in the draft; if it still has no url at submission it is
// dropped and reported.
func (d *Draft) FailImageUpload(blockID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.blocks {
		if d.blocks[i].ID == blockID {
			if d.blocks[i].Upload != UploadInFlight {
				return ErrUploadNotBegun
			}
			d.blocks[i].Upload = UploadIdle
			return nil
		}
	}
	return fmt.Errorf("fail upload: block %s not found", blockID)
}

// BeginCoverUpload marks the cover image slot as in flight. The cover is
// post metadata, not a block, and has its own independent slot.
func (d *Draft) BeginCoverUpload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.coverUpload = UploadInFlight
}

// CompleteCoverUpload stores the cover image url and resolves the slot.
func (d *Draft) CompleteCoverUpload(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.coverUpload != UploadInFlight {
		return ErrUploadNotBegun
	}
	d.coverURL = url
	d.coverUpload = UploadResolved
	return nil
}

// FailCoverUpload returns the cover slot to idle. A post can publish
// without a cover image.
func (d *Draft) FailCoverUpload() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.coverUpload != UploadInFlight {
		return ErrUploadNotBegun
	}
	d.coverUpload = UploadIdle
	return nil
}

// Submit validates the draft and derives the submission payload.
//
// It fails with ErrTitleRequired on a blank title, ErrNoBlocks when no
// blocks remain, and ErrPendingUploads while any block or the cover slot
// is still uploading. Image blocks whose url is empty despite not being
// mid-upload were abandoned by the author: they are filtered out of the
// payload and reported in DroppedBlocks rather than failing the whole
// submission.
//
// Submit does not mutate the draft, so calling it twice without
// intervening edits yields the same payload.
func (d *Draft) Submit() (*Payload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.TrimSpace(d.title) == "" {
		return nil, ErrTitleRequired
	}
	if len(d.blocks) == 0 {
		return nil, ErrNoBlocks
	}
	if d.coverUpload == UploadInFlight {
		return nil, ErrPendingUploads
	}
	for i := range d.blocks {
		if d.blocks[i].Upload == UploadInFlight {
			return nil, ErrPendingUploads
		}
	}

	var (
		kept    []models.ContentBlock
		dropped []uuid.UUID
	)
	for i := range d.blocks {
		b := models.ContentBlock{
			ID:   d.blocks[i].ID,
			Type: d.blocks[i].Type,
			Data: d.blocks[i].Data,
		}
		if b.UploadIncomplete() {
			dropped = append(dropped, b.ID)
			continue
		}
		b.Order = len(kept) + 1
		kept = append(kept, b)
	}

	if len(kept) == 0 {
		return nil, ErrNoBlocks
	}

	p := &Payload{
		Title:         d.title,
		Published:     d.published,
		Blocks:        kept,
		DroppedBlocks: dropped,
	}
	if d.coverURL != "" {
		cover := d.coverURL
		p.CoverImageURL = &cover
	}
	return p, nil
}
