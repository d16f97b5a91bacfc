// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// BlockType identifies one of the six content unit variants a post is
// composed of. The set is closed: unrecognized values fail validation and
// are never coerced to a known type.
type BlockType string

const (
	BlockHeadingOne BlockType = "HEADING_ONE"
	BlockHeadingTwo BlockType = "HEADING_TWO"
	BlockParagraph  BlockType = "PARAGRAPH"
	BlockImage      BlockType = "IMAGE"
	BlockCode       BlockType = "CODE"
	BlockListItem   BlockType = "LIST_ITEM"
)

// Block validation errors.
var (
	ErrInvalidBlockType     = errors.New("invalid block type")
	ErrMissingRequiredField = errors.New("missing required block field")
)

// Valid reports whether t is one of the six enumerated block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockHeadingOne, BlockHeadingTwo, BlockParagraph, BlockImage, BlockCode, BlockListItem:
		return true
	}
	return false
}

// TextData is the payload for heading, paragraph, and list item blocks.
type TextData struct {
	Text string `json:"text"`
}

// ImageData is the payload for image blocks. URL stays empty until the
// upload completes, which marks the block as upload-incomplete.
type ImageData struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// CodeData is the payload for code blocks.
type CodeData struct {
	Code string `json:"code"`
}

// ContentBlock is one typed, ordered unit of post content. Blocks are
// owned exclusively by their parent post and share its lifetime. Order is
// a positive integer, dense from 1, assigned at persistence time.
type ContentBlock struct {
	ID     uuid.UUID       `json:"id"`
	PostID uuid.UUID       `json:"post_id"`
	Order  int             `json:"order"`
	Type   BlockType       `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// Validate checks that the block's type belongs to the closed enumeration
// and that its data payload decodes into the shape that type requires.
// It imposes no cross-block rules; ordering constraints live with the
// post aggregate.
func (b *ContentBlock) Validate() error {
	if !b.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidBlockType, b.Type)
	}

	switch b.Type {
	case BlockImage:
		var d ImageData
		if err := json.Unmarshal(b.Data, &d); err != nil {
			return fmt.Errorf("%w: image data: %v", ErrMissingRequiredField, err)
		}
	case BlockCode:
		var d CodeData
		if err := json.Unmarshal(b.Data, &d); err != nil {
			return fmt.Errorf("%w: code data: %v", ErrMissingRequiredField, err)
		}
	default:
		var d TextData
		if err := json.Unmarshal(b.Data, &d); err != nil {
			return fmt.Errorf("%w: text data: %v", ErrMissingRequiredField, err)
		}
	}
	return nil
}

// UploadIncomplete reports whether this is an image block whose URL is
// still empty. Such blocks are valid draft state but must never be
// persisted: a stored post may not reference an image that was never
// uploaded.
func (b *ContentBlock) UploadIncomplete() bool {
	if b.Type != BlockImage {
		return false
	}
	var d ImageData
	if err := json.Unmarshal(b.Data, &d); err != nil {
		return true
	}
	return d.URL == ""
}

// TextPayload decodes the block's data as a text payload. Returns the
// zero value if the payload does not decode.
func (b *ContentBlock) TextPayload() TextData {
	var d TextData
	_ = json.Unmarshal(b.Data, &d)
	return d
}

// ImagePayload decodes the block's data as an image payload.
func (b *ContentBlock) ImagePayload() ImageData {
	var d ImageData
	_ = json.Unmarshal(b.Data, &d)
	return d
}

// CodePayload decodes the block's data as a code payload.
func (b *ContentBlock) CodePayload() CodeData {
	var d CodeData
	_ = json.Unmarshal(b.Data, &d)
	return d
}

// EmptyData returns the type-appropriate empty payload for a freshly
// appended block of the given type.
func EmptyData(t BlockType) json.RawMessage {
	switch t {
	case BlockImage:
		return json.RawMessage(`{"url":"","caption":""}`)
	case BlockCode:
		return json.RawMessage(`{"code":""}`)
	default:
		return json.RawMessage(`{"text":""}`)
	}
}
