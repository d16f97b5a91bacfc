// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render maps a stored block sequence into display-ready
// instructions, one per block, dispatched by block type. Rendering never
// fails for a whole post because one stored block became unrecognized:
// unknown or corrupt blocks degrade to a Skip instruction and are logged.
package render

import (
	"log/slog"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// Kind identifies the display instruction emitted for a block.
type Kind string

const (
	KindHeadingOne Kind = "heading_one"
	KindHeadingTwo Kind = "heading_two"
	KindParagraph  Kind = "paragraph"
	KindImage      Kind = "image"
	KindCode       Kind = "code"
	KindListItem   Kind = "list_item"

	// KindSkip marks a block the renderer could not recognize, typically
	// after schema drift. Consumers render nothing for it.
	KindSkip Kind = "skip"
)

// Instruction is one display-ready unit. Exactly one of the payload
// fields is populated, matching Kind. List items are emitted
// individually, in order; grouping consecutive items into a list
// container is the presentation layer's concern.
type Instruction struct {
	BlockID uuid.UUID         `json:"block_id"`
	Order   int               `json:"order"`
	Kind    Kind              `json:"kind"`
	Text    *models.TextData  `json:"text,omitempty"`
	Image   *models.ImageData `json:"image,omitempty"`
	Code    *models.CodeData  `json:"code,omitempty"`
}

// Render maps the stored block sequence into instructions in stored
// order. The dispatch is total over the closed block type set, with Skip
// as the forward-compatibility arm for anything else.
func Render(blocks []models.ContentBlock) []Instruction {
	out := make([]Instruction, 0, len(blocks))
	for i := range blocks {
		out = append(out, renderBlock(&blocks[i]))
	}
	return out
}

func renderBlock(b *models.ContentBlock) Instruction {
	ins := Instruction{BlockID: b.ID, Order: b.Order}

	switch b.Type {
	case models.BlockHeadingOne:
		ins.Kind = KindHeadingOne
		text := b.TextPayload()
		ins.Text = &text
	case models.BlockHeadingTwo:
		ins.Kind = KindHeadingTwo
		text := b.TextPayload()
		ins.Text = &text
	case models.BlockParagraph:
		ins.Kind = KindParagraph
		text := b.TextPayload()
		ins.Text = &text
	case models.BlockListItem:
		ins.Kind = KindListItem
		text := b.TextPayload()
		ins.Text = &text
	case models.BlockImage:
		ins.Kind = KindImage
		img := b.ImagePayload()
		ins.Image = &img
	case models.BlockCode:
		ins.Kind = KindCode
		code := b.CodePayload()
		ins.Code = &code
	default:
		slog.Warn("skipping unrecognized block type",
			"block_id", b.ID,
			"post_id", b.PostID,
			"type", b.Type,
		)
		ins.Kind = KindSkip
	}
	return ins
}
