package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func textBlock(t BlockType, text string) ContentBlock {
	data, _ := json.Marshal(TextData{Text: text})
	return ContentBlock{Type: t, Data: data}
}

func imageBlock(url string) ContentBlock {
	data, _ := json.Marshal(ImageData{URL: url})
	return ContentBlock{Type: BlockImage, Data: data}
}

// TestNewPostAssignsDenseOrder verifies that a valid post gets order
// values 1..N matching the input sequence exactly.
func TestNewPostAssignsDenseOrder(t *testing.T) {
	author := uuid.New()
	blocks := []ContentBlock{
		textBlock(BlockHeadingOne, "Title"),
		imageBlock("https://cdn.example.com/pic.png"),
		textBlock(BlockParagraph, "Body"),
		textBlock(BlockListItem, "Item"),
	}

	post, err := NewPost("Hello", nil, author, true, blocks)
	if err != nil {
		t.Fatalf("NewPost: %v", err)
	}

	if post.ID == uuid.Nil {
		t.Error("post ID not assigned")
	}
	if post.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if len(post.Blocks) != len(blocks) {
		t.Fatalf("got %d blocks, want %d", len(post.Blocks), len(blocks))
	}
	for i, b := range post.Blocks {
		if b.Order != i+1 {
			t.Errorf("block %d order = %d, want %d", i, b.Order, i+1)
		}
		if b.PostID != post.ID {
			t.Errorf("block %d post id = %s, want %s", i, b.PostID, post.ID)
		}
		if b.ID == uuid.Nil {
			t.Errorf("block %d id not assigned", i)
		}
		if b.Type != blocks[i].Type {
			t.Errorf("block %d type = %s, want %s (input order must be preserved)", i, b.Type, blocks[i].Type)
		}
	}
}

// TestNewPostValidation covers the aggregate-level failure cases.
func TestNewPostValidation(t *testing.T) {
	author := uuid.New()
	one := []ContentBlock{textBlock(BlockParagraph, "hi")}

	tests := []struct {
		name    string
		title   string
		blocks  []ContentBlock
		wantErr error
	}{
		{name: "empty title", title: "", blocks: one, wantErr: ErrEmptyTitle},
		{name: "whitespace title", title: "   ", blocks: one, wantErr: ErrEmptyTitle},
		{name: "no blocks", title: "Hello", blocks: nil, wantErr: ErrNoBlocks},
		{name: "no blocks beats bad title ordering", title: "Valid", blocks: []ContentBlock{}, wantErr: ErrNoBlocks},
		{
			name:    "incomplete image upload",
			title:   "Hello",
			blocks:  []ContentBlock{textBlock(BlockParagraph, "hi"), imageBlock("")},
			wantErr: ErrIncompleteUpload,
		},
		{
			name:    "invalid block type",
			title:   "Hello",
			blocks:  []ContentBlock{{Type: BlockType("GIF"), Data: json.RawMessage(`{}`)}},
			wantErr: ErrInvalidBlockType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPost(tt.title, nil, author, true, tt.blocks)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewPost() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestNewPostSingleParagraph is the minimal publish scenario: one
// paragraph block, no cover image.
func TestNewPostSingleParagraph(t *testing.T) {
	post, err := NewPost("Hello", nil, uuid.New(), true, []ContentBlock{
		textBlock(BlockParagraph, "Hi there"),
	})
	if err != nil {
		t.Fatalf("NewPost: %v", err)
	}
	if len(post.Blocks) != 1 || post.Blocks[0].Order != 1 {
		t.Fatalf("want exactly one block with order 1, got %+v", post.Blocks)
	}
	if post.CoverImageURL != nil {
		t.Errorf("cover image url = %v, want nil", *post.CoverImageURL)
	}
}

// TestNewPostDoesNotMutateInput verifies the caller's slice is left
// untouched by order assignment.
func TestNewPostDoesNotMutateInput(t *testing.T) {
	blocks := []ContentBlock{textBlock(BlockParagraph, "a"), textBlock(BlockParagraph, "b")}
	if _, err := NewPost("Hello", nil, uuid.New(), true, blocks); err != nil {
		t.Fatalf("NewPost: %v", err)
	}
	for i, b := range blocks {
		if b.Order != 0 {
			t.Errorf("input block %d order mutated to %d", i, b.Order)
		}
	}
}

// TestPostOwnedBy verifies the author-only ownership check.
func TestPostOwnedBy(t *testing.T) {
	author := uuid.New()
	post := &Post{AuthorID: author}

	if !post.OwnedBy(author) {
		t.Error("OwnedBy(author) = false, want true")
	}
	if post.OwnedBy(uuid.New()) {
		t.Error("OwnedBy(stranger) = true, want false")
	}
}
