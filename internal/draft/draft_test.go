package draft

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func paragraphDraft(t *testing.T, text string) (*Draft, uuid.UUID) {
	t.Helper()
	d := New(uuid.New())
	d.SetTitle("Hello")
	id, err := d.AppendBlock(models.BlockParagraph)
	if err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}
	data, _ := json.Marshal(models.TextData{Text: text})
	d.UpdateBlockData(id, data)
	return d, id
}

// TestAppendBlock verifies append-only growth with type-appropriate empty
// payloads, and rejection of unknown types.
func TestAppendBlock(t *testing.T) {
	d := New(uuid.New())

	types := []models.BlockType{
		models.BlockHeadingOne, models.BlockParagraph,
		models.BlockImage, models.BlockCode, models.BlockListItem,
	}
	for _, bt := range types {
		if _, err := d.AppendBlock(bt); err != nil {
			t.Fatalf("AppendBlock(%s): %v", bt, err)
		}
	}

	blocks := d.Blocks()
	if len(blocks) != len(types) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(types))
	}
	for i, b := range blocks {
		if b.Type != types[i] {
			t.Errorf("block %d type = %s, want %s (append order must hold)", i, b.Type, types[i])
		}
		if b.Upload != UploadIdle {
			t.Errorf("block %d upload state = %s, want idle", i, b.Upload)
		}
	}

	if _, err := d.AppendBlock(models.BlockType("TABLE")); !errors.Is(err, models.ErrInvalidBlockType) {
		t.Errorf("AppendBlock(TABLE) error = %v, want ErrInvalidBlockType", err)
	}
}

// TestUpdateBlockDataUnknownID verifies the silent no-op contract for
// unknown block ids.
func TestUpdateBlockDataUnknownID(t *testing.T) {
	d, _ := paragraphDraft(t, "hi")
	before := d.Blocks()

	d.UpdateBlockData(uuid.New(), json.RawMessage(`{"text":"intruder"}`))

	after := d.Blocks()
	if !reflect.DeepEqual(before, after) {
		t.Error("update with unknown id must not change the draft")
	}
}

// TestDeleteBlockClosesGap verifies deletion plus order derivation at
// submit: the remaining blocks get dense 1..N order.
func TestDeleteBlockClosesGap(t *testing.T) {
	d := New(uuid.New())
	d.SetTitle("Hello")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := d.AppendBlock(models.BlockParagraph)
		if err != nil {
			t.Fatalf("AppendBlock: %v", err)
		}
		data, _ := json.Marshal(models.TextData{Text: string(rune('a' + i))})
		d.UpdateBlockData(id, data)
		ids = append(ids, id)
	}

	d.DeleteBlock(ids[1])

	p, err := d.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(p.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(p.Blocks))
	}
	for i, b := range p.Blocks {
		if b.Order != i+1 {
			t.Errorf("block %d order = %d, want %d", i, b.Order, i+1)
		}
	}
	if p.Blocks[0].ID != ids[0] || p.Blocks[1].ID != ids[2] {
		t.Error("surviving blocks out of order after delete")
	}
}

// TestUploadStateMachine walks one image slot through
// idle -> uploading -> resolved, and through the failure leg.
func TestUploadStateMachine(t *testing.T) {
	d := New(uuid.New())
	id, err := d.AppendBlock(models.BlockImage)
	if err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}

	if err := d.CompleteImageUpload(id, "https://x/a.png"); !errors.Is(err, ErrUploadNotBegun) {
		t.Errorf("complete before begin = %v, want ErrUploadNotBegun", err)
	}

	if err := d.BeginImageUpload(id); err != nil {
		t.Fatalf("BeginImageUpload: %v", err)
	}
	if got := d.Blocks()[0].Upload; got != UploadInFlight {
		t.Fatalf("upload state = %s, want uploading", got)
	}

	// Caption edits stay orthogonal to the upload axis.
	d.UpdateBlockData(id, json.RawMessage(`{"url":"","caption":"sunset"}`))
	if got := d.Blocks()[0].Upload; got != UploadInFlight {
		t.Fatalf("caption edit reset upload state to %s", got)
	}

	if err := d.CompleteImageUpload(id, "https://cdn.example.com/sunset.png"); err != nil {
		t.Fatalf("CompleteImageUpload: %v", err)
	}
	b := d.Blocks()[0]
	if b.Upload != UploadResolved {
		t.Errorf("upload state = %s, want resolved", b.Upload)
	}
	var data models.ImageData
	if err := json.Unmarshal(b.Data, &data); err != nil {
		t.Fatalf("unmarshal image data: %v", err)
	}
	if data.URL != "https://cdn.example.com/sunset.png" {
		t.Errorf("url = %q, want uploaded url", data.URL)
	}
	if data.Caption != "sunset" {
		t.Errorf("caption = %q, want %q (mid-upload edit must survive)", data.Caption, "sunset")
	}

	// Failure leg: a second slot that fails returns to idle without a url.
	id2, _ := d.AppendBlock(models.BlockImage)
	if err := d.BeginImageUpload(id2); err != nil {
		t.Fatalf("BeginImageUpload: %v", err)
	}
	if err := d.FailImageUpload(id2); err != nil {
		t.Fatalf("FailImageUpload: %v", err)
	}
	if got := d.Blocks()[1].Upload; got != UploadIdle {
		t.Errorf("failed slot state = %s, want idle", got)
	}
}

// TestBeginUploadOnTextBlock verifies that text blocks have no upload slot.
func TestBeginUploadOnTextBlock(t *testing.T) {
	d, id := paragraphDraft(t, "hi")
	if err := d.BeginImageUpload(id); !errors.Is(err, ErrNotImageBlock) {
		t.Errorf("BeginImageUpload on paragraph = %v, want ErrNotImageBlock", err)
	}
}

// TestSubmitValidation covers the submission failure taxonomy.
func TestSubmitValidation(t *testing.T) {
	t.Run("blank title", func(t *testing.T) {
		d := New(uuid.New())
		d.SetTitle("   ")
		if _, err := d.AppendBlock(models.BlockParagraph); err != nil {
			t.Fatal(err)
		}
		if _, err := d.Submit(); !errors.Is(err, ErrTitleRequired) {
			t.Errorf("Submit() = %v, want ErrTitleRequired", err)
		}
	})

	t.Run("empty block list", func(t *testing.T) {
		d := New(uuid.New())
		d.SetTitle("Hello")
		if _, err := d.Submit(); !errors.Is(err, ErrNoBlocks) {
			t.Errorf("Submit() = %v, want ErrNoBlocks", err)
		}
	})

	t.Run("pending block upload", func(t *testing.T) {
		d, _ := paragraphDraft(t, "hi")
		id, _ := d.AppendBlock(models.BlockImage)
		if err := d.BeginImageUpload(id); err != nil {
			t.Fatal(err)
		}
		if _, err := d.Submit(); !errors.Is(err, ErrPendingUploads) {
			t.Errorf("Submit() = %v, want ErrPendingUploads", err)
		}
	})

	t.Run("pending cover upload", func(t *testing.T) {
		d, _ := paragraphDraft(t, "hi")
		d.BeginCoverUpload()
		if _, err := d.Submit(); !errors.Is(err, ErrPendingUploads) {
			t.Errorf("Submit() = %v, want ErrPendingUploads", err)
		}
	})

	t.Run("only abandoned image left", func(t *testing.T) {
		d := New(uuid.New())
		d.SetTitle("Hello")
		if _, err := d.AppendBlock(models.BlockImage); err != nil {
			t.Fatal(err)
		}
		if _, err := d.Submit(); !errors.Is(err, ErrNoBlocks) {
			t.Errorf("Submit() = %v, want ErrNoBlocks after dropping all blocks", err)
		}
	})
}

// TestSubmitDropsAbandonedImages verifies the drop-and-report contract:
// an image block without an upload does not block submission when other
// blocks remain, and its id comes back in DroppedBlocks.
func TestSubmitDropsAbandonedImages(t *testing.T) {
	d, _ := paragraphDraft(t, "hi there")
	imgID, err := d.AppendBlock(models.BlockImage)
	if err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}

	p, err := d.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(p.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1 (abandoned image dropped)", len(p.Blocks))
	}
	if len(p.DroppedBlocks) != 1 || p.DroppedBlocks[0] != imgID {
		t.Errorf("DroppedBlocks = %v, want [%s]", p.DroppedBlocks, imgID)
	}
	if p.Blocks[0].Order != 1 {
		t.Errorf("surviving block order = %d, want 1", p.Blocks[0].Order)
	}
}

// TestSubmitIdempotent verifies two submissions without intervening
// mutation yield the same payload.
func TestSubmitIdempotent(t *testing.T) {
	d, _ := paragraphDraft(t, "deterministic")
	if _, err := d.AppendBlock(models.BlockImage); err != nil {
		t.Fatal(err)
	}

	p1, err := d.Submit()
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	p2, err := d.Submit()
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("payloads differ across submissions:\n%+v\n%+v", p1, p2)
	}
}

// TestSubmitCoverImage verifies the cover slot flows into the payload.
func TestSubmitCoverImage(t *testing.T) {
	d, _ := paragraphDraft(t, "hi")
	d.BeginCoverUpload()
	if err := d.CompleteCoverUpload("https://cdn.example.com/cover.png"); err != nil {
		t.Fatalf("CompleteCoverUpload: %v", err)
	}

	p, err := d.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if p.CoverImageURL == nil || *p.CoverImageURL != "https://cdn.example.com/cover.png" {
		t.Errorf("cover url = %v, want uploaded url", p.CoverImageURL)
	}
}

// TestRegistryOwnership verifies drafts are private to their author.
func TestRegistryOwnership(t *testing.T) {
	reg := NewRegistry()
	author := uuid.New()
	d := reg.Create(author)

	if _, ok := reg.Get(d.ID, author); !ok {
		t.Error("owner cannot fetch own draft")
	}
	if _, ok := reg.Get(d.ID, uuid.New()); ok {
		t.Error("stranger fetched another author's draft")
	}

	reg.Remove(d.ID)
	if _, ok := reg.Get(d.ID, author); ok {
		t.Error("draft still reachable after removal")
	}
}
