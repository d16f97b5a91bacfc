// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/preview"
	"inkpress/internal/render"
)

// publishPost drives the full compose-and-submit flow and returns the
// new post's id.
func publishPost(t *testing.T, env *testEnv, title string, published bool) uuid.UUID {
	t.Helper()

	draftID := createDraft(t, env)
	env.do(http.MethodPut, "/api/drafts/"+draftID.String(),
		fmt.Sprintf(`{"title":%q,"published":%v}`, title, published))
	paraID := appendBlock(t, env, draftID, "PARAGRAPH")
	env.do(http.MethodPut,
		fmt.Sprintf("/api/drafts/%s/blocks/%s", draftID, paraID),
		`{"data":{"text":"Body text for the feed."}}`)

	rr := env.do(http.MethodPost, fmt.Sprintf("/api/drafts/%s/submit", draftID), "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	return resp.ID
}

func TestPostsListPublishedOnly(t *testing.T) {
	sess := testSession()
	env := newTestEnv(sess)
	env.repo.authors[sess.UserID] = models.Author{ID: sess.UserID, DisplayName: sess.DisplayName}

	publishPost(t, env, "Public Post", true)
	publishPost(t, env, "Private Post", false)

	rr := env.do(http.MethodGet, "/api/posts", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status %d", rr.Code)
	}

	var previews []preview.Preview
	if err := json.Unmarshal(rr.Body.Bytes(), &previews); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("previews: got %d, want 1", len(previews))
	}
	if previews[0].Title != "Public Post" {
		t.Errorf("title: got %q", previews[0].Title)
	}
	if previews[0].Excerpt != "Body text for the feed." {
		t.Errorf("excerpt: got %q", previews[0].Excerpt)
	}
}

func TestPostsMyBlogsIncludesUnpublished(t *testing.T) {
	sess := testSession()
	env := newTestEnv(sess)
	env.repo.authors[sess.UserID] = models.Author{ID: sess.UserID, DisplayName: sess.DisplayName}

	publishPost(t, env, "Draft Work", false)

	rr := env.do(http.MethodGet, "/api/my-blogs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("my-blogs: status %d", rr.Code)
	}

	var previews []preview.Preview
	if err := json.Unmarshal(rr.Body.Bytes(), &previews); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("previews: got %d, want 1", len(previews))
	}
	if previews[0].Published {
		t.Error("expected the unpublished post")
	}
}

func TestPostsGetRendersInstructions(t *testing.T) {
	env := newTestEnv(testSession())
	id := publishPost(t, env, "Rendered", true)

	rr := env.do(http.MethodGet, "/api/posts/"+id.String(), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get: status %d", rr.Code)
	}

	var view struct {
		ID           uuid.UUID            `json:"id"`
		Title        string               `json:"title"`
		Instructions []render.Instruction `json:"instructions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Title != "Rendered" {
		t.Errorf("title: got %q", view.Title)
	}
	if len(view.Instructions) != 1 {
		t.Fatalf("instructions: got %d, want 1", len(view.Instructions))
	}
	if view.Instructions[0].Kind != render.KindParagraph {
		t.Errorf("kind: got %q", view.Instructions[0].Kind)
	}
}

func TestPostsGetNotFound(t *testing.T) {
	env := newTestEnv(testSession())

	rr := env.do(http.MethodGet, "/api/posts/"+uuid.NewString(), "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestPostsGetInvalidID(t *testing.T) {
	env := newTestEnv(testSession())

	rr := env.do(http.MethodGet, "/api/posts/not-a-uuid", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestPostsDelete(t *testing.T) {
	sess := testSession()
	env := newTestEnv(sess)
	id := publishPost(t, env, "Doomed", true)

	rr := env.do(http.MethodDelete, "/api/posts/"+id.String(), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", rr.Code, rr.Body.String())
	}

	if env.repo.posts[id] != nil {
		t.Error("post still present after delete")
	}

	// Deleting again reports not found.
	rr = env.do(http.MethodDelete, "/api/posts/"+id.String(), "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", rr.Code)
	}
}

func TestPostsDeleteForbiddenForNonAuthor(t *testing.T) {
	owner := testSession()
	ownerEnv := newTestEnv(owner)
	id := publishPost(t, ownerEnv, "Owned", true)

	// A different author against the same repository.
	stranger := testSession()
	strangerEnv := newTestEnv(stranger)
	strangerEnv.repo.posts[id] = ownerEnv.repo.posts[id]

	rr := strangerEnv.do(http.MethodDelete, "/api/posts/"+id.String(), "")
	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
	if strangerEnv.repo.posts[id] == nil {
		t.Error("post was deleted despite failed authorization")
	}
}

func TestPostsDeleteRequiresAuth(t *testing.T) {
	env := newTestEnv(nil)

	rr := env.do(http.MethodDelete, "/api/posts/"+uuid.NewString(), "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
