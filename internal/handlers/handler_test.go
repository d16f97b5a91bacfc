// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory post repository and a router wired like the real
// one but with the session injected directly into the request context.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/draft"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/posts"
	"inkpress/internal/session"
	"inkpress/internal/store"
)

// memRepo is an in-memory posts.Repository for handler tests.
type memRepo struct {
	mu      sync.Mutex
	posts   map[uuid.UUID]*models.Post
	authors map[uuid.UUID]models.Author
}

func newMemRepo() *memRepo {
	return &memRepo{
		posts:   make(map[uuid.UUID]*models.Post),
		authors: make(map[uuid.UUID]models.Author),
	}
}

func (m *memRepo) CreateWithBlocks(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts[id], nil
}

func (m *memRepo) ListPublished(_ context.Context, _ string) ([]store.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Listing
	for _, p := range m.posts {
		if p.Published {
			out = append(out, m.listing(p))
		}
	}
	return out, nil
}

func (m *memRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]store.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Listing
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			out = append(out, m.listing(p))
		}
	}
	return out, nil
}

// listing projects a post the way the real store's listing queries do:
// author identity joined in and the first PARAGRAPH block attached.
func (m *memRepo) listing(p *models.Post) store.Listing {
	l := store.Listing{Post: *p, Author: m.authors[p.AuthorID]}
	for i := range p.Blocks {
		if p.Blocks[i].Type == models.BlockParagraph {
			l.FirstParagraph = &p.Blocks[i]
			break
		}
	}
	return l
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

// testEnv bundles the pieces a handler test needs.
type testEnv struct {
	repo     *memRepo
	registry *draft.Registry
	service  *posts.Service
	router   chi.Router
}

// sessionInjector simulates middleware.LoadSession with a fixed session.
func sessionInjector(data *session.Data) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if data != nil {
				ctx := context.WithValue(r.Context(), middleware.SessionKey, data)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// newTestEnv builds the API routes the way the real router does, minus
// storage and Valkey, with every request authenticated as sess.
func newTestEnv(sess *session.Data) *testEnv {
	repo := newMemRepo()
	registry := draft.NewRegistry()
	service := posts.NewService(repo, nil)

	draftsH := NewDrafts(registry, service, nil, nil)
	postsH := NewPosts(service, nil, nil)

	r := chi.NewRouter()
	r.Use(sessionInjector(sess))

	r.Get("/api/posts", postsH.List)
	r.Get("/api/posts/{id}", postsH.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/api/my-blogs", postsH.MyBlogs)
		r.Delete("/api/posts/{id}", postsH.Delete)

		r.Post("/api/drafts", draftsH.Create)
		r.Get("/api/drafts/{id}", draftsH.Get)
		r.Put("/api/drafts/{id}", draftsH.Update)
		r.Post("/api/drafts/{id}/blocks", draftsH.AppendBlock)
		r.Put("/api/drafts/{id}/blocks/{blockID}", draftsH.UpdateBlock)
		r.Delete("/api/drafts/{id}/blocks/{blockID}", draftsH.DeleteBlock)
		r.Post("/api/drafts/{id}/submit", draftsH.Submit)
	})

	return &testEnv{repo: repo, registry: registry, service: service, router: r}
}

// do performs a request against the test router and returns the recorder.
func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func testSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "author@inkpress.local",
		DisplayName: "Test Author",
	}
}
