// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package draft

import (
	"sync"

	"github.com/google/uuid"
)

// Registry holds the in-flight drafts of all active authoring sessions,
// keyed by draft id. Drafts are process-local transient state: they are
// never persisted, and a process restart discards them. An author may
// hold several drafts at once; each is private to its author.
type Registry struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*Draft
}

// NewRegistry creates an empty draft registry.
func NewRegistry() *Registry {
	return &Registry{drafts: make(map[uuid.UUID]*Draft)}
}

// Create starts a new empty draft owned by the given author and tracks it.
func (r *Registry) Create(authorID uuid.UUID) *Draft {
	d := New(authorID)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = d
	return d
}

// Get returns the draft with the given id if it exists and is owned by
// the given author. Ownership is checked here so a session can never
// reach into another author's draft.
func (r *Registry) Get(id, authorID uuid.UUID) (*Draft, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drafts[id]
	if !ok || d.AuthorID != authorID {
		return nil, false
	}
	return d, true
}

// Remove discards a draft, typically after a successful submission.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
}
