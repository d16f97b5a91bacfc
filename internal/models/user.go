// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered author account. The publishing core itself only
// ever sees the derived Author identity; the full user record belongs to
// the identity layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AsAuthor derives the read-only author identity the publishing core
// consumes.
func (u *User) AsAuthor() Author {
	a := Author{ID: u.ID, DisplayName: u.DisplayName}
	if u.AvatarURL != nil {
		a.AvatarRef = *u.AvatarURL
	}
	return a
}
