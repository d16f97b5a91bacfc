// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"github.com/google/uuid"
)

// Author is the read-only identity of a post's author as seen by the
// publishing core. It is sourced from the identity collaborator and never
// mutated here. AvatarRef is either an absolute URL to an avatar image
// or empty, in which case display falls back to initials.
type Author struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
}
