// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package posts

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy surfaced to callers. Validation and authorization
// failures mean "fix your input"; storage failures are retryable.
var (
	ErrUnauthenticated = errors.New("no authenticated principal")
	ErrForbidden       = errors.New("principal is not the post author")
	ErrNotFound        = errors.New("post not found")
	ErrStorage         = errors.New("storage failure")
)

// ValidationError aggregates every reason a payload was rejected at the
// persistence boundary, so the caller can correct and resubmit without
// losing the draft.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Reasons, "; "))
}

// IsValidation reports whether err is a boundary validation failure and
// returns it if so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
