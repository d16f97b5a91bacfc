// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import "context"

// Publisher delivers post lifecycle events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e PostEvent) error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, PostEvent) error { return nil }

var _ Publisher = (*NoopPublisher)(nil)
