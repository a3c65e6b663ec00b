// Package eventx publishes account lifecycle events for downstream
// consumers (analytics, CRM sync, audit).
//
// Events are fire-and-forget telemetry. A publish failure is logged and
// never fails the request that produced the event.
package eventx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event types emitted by the account service.
const (
	TypeSignupStarted   = "account.signup.started"
	TypeSignupCompleted = "account.signup.completed"
	TypeLoginStarted    = "account.login.started"
	TypeLoginCompleted  = "account.login.completed"
	TypeSessionRevoked  = "account.session.revoked"
)

// Event is a single lifecycle event. TenantID is empty for events that
// happen before a tenant exists, such as signup initiation.
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	TenantID   string            `json:"tenant_id,omitempty"`
	UserID     string            `json:"user_id,omitempty"`
	Email      string            `json:"email,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Key returns the partition key for the event. Events for the same email
// land on the same partition so consumers see them in order.
func (e Event) Key() []byte {
	if e.Email != "" {
		return []byte(e.Email)
	}
	return []byte(e.Type)
}

// Encode serializes the event payload.
func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("eventx: encode event: %w", err)
	}
	return b, nil
}

// Publisher emits events to a downstream bus.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher discards all events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
