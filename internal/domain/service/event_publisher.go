package service

import (
	"context"
	"time"
)

// PasswordResetEvent is handed to the notification pipeline when a reset
// request is accepted. The mail worker consuming the topic owns formatting
// and delivery of the actual message; this core never sends mail itself.
type PasswordResetEvent struct {
	RequestID string    `json:"request_id,omitempty"` // For distributed tracing
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPasswordResetEvent publishes a reset notification for async delivery
	PublishPasswordResetEvent(ctx context.Context, event *PasswordResetEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
