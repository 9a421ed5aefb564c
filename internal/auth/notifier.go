// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package auth

import (
	"context"
	"time"
)

// DefaultResetTopic is the queue password reset requests are published to.
const DefaultResetTopic = "password_reset_queue"

// Notifier publishes durable messages for out-of-process delivery.
type Notifier interface {
	// Publish serializes payload and publishes it to topic with persistent delivery.
	Publish(ctx context.Context, topic string, payload any) error
}

// ResetRequested is the message published when a reset token is issued.
// The raw Token is only ever carried here and in the email; it is not stored.
type ResetRequested struct {
	RequestID string    `json:"request_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PartitionKey keeps all messages for one address on the same partition.
func (m ResetRequested) PartitionKey() string {
	return m.Email
}
