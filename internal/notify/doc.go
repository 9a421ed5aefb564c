// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

// Package notify carries password reset notifications from the API process
// to the mail worker over Kafka.
//
// KafkaPublisher implements auth.Notifier. Worker consumes the topic with a
// consumer group, renders the reset email and hands it to a Sender. Offsets
// are committed only after a message is delivered or found unusable, which
// gives at-least-once delivery; Worker suppresses duplicates it has already
// delivered in this process.
package notify
