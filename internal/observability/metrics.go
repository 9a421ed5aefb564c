// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the wardrobe counters. A nil *Metrics is valid and records
// nothing, so components can run without an observability server.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	AuthEvents         *prometheus.CounterVec
	ResetNotifications *prometheus.CounterVec
}

// NewMetrics creates the wardrobe counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_http_requests_total",
				Help: "HTTP requests by route pattern and status code",
			},
			[]string{"route", "status"},
		),
		AuthEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_auth_events_total",
				Help: "Auth operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		ResetNotifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_reset_notifications_total",
				Help: "Password reset notifications handled by the worker, by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.HTTPRequests, m.AuthEvents, m.ResetNotifications)
	return m
}

// RecordHTTPRequest counts one served request.
func (m *Metrics) RecordHTTPRequest(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordAuthEvent counts one auth operation outcome.
func (m *Metrics) RecordAuthEvent(operation, result string) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(operation, result).Inc()
}

// RecordResetNotification counts one reset message outcome.
func (m *Metrics) RecordResetNotification(result string) {
	if m == nil {
		return
	}
	m.ResetNotifications.WithLabelValues(result).Inc()
}
