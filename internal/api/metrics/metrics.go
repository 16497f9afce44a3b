// Package metrics defines the custom Prometheus metrics of the taskdesk API.
// Metrics register with the default registry on package init; echoprometheus
// serves them on /metrics alongside the HTTP request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskdesk"

// ── Session metrics ───────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok", "invalid_credentials", "deactivated" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SessionsRevokedTotal counts sessions ended by sign-out or deactivation.
// Label:
//   - reason: "sign_out" or "deactivated"
var SessionsRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked, by reason.",
	},
	[]string{"reason"},
)

// ── Assignment metrics ────────────────────────────────────────────────────────

// AssignmentsCreatedTotal counts persisted assignments.
var AssignmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_created_total",
		Help:      "Total number of task assignments created.",
	},
)

// NotificationWarningsTotal counts assignments whose push step failed after
// the row was stored.
// Label:
//   - code: the warning code returned to the caller
var NotificationWarningsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_warnings_total",
		Help:      "Total number of non-fatal notification failures, by warning code.",
	},
	[]string{"code"},
)

// AssignmentHoursReported observes hours recorded when assignments are completed.
var AssignmentHoursReported = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assignment_hours_reported",
		Help:      "Hours recorded per completed assignment.",
		Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 40},
	},
)

// ── Request metrics ───────────────────────────────────────────────────────────

// RequestStatusChangesTotal counts peer request status updates.
// Label:
//   - status: the new status
var RequestStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_status_changes_total",
		Help:      "Total number of peer request status changes, by new status.",
	},
	[]string{"status"},
)
