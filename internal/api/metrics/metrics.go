// Package metrics defines and registers all custom Prometheus metrics for the
// dental lab API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics registered through promauto attach to the default registry at
// package init, before the HTTP server starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lab"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly submitted orders.
// Label:
//   - priority: "normal" or "urgente"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders submitted, by priority.",
	},
	[]string{"priority"},
)

// StatusTransitionsTotal counts applied status transitions.
// Labels:
//   - from: status before the transition
//   - to: status after the transition
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of applied order status transitions.",
	},
	[]string{"from", "to"},
)

// TransitionErrorsTotal counts rejected transition attempts.
// Label:
//   - reason: short description of the rejection (e.g. "forbidden", "terminal_status", "status_conflict")
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of rejected order status transitions, by reason.",
	},
	[]string{"reason"},
)

// TimelineProjectionsTotal counts audit-log timeline replays served.
var TimelineProjectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timeline_projections_total",
		Help:      "Total number of order timelines projected from the audit log.",
	},
)

// ── Fanout metrics ────────────────────────────────────────────────────────────

// FanoutDedupTotal counts deduplication decisions in the change fanout.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new change, processed)
var FanoutDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_dedup_total",
		Help:      "Total number of fanout deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// NotificationsPublishedTotal counts dentist-visible notification rows written.
// Label:
//   - status: the terminal status that produced the notification
var NotificationsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Total number of actor notifications written, by order status.",
	},
	[]string{"status"},
)

// FanoutQueueDepth tracks the current number of change events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var FanoutQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fanout_queue_depth",
		Help:      "Current number of change events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
