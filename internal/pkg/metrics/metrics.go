// Package metrics defines and registers all custom Prometheus metrics for the
// arena web tier. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on import via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "arena_web"

// ── Session metrics ───────────────────────────────────────────────────────────

// ProfileFetchTotal counts profile enrichment runs by outcome.
// Label:
//   - outcome: "complete", "partial" (a query failed and defaults were used),
//     "no_session", or "stale" (result discarded because a newer fetch started)
var ProfileFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_fetch_total",
		Help:      "Total number of profile enrichment runs, by outcome.",
	},
	[]string{"outcome"},
)

// ProfileQueryErrorsTotal counts failed enrichment queries.
// Label:
//   - query: "role", "team", or "agents"
var ProfileQueryErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_query_errors_total",
		Help:      "Total number of profile enrichment queries that failed.",
	},
	[]string{"query"},
)

// ActiveSessions tracks the number of session stores held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of browser session stores currently held in memory.",
	},
)

// ── Routing metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - state: guard state (e.g. "authenticated-no-team")
//   - action: "render", "redirect", or "wait"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"state", "action"},
)

// ── Auth event metrics ────────────────────────────────────────────────────────

// AuthEventsTotal counts auth lifecycle events handled by the bridge.
// Label:
//   - type: "signed_in", "signed_out", or "token_refreshed"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of auth lifecycle events handled.",
	},
	[]string{"type"},
)

// EventQueueDepth tracks the number of events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "event_queue_depth",
		Help:      "Current number of auth events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the arena backend.
// Labels:
//   - endpoint: the route template (e.g. "GET /rooms")
//   - status: HTTP status code, or "error" when the request never completed
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the arena backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "status"},
)

// PanelOfflineTotal counts dashboard panels rendered in offline mode.
// Label:
//   - panel: "agents", "rooms", "races", "team", or "summary"
var PanelOfflineTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panel_offline_total",
		Help:      "Total number of dashboard panels served with the offline indicator.",
	},
	[]string{"panel"},
)
