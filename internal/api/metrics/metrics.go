// Package metrics defines and registers all custom Prometheus metrics for
// the todo API. It is the single source of truth for metric names, labels,
// and help strings. Metrics self-register with the default registry at
// package load; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// ── Authentication metrics ────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success" or "failure"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts. Failures are not broken down further:
// unknown user and wrong password must stay indistinguishable everywhere.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts request-gate token decisions.
// Label:
//   - result: "ok", "invalid", "revoked", or "error"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts authorization denials.
// Label:
//   - reason: "unauthorized" (no principal) or "forbidden" (missing role)
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of denied requests, by denial reason.",
	},
	[]string{"reason"},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoOpsTotal counts completed todo operations.
// Label:
//   - op: "add", "update", "delete", "complete", "incomplete"
var TodoOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_ops_total",
		Help:      "Total number of successful todo mutations, by operation.",
	},
	[]string{"op"},
)
