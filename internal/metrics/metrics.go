// Package metrics defines the custom Prometheus metrics of the user-admin
// service. Metrics are registered with the default registry on import via
// promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "useradmin"

// ── Record mutations ─────────────────────────────────────────────────────────

// BansTotal counts ban flag updates.
// Label:
//   - action: "ban" or "unban"
var BansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bans_total",
		Help:      "Total number of ban flag updates, by action.",
	},
	[]string{"action"},
)

// GrantsTotal counts admin grant attempts.
// Label:
//   - type: "permanent", "temporary" or "invalid"
var GrantsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_grants_total",
		Help:      "Total number of admin grant attempts, by resulting type.",
	},
	[]string{"type"},
)

// ── Sweeper ───────────────────────────────────────────────────────────────────

// SweepsTotal counts expiry sweeps.
// Label:
//   - result: "ok" or "error"
var SweepsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweeps_total",
		Help:      "Total number of expired-admin sweeps, by result.",
	},
	[]string{"result"},
)

// AdminsDemotedTotal counts temporary admins demoted by the sweeper.
var AdminsDemotedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admins_demoted_total",
		Help:      "Total number of temporary admins demoted after expiry.",
	},
)

// ── Operator login ────────────────────────────────────────────────────────────

// LoginsTotal counts admin login attempts.
// Label:
//   - result: "success", "rejected" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_logins_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of entries waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditErrorsTotal counts audit entries that could not be persisted.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit entries that failed to persist.",
	},
)
