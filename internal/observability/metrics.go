package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LookupMisses counts 404 lookups, split by collection and whether the
	// identifier was malformed or well-formed but absent.
	LookupMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_lookup_misses_total",
		Help: "Total number of failed document lookups by collection and kind",
	}, []string{"collection", "kind"})

	// UpstreamFailures counts failed outbound calls to external APIs.
	UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_upstream_failures_total",
		Help: "Total number of failed outbound requests by upstream",
	}, []string{"upstream"})

	// CascadeDeletes counts account-deletion cascades by the step reached.
	// A partial cascade (posts removed but profile/user still present) is
	// visible as a gap between step counters.
	CascadeDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_cascade_delete_steps_total",
		Help: "Account deletion cascade steps completed",
	}, []string{"step"})
)
