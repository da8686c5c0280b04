package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation name. Incremented
	// from the cache client's hook so every code path is covered.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CascadeUpdates counts privacy cascade executions by target value.
	CascadeUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_privacy_cascades_total",
		Help: "Total number of privacy cascade transactions by new value",
	}, []string{"private"})

	// EngagementToggles counts like/bookmark toggles by kind and direction.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_engagement_toggles_total",
		Help: "Total number of engagement toggles by kind and resulting state",
	}, []string{"kind", "state"})
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the HTTP metrics handler for the Fiber app.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
