// Package handler provides HTTP handler functions for the CodeBits API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/pkg"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// Health keeps the simple health endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ok": true}, "ok"))
}

// Pinger is anything that can report whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is a named readiness dependency.
type Check struct {
	Name   string
	Pinger Pinger
}

// PostgresCheck adapts a pgx pool. A nil pool yields a check that is skipped.
func PostgresCheck(pool *pgxpool.Pool) Check {
	if pool == nil {
		return Check{Name: "postgres"}
	}
	return Check{Name: "postgres", Pinger: pgPingerAdapter{pool}}
}

// RedisCheck adapts a go-redis client. A nil client yields a check that is skipped.
func RedisCheck(c *redis.Client) Check {
	if c == nil {
		return Check{Name: "redis"}
	}
	return Check{Name: "redis", Pinger: redisPingerAdapter{c}}
}

type pgPingerAdapter struct{ pool *pgxpool.Pool }

func (p pgPingerAdapter) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

type redisPingerAdapter struct{ c *redis.Client }

func (r redisPingerAdapter) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// HealthHandler provides liveness and readiness probes checking downstream deps.
type HealthHandler struct {
	checks      []Check
	pingTimeout time.Duration
}

// NewHealthHandler constructs a HealthHandler. Checks without a Pinger are ignored.
func NewHealthHandler(checks ...Check) *HealthHandler {
	active := make([]Check, 0, len(checks))
	for _, c := range checks {
		if c.Pinger != nil {
			active = append(active, c)
		}
	}
	return &HealthHandler{checks: active, pingTimeout: 1 * time.Second}
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Liveness reports that the process is up. Do not check external deps here.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"status": "alive"}, "ok"))
}

// Readiness checks external dependencies to decide if we can serve traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	results := make([]CheckResult, 0, len(h.checks))
	ready := true
	for _, chk := range h.checks {
		if err := chk.Pinger.Ping(ctx); err != nil {
			ready = false
			results = append(results, CheckResult{Name: chk.Name, Status: "down", Error: err.Error()})
			continue
		}
		results = append(results, CheckResult{Name: chk.Name, Status: "up"})
	}

	if ready {
		c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ready": true, "checks": results}, "ready"))
		return
	}
	logger.Warn(c.Request.Context(), "readiness failed: %+v", results)
	c.JSON(http.StatusServiceUnavailable, pkg.NewResponse(http.StatusServiceUnavailable, gin.H{"ready": false, "checks": results}, "not ready"))
}
