package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the database, and the feed when enabled,
// are reachable.
type HealthHandler struct {
	db   Pinger
	feed Pinger
}

// NewHealthHandler creates a new HealthHandler. feed may be nil.
func NewHealthHandler(db Pinger, feed Pinger) *HealthHandler {
	return &HealthHandler{db: db, feed: feed}
}

// Health godoc
// GET /health
// Responds 503 when the database is unreachable. A failing feed only
// degrades the report.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "database": "up", "feed": "disabled"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		body["status"] = "unavailable"
		body["database"] = "down"
		status = http.StatusServiceUnavailable
	}
	if h.feed != nil {
		body["feed"] = "up"
		if err := h.feed.Ping(ctx); err != nil {
			body["feed"] = "down"
			if status == http.StatusOK {
				body["status"] = "degraded"
			}
		}
	}

	c.JSON(status, body)
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
