package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/blobstore"
)

const readinessTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      Pinger
	blobs   *blobstore.Handle
	version string
}

func NewHealthController(db Pinger, blobs *blobstore.Handle, version string) *HealthController {
	return &HealthController{
		db:      db,
		blobs:   blobs,
		version: version,
	}
}

// Live answers the plain liveness check.
func (h *HealthController) Live(c *gin.Context) {
	c.String(http.StatusOK, "Server is healthy")
}

// Ready reports whether the database and the blob store can serve requests.
func (h *HealthController) Ready(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			slog.Error("readiness check failed", "check", "database", "error", err)
			checks["database"] = "error"
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
		status = "unhealthy"
	}

	if h.blobs != nil && h.blobs.Ready() {
		checks["blobstore"] = "ok"
	} else {
		checks["blobstore"] = "not initialized"
		status = "unhealthy"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
