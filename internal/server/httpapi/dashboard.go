package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard.Get(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type healthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *Handler) health(c *gin.Context) {
	resp := healthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: h.now().UTC(),
		Services:  map[string]string{"database": "connected", "ai": "fallback"},
	}
	if h.svc.Assistant != nil && h.svc.Assistant.Enabled() {
		resp.Services["ai"] = "available"
	}

	code := http.StatusOK
	if err := h.svc.Repositories.Ping(c.Request.Context()); err != nil {
		h.logger.Warn(c.Request.Context(), "health probe failed", "error", err)
		resp.Status = "degraded"
		resp.Services["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
