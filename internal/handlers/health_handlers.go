package handlers

import (
	"context"
	"net/http"
	"time"

	"kedai_pos_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the storage backend is reachable.
type HealthHandler struct {
	store *repositories.Store
}

func NewHealthHandler(store *repositories.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth answers 200 even when degraded; the till keeps working from memory.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	backendErr := ""
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		backendErr = err.Error()
	} else if h.store.Degraded() {
		status = "degraded"
	}

	resp := gin.H{
		"status":  status,
		"backend": h.store.BackendName(),
	}
	if backendErr != "" {
		resp["backend_error"] = backendErr
	}
	c.JSON(http.StatusOK, resp)
}
