package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/internal/store"
	"github.com/attendease/attendease-api/pkg/response"
)

// StatusHandler reports backend health: the active store binding, remote
// connectivity, and whether token auth is configured.
type StatusHandler struct {
	store        store.Store
	auth         *service.AuthService
	cacheHealthy func(ctx context.Context) bool
}

// NewStatusHandler constructs StatusHandler. cacheHealthy may be nil when no
// cache backend is configured.
func NewStatusHandler(s store.Store, auth *service.AuthService, cacheHealthy func(ctx context.Context) bool) *StatusHandler {
	return &StatusHandler{store: s, auth: auth, cacheHealthy: cacheHealthy}
}

// Get returns the backend status document.
func (h *StatusHandler) Get(c *gin.Context) {
	database := "disconnected"
	if err := h.store.Ping(c.Request.Context()); err == nil {
		database = "connected"
	}

	auth := "disconnected"
	if h.auth != nil && h.auth.TokenConfigured() {
		auth = "connected"
	}

	status := gin.H{
		"database": database,
		"auth":     auth,
		"config": gin.H{
			"store": h.store.Kind(),
		},
	}
	if h.cacheHealthy != nil {
		status["cache"] = "disconnected"
		if h.cacheHealthy(c.Request.Context()) {
			status["cache"] = "connected"
		}
	}

	response.JSON(c, http.StatusOK, gin.H{
		"status":  status,
		"message": "Database: " + database + ", Auth: " + auth,
	})
}
