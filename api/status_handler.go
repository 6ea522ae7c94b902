package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sup-api/observability"
)

type StatusHandler struct {
	monitor *observability.Monitor
}

func NewStatusHandler(monitor *observability.Monitor) *StatusHandler {
	return &StatusHandler{monitor: monitor}
}

// Status handles GET /status with a process metrics snapshot.
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Snapshot())
}
