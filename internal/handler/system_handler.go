package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/config"
)

// SystemHandler reports process liveness.
type SystemHandler struct {
	startTime   time.Time
	storeDriver string
}

func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{
		startTime:   time.Now(),
		storeDriver: cfg.StoreDriver,
	}
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  h.storeDriver,
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
