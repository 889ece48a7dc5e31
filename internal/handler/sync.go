package handler

import (
	"net/http"

	"github.com/froma1976/ailogistic/internal/syncer"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct{ svc *syncer.Service }

func NewSyncHandler(svc *syncer.Service) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Status reports connectivity, whether a cycle is running, the last completed
// cycle time, and the outbox backlog.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status(c.Request.Context()))
}

// Trigger runs one push+pull cycle synchronously. 409 means a cycle was
// already running (or the device is offline) and nothing was done.
func (h *SyncHandler) Trigger(c *gin.Context) {
	if !h.svc.SyncNow(c.Request.Context()) {
		c.JSON(http.StatusConflict, gin.H{"ran": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ran": true})
}
