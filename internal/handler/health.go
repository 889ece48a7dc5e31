package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/froma1976/ailogistic/internal/syncer"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks local DB connectivity and reports sync state; never exposes internals.
func Health(db *gorm.DB, sync *syncer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"db":     dbStatus,
			"online": sync.IsOnline(),
		})
	}
}
