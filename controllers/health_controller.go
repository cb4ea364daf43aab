package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medidetect/medidetect-backend/config"
	"github.com/medidetect/medidetect-backend/ws"
)

// HealthCheck reports liveness plus the state of the DB connection, the
// websocket hub and the prediction queue.
func HealthCheck(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK
	dbState := "ok"

	if sqlDB, err := config.DB.DB(); err != nil {
		dbState = "error: cannot get DB instance"
	} else if err := sqlDB.Ping(); err != nil {
		dbState = "error: cannot connect to DB"
	}
	if dbState != "ok" {
		status = "degraded"
		httpStatus = http.StatusInternalServerError
	}

	pipeline := gin.H{"enabled": false}
	if ReportPipeline != nil {
		pipeline = gin.H{
			"enabled":     true,
			"queue_depth": ReportPipeline.QueueDepth(),
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"db":        dbState,
		"pipeline":  pipeline,
		"websocket": gin.H{
			"enabled": true,
			"stats":   ws.H.GetStats(),
		},
	})
}
