package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/medidetect/medidetect-backend/config"
	"github.com/medidetect/medidetect-backend/models"
	"github.com/medidetect/medidetect-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // development only, restrict in production
	},
}

// canSubscribe applies the report visibility rule to stream subscriptions:
// the owning user and admins only.
func canSubscribe(role, ownerID, userID string) bool {
	if role == string(models.RoleAdmin) {
		return true
	}
	return ownerID == userID
}

// HandleReportWebSocket streams status transitions for a single report.
// The token travels as a query parameter because browsers cannot set
// headers on websocket upgrades.
func HandleReportWebSocket(c *gin.Context) {
	reportID := c.Param("id")
	token := c.Query("token")

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return
	}

	// Same visibility rule as GET /reports/:id
	var report models.Report
	if err := config.DB.Select("user_id").First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if !canSubscribe(claims.Role, report.UserID.String(), claims.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this report"})
		return
	}

	log.Printf("report WS connected: reportID=%s, userID=%s", reportID, claims.UserID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	H.Register(reportID, conn)
}

// HandleGlobalWebSocket serves the list/dashboard change feed.
func HandleGlobalWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	if _, err := utils.VerifyToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	H.RegisterGlobal(conn)
}
