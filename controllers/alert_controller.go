package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
	"github.com/medidetect/medidetect-backend/services"
	"github.com/medidetect/medidetect-backend/utils"
	"github.com/medidetect/medidetect-backend/ws"
)

type SendAlertInput struct {
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	SendToAll bool   `json:"send_to_all"`
	Role      string `json:"role"`
}

// SendAlert creates a broadcast alert and marks it sent in one operation.
// sent_to is the recipient count at send time, never recomputed. Emails go
// out in the background; a failed email never fails the alert.
func SendAlert(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	adminID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	var input SendAlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := db.Model(&models.User{})
	if !input.SendToAll {
		role := input.Role
		if role == "" {
			role = string(models.RoleUser)
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot load recipients"})
		return
	}

	recipients := services.AlertRecipients(users)

	alert := models.Alert{
		Title:     input.Title,
		Message:   input.Message,
		CreatedBy: adminID,
		SentTo:    len(recipients),
		Status:    models.AlertSent,
	}
	if err := db.Create(&alert).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save alert"})
		return
	}

	// Notification rows for the in-app inbox
	for _, u := range recipients {
		db.Create(&models.Notification{
			UserID:  u.ID,
			Title:   input.Title,
			Message: input.Message,
		})
	}

	go services.DispatchAlertEmails(recipients, input.Title, input.Message, utils.SendEmail)
	ws.BroadcastAlert(input.Title, input.Message)

	c.JSON(http.StatusCreated, alert)
}

func GetAlerts(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	var total int64
	db.Model(&models.Alert{}).Count(&total)

	var alerts []models.Alert
	if err := db.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  alerts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
