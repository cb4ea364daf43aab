package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
)

// GetStats computes the admin dashboard rollup on demand. Point-in-time
// aggregates, nothing cached.
func GetStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	now := time.Now()

	var totalUsers, totalReports, processedReports, positiveReports, reportsLastWeek int64

	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.Report{}).Count(&totalReports)
	db.Model(&models.Report{}).Where("status = ?", models.ReportDone).Count(&processedReports)
	db.Model(&models.Report{}).
		Where("status = ? AND prediction ->> 'cancer' = 'true'", models.ReportDone).
		Count(&positiveReports)
	db.Model(&models.Report{}).Where("created_at >= ?", now.AddDate(0, 0, -7)).Count(&reportsLastWeek)

	c.JSON(http.StatusOK, gin.H{
		"total_users":       totalUsers,
		"total_reports":     totalReports,
		"processed_reports": processedReports,
		"positive_reports":  positiveReports,
		"reports_last_week": reportsLastWeek,
	})
}
