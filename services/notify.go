package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
	"github.com/medidetect/medidetect-backend/utils"
	"github.com/medidetect/medidetect-backend/ws"
)

// NotifyReportCompleted runs after a report reaches a terminal state:
// websocket push, notification row, optional email to the owner.
func NotifyReportCompleted(db *gorm.DB, reportID uuid.UUID, status models.ReportStatus) {
	ws.SendReportStatusUpdate(reportID.String(), string(status))
	ws.BroadcastReportListChanged()

	var report models.Report
	if err := db.Preload("User").First(&report, "id = ?", reportID).Error; err != nil {
		log.Printf("cannot load report %s for notification: %v", reportID, err)
		return
	}

	title := "Your report is ready"
	message := fmt.Sprintf("Analysis for patient %s has finished.", report.PatientName)
	if status == models.ReportFailed {
		title = "Report processing failed"
		message = fmt.Sprintf("Analysis for patient %s could not be completed. Please try again.", report.PatientName)
	}

	notif := models.Notification{
		UserID:  report.UserID,
		Title:   title,
		Message: message,
	}
	if err := db.Create(&notif).Error; err != nil {
		log.Printf("cannot create notification for report %s: %v", reportID, err)
	}

	if report.User.NotifyReportReady && report.User.Email != "" {
		go func(to, subject, body string) {
			if err := utils.SendEmail(to, subject, body); err != nil {
				log.Println("report email failed:", err)
			}
		}(report.User.Email, "[MediDetect] "+title, "<p>"+message+"</p>")
	}
}
