package controllers

import (
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
	"github.com/medidetect/medidetect-backend/services"
	"github.com/medidetect/medidetect-backend/utils"
	"github.com/medidetect/medidetect-backend/ws"
)

// ReportPipeline is the background prediction dispatcher, wired up in main.
var ReportPipeline *services.Pipeline

// CreateReport accepts a multipart submission, persists the report in
// processing state and enqueues prediction. Returns before the prediction
// completes; clients poll GET /reports/:id or subscribe over websocket.
func CreateReport(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	patientName := strings.TrimSpace(c.PostForm("patient_name"))
	age, _ := strconv.Atoi(c.PostForm("age"))
	inputType := models.InputType(c.PostForm("input_type"))

	// Symptoms: repeated form values or a JSON array
	symptoms := c.PostFormArray("symptoms")
	if len(symptoms) == 1 && strings.HasPrefix(symptoms[0], "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(symptoms[0]), &parsed); err == nil {
			symptoms = parsed
		}
	}

	// Decode problems are collected here and merged with the field
	// validation below, so one response names every violation.
	fieldErrs := make(map[string]string)

	// Blood values: inline JSON object or an uploaded .xlsx panel
	var bloodValues map[string]float64
	if raw := c.PostForm("blood_values"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &bloodValues); err != nil {
			fieldErrs["blood_values"] = "blood_values must be a JSON object of marker to number"
		}
	} else if panel, err := c.FormFile("blood_file"); err == nil {
		if src, err := panel.Open(); err == nil {
			defer src.Close()
			if parsed, perr := services.ParseBloodPanelXLSX(src); perr == nil {
				bloodValues = parsed
			} else {
				fieldErrs["blood_values"] = perr.Error()
			}
		}
	}

	form, _ := c.MultipartForm()
	var files []*multipart.FileHeader
	if form != nil {
		for _, fh := range form.File["files"] {
			if fh.Size > 20*1024*1024 {
				fieldErrs["files"] = fh.Filename + " exceeds 20MB"
				continue
			}
			files = append(files, fh)
		}
	}

	// Aggregate every violation before answering
	errs := services.ValidateReportInput(services.ReportInput{
		PatientName: patientName,
		Age:         age,
		InputType:   inputType,
		BloodValues: bloodValues,
		Symptoms:    symptoms,
		FileCount:   len(files),
	})
	for k, v := range fieldErrs {
		// A decode error is more specific than the derived required-field message
		errs[k] = v
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	report := models.Report{
		ID:          uuid.New(),
		UserID:      uid,
		PatientName: patientName,
		Age:         age,
		InputType:   inputType,
		Status:      models.ReportProcessing,
	}

	if len(bloodValues) > 0 {
		raw, _ := json.Marshal(bloodValues)
		report.BloodValues = datatypes.JSON(raw)
	}
	if len(symptoms) > 0 {
		raw, _ := json.Marshal(symptoms)
		report.Symptoms = datatypes.JSON(raw)
	}

	for _, fh := range files {
		publicURL, err := utils.UploadReportFile(fh, patientName, uuid.New().String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed", "details": err.Error()})
			return
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		report.UploadedFiles = append(report.UploadedFiles, models.UploadedFile{
			URL:      publicURL,
			FileType: ext,
			Filename: fh.Filename,
		})

		// PDF text goes into the predictor payload
		if ext == "pdf" && report.ExtractedText == "" {
			if text, err := services.ExtractTextFromPDF(fh); err == nil {
				report.ExtractedText = text
			} else {
				log.Println("pdf extraction failed:", err)
			}
		}
	}

	if err := db.Create(&report).Error; err != nil {
		// Don't orphan the objects already uploaded for this report
		for _, f := range report.UploadedFiles {
			if derr := utils.DeleteFileFromSupabase(f.URL); derr != nil {
				log.Printf("cannot clean up uploaded file %s: %v", f.URL, derr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save report", "details": err.Error()})
		return
	}

	ws.BroadcastReportListChanged()
	if ReportPipeline != nil {
		ReportPipeline.Enqueue(report.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     report.ID,
		"status": report.Status,
	})
}

// GetReports lists reports with pagination. Non-admins are always scoped to
// their own reports, whatever filters they send; admins see everything and
// may filter by status.
func GetReports(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	query := db.Model(&models.Report{})

	userIDStr := c.GetString("user_id")
	role := c.GetString("role")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	if scopedToOwner(role) {
		// Ownership scoping is non-overridable
		query = query.Where("user_id = ?", userUUID)
	}

	if status := c.Query("status"); status != "" {
		switch models.ReportStatus(status) {
		case models.ReportProcessing, models.ReportDone, models.ReportFailed:
			query = query.Where("status = ?", status)
		}
	}

	if search := c.Query("search"); search != "" {
		query = query.Where("patient_name ILIKE ?", "%"+search+"%")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot count reports"})
		return
	}

	var reports []models.Report
	if err := query.Preload("UploadedFiles").Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  reports,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func GetReportDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	id := c.Param("id")

	var report models.Report
	if err := db.Preload("UploadedFiles").First(&report, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if !canAccessReport(c, report) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DeleteReport removes the report and best-effort deletes its stored files.
// A file that fails to delete is logged and skipped; the report still goes.
// Deleting a processing report is fine: the late prediction completion
// becomes a no-op.
func DeleteReport(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	id := c.Param("id")

	reportID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var report models.Report
	if err := db.Preload("UploadedFiles").First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if !canAccessReport(c, report) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this report"})
		return
	}

	for _, f := range report.UploadedFiles {
		if err := utils.DeleteFileFromSupabase(f.URL); err != nil {
			log.Printf("cannot delete stored file %s: %v", f.URL, err)
		}
	}

	if err := db.Where("report_id = ?", reportID).Delete(&models.UploadedFile{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete report files"})
		return
	}
	if err := db.Delete(&models.Report{}, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot delete report"})
		return
	}

	ws.BroadcastReportListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}

type ReviewInput struct {
	Note string `json:"note" binding:"required"`
}

// ReviewReport attaches admin review metadata, regardless of the report's
// current status. Re-reviewing overwrites the previous review.
func ReviewReport(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	id := c.Param("id")

	adminID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var report models.Report
	if err := db.First(&report, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	now := time.Now()
	if err := db.Model(&report).Updates(map[string]interface{}{
		"reviewed_by": adminID,
		"review_note": input.Note,
		"reviewed_at": &now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save review"})
		return
	}

	db.Preload("UploadedFiles").First(&report, "id = ?", report.ID)
	c.JSON(http.StatusOK, report)
}

// canAccessReport: owner or admin only.
// scopedToOwner reports whether list queries must be restricted to the
// caller's own rows. Only admins see everything.
func scopedToOwner(role string) bool {
	return role != string(models.RoleAdmin)
}

func canAccessReport(c *gin.Context, report models.Report) bool {
	if c.GetString("role") == string(models.RoleAdmin) {
		return true
	}
	return report.UserID.String() == c.GetString("user_id")
}
