package services

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
)

// GormReportStore backs the pipeline with the reports table.
type GormReportStore struct {
	DB *gorm.DB
}

func (s *GormReportStore) PredictionInput(id uuid.UUID) (models.InputType, PredictionInput, error) {
	var report models.Report
	err := s.DB.Preload("UploadedFiles").First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", PredictionInput{}, ErrReportGone
	}
	if err != nil {
		return "", PredictionInput{}, err
	}

	input := PredictionInput{ExtractedText: report.ExtractedText}
	if len(report.BloodValues) > 0 {
		_ = json.Unmarshal(report.BloodValues, &input.BloodValues)
	}
	if len(report.Symptoms) > 0 {
		_ = json.Unmarshal(report.Symptoms, &input.Symptoms)
	}
	for _, f := range report.UploadedFiles {
		input.FileURLs = append(input.FileURLs, f.URL)
	}
	return report.InputType, input, nil
}

// CompleteIfProcessing attaches the prediction and moves the report to done,
// but only while it is still processing. Returns false when the report was
// already terminal or has been deleted.
func (s *GormReportStore) CompleteIfProcessing(id uuid.UUID, pred models.Prediction) (bool, error) {
	raw, err := json.Marshal(pred)
	if err != nil {
		return false, err
	}

	res := s.DB.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportProcessing).
		Updates(map[string]interface{}{
			"status":     models.ReportDone,
			"prediction": datatypes.JSON(raw),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FailIfProcessing moves the report to failed with no prediction attached.
func (s *GormReportStore) FailIfProcessing(id uuid.UUID) (bool, error) {
	res := s.DB.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportProcessing).
		Updates(map[string]interface{}{
			"status":     models.ReportFailed,
			"prediction": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeployedModelVersion returns the version of the currently deployed model,
// or "" when none is registered.
func (s *GormReportStore) DeployedModelVersion() string {
	var record models.ModelRecord
	if err := s.DB.First(&record, "status = ?", models.ModelDeployed).Error; err != nil {
		return ""
	}
	return record.Version
}
