package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportStatus string

const (
	ReportProcessing ReportStatus = "processing"
	ReportDone       ReportStatus = "done"
	ReportFailed     ReportStatus = "failed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportDone || s == ReportFailed
}

type InputType string

const (
	InputImage   InputType = "image"
	InputPDF     InputType = "pdf"
	InputBlood   InputType = "blood"
	InputSymptom InputType = "symptom"
	InputHybrid  InputType = "hybrid"
)

func ValidInputType(t InputType) bool {
	switch t {
	case InputImage, InputPDF, InputBlood, InputSymptom, InputHybrid:
		return true
	}
	return false
}

// Prediction is the predictor output stored on a completed report.
type Prediction struct {
	Cancer        bool    `json:"cancer"`
	PredictedType string  `json:"predicted_type"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation"`
	ModelVersion  string  `json:"model_version"`
}

type Report struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	PatientName string       `gorm:"size:150;not null" json:"patient_name"`
	Age         int          `gorm:"not null" json:"age"`
	InputType   InputType    `gorm:"type:varchar(20);not null" json:"input_type"`
	Status      ReportStatus `gorm:"type:varchar(20);not null;default:'processing';index" json:"status"`

	// Payload depends on InputType; null when not applicable.
	BloodValues datatypes.JSON `gorm:"type:jsonb" json:"blood_values,omitempty"`
	Symptoms    datatypes.JSON `gorm:"type:jsonb" json:"symptoms,omitempty"`
	// Text extracted from a PDF upload, fed to the predictor.
	ExtractedText string `gorm:"type:text" json:"-"`

	// Null until Status is done.
	Prediction datatypes.JSON `gorm:"type:jsonb" json:"prediction,omitempty"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewNote *string    `gorm:"type:text" json:"review_note,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UploadedFiles []UploadedFile `gorm:"constraint:OnDelete:CASCADE" json:"uploaded_files,omitempty"`
	User          User           `json:"-"`
}

type UploadedFile struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	URL      string    `gorm:"type:text;not null" json:"url"`
	FileType string    `gorm:"size:50" json:"file_type"`
	Filename string    `gorm:"size:255" json:"filename"`
}
