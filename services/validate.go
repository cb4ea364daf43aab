package services

import (
	"fmt"

	"github.com/medidetect/medidetect-backend/models"
)

// ReportInput carries the already-decoded fields of a report submission.
type ReportInput struct {
	PatientName string
	Age         int
	InputType   models.InputType
	BloodValues map[string]float64
	Symptoms    []string
	FileCount   int
}

// ValidateReportInput checks every rule and returns all violations keyed by
// field, not just the first one. An empty map means the input is valid.
func ValidateReportInput(in ReportInput) map[string]string {
	errs := make(map[string]string)

	if in.PatientName == "" {
		errs["patient_name"] = "patient name is required"
	}
	if in.Age < 1 || in.Age > 120 {
		errs["age"] = fmt.Sprintf("age must be between 1 and 120, got %d", in.Age)
	}
	if !models.ValidInputType(in.InputType) {
		errs["input_type"] = "input type must be one of image, pdf, blood, symptom, hybrid"
		return errs
	}

	switch in.InputType {
	case models.InputBlood:
		if len(in.BloodValues) == 0 {
			errs["blood_values"] = "blood values are required for blood input"
		}
	case models.InputSymptom:
		if len(in.Symptoms) == 0 {
			errs["symptoms"] = "at least one symptom is required for symptom input"
		}
	case models.InputImage, models.InputPDF:
		if in.FileCount == 0 {
			errs["files"] = "at least one uploaded file is required for " + string(in.InputType) + " input"
		}
	case models.InputHybrid:
		if in.FileCount == 0 {
			errs["files"] = "at least one uploaded file is required for hybrid input"
		}
		if len(in.BloodValues) == 0 && len(in.Symptoms) == 0 {
			errs["blood_values"] = "hybrid input requires blood values or symptoms"
		}
	}

	return errs
}
