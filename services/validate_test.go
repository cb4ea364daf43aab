package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medidetect/medidetect-backend/models"
)

func TestValidateReportInput_AggregatesAllViolations(t *testing.T) {
	errs := ValidateReportInput(ReportInput{
		PatientName: "",
		Age:         200,
		InputType:   models.InputSymptom,
		Symptoms:    []string{"Fatigue"},
	})

	// Both fields reported together, not just the first
	require.Len(t, errs, 2)
	assert.Contains(t, errs, "patient_name")
	assert.Contains(t, errs, "age")
}

func TestValidateReportInput_BloodRequiresBloodValues(t *testing.T) {
	errs := ValidateReportInput(ReportInput{
		PatientName: "John",
		Age:         40,
		InputType:   models.InputBlood,
	})

	require.Len(t, errs, 1)
	assert.Contains(t, errs, "blood_values")
}

func TestValidateReportInput_SymptomRequiresSymptoms(t *testing.T) {
	errs := ValidateReportInput(ReportInput{
		PatientName: "John",
		Age:         40,
		InputType:   models.InputSymptom,
	})

	assert.Contains(t, errs, "symptoms")
}

func TestValidateReportInput_ImageAndPDFRequireFiles(t *testing.T) {
	for _, it := range []models.InputType{models.InputImage, models.InputPDF} {
		errs := ValidateReportInput(ReportInput{
			PatientName: "John",
			Age:         40,
			InputType:   it,
		})
		assert.Contains(t, errs, "files", "input type %s", it)
	}
}

func TestValidateReportInput_HybridNeedsFilesAndPayload(t *testing.T) {
	errs := ValidateReportInput(ReportInput{
		PatientName: "John",
		Age:         40,
		InputType:   models.InputHybrid,
	})

	assert.Contains(t, errs, "files")
	assert.Contains(t, errs, "blood_values")

	errs = ValidateReportInput(ReportInput{
		PatientName: "John",
		Age:         40,
		InputType:   models.InputHybrid,
		Symptoms:    []string{"Cough"},
		FileCount:   1,
	})
	assert.Empty(t, errs)
}

func TestValidateReportInput_UnknownInputType(t *testing.T) {
	errs := ValidateReportInput(ReportInput{
		PatientName: "John",
		Age:         40,
		InputType:   "xray",
	})

	assert.Contains(t, errs, "input_type")
}

func TestValidateReportInput_Valid(t *testing.T) {
	errs := ValidateReportInput(ReportInput{
		PatientName: "John",
		Age:         40,
		InputType:   models.InputSymptom,
		Symptoms:    []string{"Fatigue"},
	})

	assert.Empty(t, errs)
}
