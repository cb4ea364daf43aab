package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/medidetect/medidetect-backend/models"
)

// PredictionInput is everything the predictor may look at for one report.
type PredictionInput struct {
	BloodValues   map[string]float64
	Symptoms      []string
	FileURLs      []string
	ExtractedText string
}

// Predictor is the external prediction collaborator. Called once per report
// by the pipeline; implementations must honor ctx cancellation.
type Predictor interface {
	Predict(ctx context.Context, inputType models.InputType, input PredictionInput) (models.Prediction, error)
}

type mockOutcome struct {
	Cancer        bool
	PredictedType string
	Explanation   string
}

var mockOutcomes = []mockOutcome{
	{false, "none", "No malignancy indicators were found in the submitted data."},
	{true, "Lung Cancer", "Patterns in the submitted data are consistent with early-stage lung carcinoma."},
	{true, "Breast Cancer", "Marker distribution suggests a breast tumor; a biopsy is recommended."},
	{true, "Leukemia", "Blood cell counts deviate in a pattern associated with leukemia."},
	{true, "Skin Cancer", "Lesion characteristics match known melanoma presentations."},
	{false, "none", "Findings are benign; routine screening is sufficient."},
}

// MockPredictor picks a random outcome from a fixed list after a fixed
// delay, standing in for the real model service. When GEMINI_API_KEY is set
// the canned explanation is replaced with a generated one.
type MockPredictor struct {
	Delay        time.Duration
	ModelVersion string

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockPredictor(delay time.Duration) *MockPredictor {
	return &MockPredictor{
		Delay:        delay,
		ModelVersion: "v1.0.0",
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockPredictor) Predict(ctx context.Context, inputType models.InputType, input PredictionInput) (models.Prediction, error) {
	// Fixed processing delay, interruptible
	select {
	case <-time.After(m.Delay):
	case <-ctx.Done():
		return models.Prediction{}, ctx.Err()
	}

	m.mu.Lock()
	outcome := mockOutcomes[m.rng.Intn(len(mockOutcomes))]
	confidence := 0.5 + m.rng.Float64()*0.5
	m.mu.Unlock()

	pred := models.Prediction{
		Cancer:        outcome.Cancer,
		PredictedType: outcome.PredictedType,
		Confidence:    confidence,
		Explanation:   outcome.Explanation,
		ModelVersion:  m.ModelVersion,
	}

	if os.Getenv("GEMINI_API_KEY") != "" {
		if text, err := GeminiGenerateText(ctx, explanationPrompt(inputType, input, pred)); err == nil {
			pred.Explanation = text
		} else {
			log.Println("gemini explanation failed, keeping canned text:", err)
		}
	}

	return pred, nil
}

func explanationPrompt(inputType models.InputType, input PredictionInput, pred models.Prediction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, patient-friendly explanation for a %s-based cancer screening result. ", inputType)
	fmt.Fprintf(&b, "Predicted: %s (risk flag %v, confidence %.2f). ", pred.PredictedType, pred.Cancer, pred.Confidence)
	if len(input.Symptoms) > 0 {
		fmt.Fprintf(&b, "Reported symptoms: %s. ", strings.Join(input.Symptoms, ", "))
	}
	if len(input.BloodValues) > 0 {
		fmt.Fprintf(&b, "%d blood markers were analyzed. ", len(input.BloodValues))
	}
	b.WriteString("Do not give medical advice beyond recommending a doctor visit.")
	return b.String()
}
