package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medidetect/medidetect-backend/models"
)

func TestMockPredictor_ProducesCompletePrediction(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	p := NewMockPredictor(10 * time.Millisecond)

	for i := 0; i < 20; i++ {
		pred, err := p.Predict(context.Background(), models.InputSymptom, PredictionInput{
			Symptoms: []string{"Fatigue"},
		})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, pred.Confidence, 0.0)
		assert.LessOrEqual(t, pred.Confidence, 1.0)
		assert.NotEmpty(t, pred.PredictedType)
		assert.NotEmpty(t, pred.Explanation)
		assert.NotEmpty(t, pred.ModelVersion)
	}
}

func TestMockPredictor_HonorsCancellation(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	p := NewMockPredictor(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Predict(ctx, models.InputBlood, PredictionInput{
		BloodValues: map[string]float64{"WBC": 7.1},
	})
	require.Error(t, err)
}
