package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medidetect/medidetect-backend/models"
)

// --- MOCKS ---

// memoryReportStore mimics the conditional-update semantics of the real
// store: a completion only lands while the report is still processing.
type memoryReportStore struct {
	mu       sync.Mutex
	status   map[uuid.UUID]models.ReportStatus
	pred     map[uuid.UUID]models.Prediction
	deployed string
}

func newMemoryReportStore() *memoryReportStore {
	return &memoryReportStore{
		status: make(map[uuid.UUID]models.ReportStatus),
		pred:   make(map[uuid.UUID]models.Prediction),
	}
}

func (s *memoryReportStore) add(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[id] = models.ReportProcessing
}

func (s *memoryReportStore) PredictionInput(id uuid.UUID) (models.InputType, PredictionInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.status[id]; !ok {
		return "", PredictionInput{}, ErrReportGone
	}
	return models.InputSymptom, PredictionInput{Symptoms: []string{"Fatigue"}}, nil
}

func (s *memoryReportStore) CompleteIfProcessing(id uuid.UUID, pred models.Prediction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status[id] != models.ReportProcessing {
		return false, nil
	}
	s.status[id] = models.ReportDone
	s.pred[id] = pred
	return true, nil
}

func (s *memoryReportStore) FailIfProcessing(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status[id] != models.ReportProcessing {
		return false, nil
	}
	s.status[id] = models.ReportFailed
	return true, nil
}

func (s *memoryReportStore) DeployedModelVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deployed
}

func (s *memoryReportStore) get(id uuid.UUID) (models.ReportStatus, models.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[id], s.pred[id]
}

type stubPredictor struct {
	pred  models.Prediction
	err   error
	calls int
	mu    sync.Mutex
}

func (p *stubPredictor) Predict(ctx context.Context, inputType models.InputType, input PredictionInput) (models.Prediction, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.pred, p.err
}

// --- TESTS ---

func TestPipeline_CompletesProcessingReport(t *testing.T) {
	store := newMemoryReportStore()
	id := uuid.New()
	store.add(id)

	predictor := &stubPredictor{pred: models.Prediction{
		Cancer: true, PredictedType: "Leukemia", Confidence: 0.91,
		Explanation: "x", ModelVersion: "v1.0.0",
	}}

	var notified []models.ReportStatus
	p := NewPipeline(store, predictor)
	p.OnStatusChange = func(_ uuid.UUID, s models.ReportStatus) {
		notified = append(notified, s)
	}

	p.Process(id)

	status, pred := store.get(id)
	assert.Equal(t, models.ReportDone, status)
	assert.Equal(t, 0.91, pred.Confidence)
	assert.Equal(t, []models.ReportStatus{models.ReportDone}, notified)
}

func TestPipeline_DuplicateCompletionIsNoOp(t *testing.T) {
	store := newMemoryReportStore()
	id := uuid.New()
	store.add(id)

	predictor := &stubPredictor{pred: models.Prediction{
		Cancer: false, PredictedType: "none", Confidence: 0.75,
		Explanation: "x", ModelVersion: "v1.0.0",
	}}

	notifications := 0
	p := NewPipeline(store, predictor)
	p.OnStatusChange = func(uuid.UUID, models.ReportStatus) { notifications++ }

	p.Process(id)
	first, firstPred := store.get(id)

	// Duplicate completion signal for an already-terminal report
	p.Process(id)

	status, pred := store.get(id)
	assert.Equal(t, first, status)
	assert.Equal(t, firstPred, pred)
	assert.Equal(t, 1, notifications, "only the first completion may notify")
}

func TestPipeline_PredictorFailureFailsReport(t *testing.T) {
	store := newMemoryReportStore()
	id := uuid.New()
	store.add(id)

	p := NewPipeline(store, &stubPredictor{err: errors.New("model unavailable")})
	p.Process(id)

	status, _ := store.get(id)
	assert.Equal(t, models.ReportFailed, status)
}

func TestPipeline_DeletedReportIsSkipped(t *testing.T) {
	store := newMemoryReportStore()
	id := uuid.New() // never added: simulates deletion before prediction

	predictor := &stubPredictor{pred: models.Prediction{Confidence: 0.6}}
	p := NewPipeline(store, predictor)
	p.Process(id)

	status, _ := store.get(id)
	assert.Equal(t, models.ReportStatus(""), status)
	assert.Equal(t, 0, predictor.calls, "predictor must not run for a deleted report")
}

func TestPipeline_StampsDeployedModelVersion(t *testing.T) {
	store := newMemoryReportStore()
	store.deployed = "v2.3.0"
	id := uuid.New()
	store.add(id)

	p := NewPipeline(store, &stubPredictor{pred: models.Prediction{
		PredictedType: "none", Confidence: 0.8, ModelVersion: "v1.0.0",
	}})
	p.Process(id)

	_, pred := store.get(id)
	assert.Equal(t, "v2.3.0", pred.ModelVersion)
}

func TestPipeline_QueueDepth(t *testing.T) {
	store := newMemoryReportStore()
	id := uuid.New()
	store.add(id)

	// No workers started: the enqueued task stays queued
	p := NewPipeline(store, &stubPredictor{pred: models.Prediction{Confidence: 0.7}})
	assert.Equal(t, 0, p.QueueDepth())
	p.Enqueue(id)
	assert.Equal(t, 1, p.QueueDepth())
}

func TestPipeline_EnqueueProcessesAsynchronously(t *testing.T) {
	store := newMemoryReportStore()
	id := uuid.New()
	store.add(id)

	p := NewPipeline(store, &stubPredictor{pred: models.Prediction{Confidence: 0.7}})
	p.Start(2)
	p.Enqueue(id)

	require.Eventually(t, func() bool {
		status, _ := store.get(id)
		return status == models.ReportDone
	}, 2*time.Second, 10*time.Millisecond)
}
