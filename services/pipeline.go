package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/medidetect/medidetect-backend/models"
)

// ErrReportGone is returned by stores when the report no longer exists.
// A late-arriving completion for a deleted report is a no-op, not a failure.
var ErrReportGone = errors.New("report no longer exists")

// ReportStore is the slice of persistence the pipeline needs. Completion
// methods apply a conditional update (only while status is still
// processing) and report whether anything changed, which makes duplicate
// completion signals harmless.
type ReportStore interface {
	PredictionInput(id uuid.UUID) (models.InputType, PredictionInput, error)
	CompleteIfProcessing(id uuid.UUID, pred models.Prediction) (bool, error)
	FailIfProcessing(id uuid.UUID) (bool, error)
	DeployedModelVersion() string
}

type task struct {
	ReportID uuid.UUID
}

// Pipeline runs prediction for freshly created reports in the background.
// CreateReport enqueues and returns immediately; workers drain the queue.
type Pipeline struct {
	store     ReportStore
	predictor Predictor
	tasks     chan task
	timeout   time.Duration

	// OnStatusChange fires after a terminal status has been durably applied.
	OnStatusChange func(reportID uuid.UUID, status models.ReportStatus)
}

func NewPipeline(store ReportStore, predictor Predictor) *Pipeline {
	return &Pipeline{
		store:     store,
		predictor: predictor,
		tasks:     make(chan task, 256),
		timeout:   predictTimeout(),
	}
}

// predictTimeout reads PREDICT_TIMEOUT in seconds, default 30.
func predictTimeout() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("PREDICT_TIMEOUT")); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return 30 * time.Second
}

// Start launches the worker goroutines.
func (p *Pipeline) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
}

// Enqueue schedules prediction for a report. Never blocks the caller: if the
// queue is full the task is processed in its own goroutine instead.
func (p *Pipeline) Enqueue(reportID uuid.UUID) {
	t := task{ReportID: reportID}
	select {
	case p.tasks <- t:
	default:
		go p.Process(t.ReportID)
	}
}

// QueueDepth reports how many tasks are waiting for a worker.
func (p *Pipeline) QueueDepth() int {
	return len(p.tasks)
}

func (p *Pipeline) worker() {
	for t := range p.tasks {
		p.Process(t.ReportID)
	}
}

// Process runs one prediction and applies the terminal status. Safe to call
// more than once for the same report: the conditional updates make the
// second call a no-op.
func (p *Pipeline) Process(reportID uuid.UUID) {
	inputType, input, err := p.store.PredictionInput(reportID)
	if err != nil {
		if errors.Is(err, ErrReportGone) {
			log.Printf("report %s deleted before prediction, skipping", reportID)
			return
		}
		log.Printf("cannot load report %s for prediction: %v", reportID, err)
		p.fail(reportID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	pred, err := p.predictor.Predict(ctx, inputType, input)
	if err != nil {
		log.Printf("prediction for report %s failed: %v", reportID, err)
		p.fail(reportID)
		return
	}

	if v := p.store.DeployedModelVersion(); v != "" {
		pred.ModelVersion = v
	}

	applied, err := p.store.CompleteIfProcessing(reportID, pred)
	if err != nil {
		log.Printf("cannot complete report %s: %v", reportID, err)
		return
	}
	if !applied {
		log.Printf("report %s already terminal or deleted, completion dropped", reportID)
		return
	}
	if p.OnStatusChange != nil {
		p.OnStatusChange(reportID, models.ReportDone)
	}
}

func (p *Pipeline) fail(reportID uuid.UUID) {
	applied, err := p.store.FailIfProcessing(reportID)
	if err != nil {
		log.Printf("cannot fail report %s: %v", reportID, err)
		return
	}
	if applied && p.OnStatusChange != nil {
		p.OnStatusChange(reportID, models.ReportFailed)
	}
}
