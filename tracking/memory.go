package tracking

import (
	"context"
	"strconv"
	"sync"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// MemoryRun is one run recorded by a MemoryTracker.
type MemoryRun struct {
	Experiment string
	RunName    string
	Status     RunStatus
	Params     map[string]string
	Metrics    map[string]float64
	Tags       map[string]string
	Artifacts  map[string][]byte
}

// MemoryTracker records runs in memory. It is safe for concurrent use.
type MemoryTracker struct {
	mu   sync.Mutex
	runs map[string]*MemoryRun
	next int
}

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{runs: make(map[string]*MemoryRun)}
}

// StartRun opens a new run and returns its id.
func (t *MemoryTracker) StartRun(_ context.Context, experiment, runName string, tags map[string]string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	runID := "run-" + strconv.Itoa(t.next)

	run := &MemoryRun{
		Experiment: experiment,
		RunName:    runName,
		Status:     RunStatusRunning,
		Params:     make(map[string]string),
		Metrics:    make(map[string]float64),
		Tags:       make(map[string]string),
		Artifacts:  make(map[string][]byte),
	}
	for k, v := range tags {
		run.Tags[k] = v
	}
	t.runs[runID] = run
	return runID, nil
}

// LogParams records parameters on the run.
func (t *MemoryTracker) LogParams(_ context.Context, runID string, params map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.run(runID)
	if err != nil {
		return err
	}
	for k, v := range params {
		run.Params[k] = v
	}
	return nil
}

// LogMetrics records metric values on the run.
func (t *MemoryTracker) LogMetrics(_ context.Context, runID string, metrics map[string]float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.run(runID)
	if err != nil {
		return err
	}
	for k, v := range metrics {
		run.Metrics[k] = v
	}
	return nil
}

// SetTag sets a tag on the run.
func (t *MemoryTracker) SetTag(_ context.Context, runID, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.run(runID)
	if err != nil {
		return err
	}
	run.Tags[key] = value
	return nil
}

// LogArtifact stores an artifact blob on the run.
func (t *MemoryTracker) LogArtifact(_ context.Context, runID, name string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.run(runID)
	if err != nil {
		return err
	}
	blob := make([]byte, len(data))
	copy(blob, data)
	run.Artifacts[name] = blob
	return nil
}

// EndRun closes the run with the given status.
func (t *MemoryTracker) EndRun(_ context.Context, runID string, status RunStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.run(runID)
	if err != nil {
		return err
	}
	run.Status = status
	return nil
}

// Run returns a recorded run by id, for inspection.
func (t *MemoryTracker) Run(runID string) (*MemoryRun, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[runID]
	return run, ok
}

// Runs returns the number of recorded runs.
func (t *MemoryTracker) Runs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runs)
}

func (t *MemoryTracker) run(runID string) (*MemoryRun, error) {
	run, ok := t.runs[runID]
	if !ok {
		return nil, errors.Newf("tracking: unknown run %q", runID)
	}
	return run, nil
}
