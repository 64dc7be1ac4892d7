// Package tracking records experiment runs: parameters, metrics, tags and
// artifacts. The MLflow client talks to an MLflow tracking server over its
// REST API; MemoryTracker records runs in memory for offline use and tests.
package tracking

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// RunStatus is the terminal (or current) state of a tracked run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusFinished RunStatus = "FINISHED"
	RunStatusFailed   RunStatus = "FAILED"
	RunStatusKilled   RunStatus = "KILLED"
)

// MaxParamValueLength is the longest parameter value a tracking backend
// accepts. Longer values are truncated before logging.
const MaxParamValueLength = 250

// Tracker records experiment runs.
type Tracker interface {
	// StartRun opens a run under the named experiment and returns its id.
	StartRun(ctx context.Context, experiment, runName string, tags map[string]string) (string, error)

	// LogParams records hyperparameters on the run.
	LogParams(ctx context.Context, runID string, params map[string]string) error

	// LogMetrics records metric values on the run.
	LogMetrics(ctx context.Context, runID string, metrics map[string]float64) error

	// SetTag sets a single tag on the run.
	SetTag(ctx context.Context, runID, key, value string) error

	// LogArtifact stores a named artifact blob on the run.
	LogArtifact(ctx context.Context, runID, name string, data []byte) error

	// EndRun closes the run with a terminal status.
	EndRun(ctx context.Context, runID string, status RunStatus) error
}

// FormatParams renders a parameter map to strings, truncating values longer
// than MaxParamValueLength. Truncation never splits a multi-byte rune.
func FormatParams(params map[string]interface{}) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		s := fmt.Sprintf("%v", v)
		if len(s) > MaxParamValueLength {
			cut := MaxParamValueLength
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			s = s[:cut]
		}
		out[k] = s
	}
	return out
}
