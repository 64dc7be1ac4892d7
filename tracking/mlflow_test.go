package tracking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMLflowTrackerRun(t *testing.T) {
	var (
		createdExperiment bool
		loggedBatches     int
		updatedStatus     string
		artifactBody      []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/2.0/mlflow/experiments/get-by-name"):
			http.Error(w, `{"error_code":"RESOURCE_DOES_NOT_EXIST"}`, http.StatusNotFound)

		case r.URL.Path == "/api/2.0/mlflow/experiments/create":
			createdExperiment = true
			json.NewEncoder(w).Encode(map[string]string{"experiment_id": "7"})

		case r.URL.Path == "/api/2.0/mlflow/runs/create":
			var req struct {
				ExperimentID string `json:"experiment_id"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "7", req.ExperimentID)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"run": map[string]interface{}{"info": map[string]string{"run_id": "run-1"}},
			})

		case r.URL.Path == "/api/2.0/mlflow/runs/log-batch":
			loggedBatches++
			w.Write([]byte("{}"))

		case r.URL.Path == "/api/2.0/mlflow/runs/set-tag":
			w.Write([]byte("{}"))

		case strings.HasPrefix(r.URL.Path, "/api/2.0/mlflow-artifacts/artifacts/"):
			assert.Equal(t, http.MethodPut, r.Method)
			var err error
			artifactBody, err = io.ReadAll(r.Body)
			require.NoError(t, err)
			w.WriteHeader(http.StatusOK)

		case r.URL.Path == "/api/2.0/mlflow/runs/update":
			var req struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			updatedStatus = req.Status
			w.Write([]byte("{}"))

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	tracker := NewMLflowTracker(server.URL, server.Client())

	runID, err := tracker.StartRun(ctx, "exp", "lr", map[string]string{"USI": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)
	assert.True(t, createdExperiment, "missing experiment must be created")

	require.NoError(t, tracker.LogParams(ctx, runID, map[string]string{"max_iter": "1000"}))
	require.NoError(t, tracker.LogMetrics(ctx, runID, map[string]float64{"Accuracy": 0.9}))
	assert.Equal(t, 2, loggedBatches)

	require.NoError(t, tracker.SetTag(ctx, runID, "Run ID", runID))
	require.NoError(t, tracker.LogArtifact(ctx, runID, "Results.csv", []byte("Fold,Accuracy\n")))
	assert.Equal(t, []byte("Fold,Accuracy\n"), artifactBody)

	require.NoError(t, tracker.EndRun(ctx, runID, RunStatusFinished))
	assert.Equal(t, string(RunStatusFinished), updatedStatus)
}

func TestMLflowTrackerServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	tracker := NewMLflowTracker(server.URL, server.Client())
	_, err := tracker.StartRun(context.Background(), "exp", "lr", nil)
	assert.Error(t, err)
}
