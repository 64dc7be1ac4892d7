package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// MLflowTracker logs runs to an MLflow tracking server over the REST API.
type MLflowTracker struct {
	baseURL string
	client  *http.Client
}

// NewMLflowTracker creates a tracker for the server at baseURL,
// e.g. "http://localhost:5000".
func NewMLflowTracker(baseURL string, client *http.Client) *MLflowTracker {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &MLflowTracker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type mlflowExperiment struct {
	ExperimentID string `json:"experiment_id"`
}

type mlflowTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type mlflowParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type mlflowMetric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

// StartRun resolves (or creates) the experiment and opens a run under it.
func (t *MLflowTracker) StartRun(ctx context.Context, experiment, runName string, tags map[string]string) (string, error) {
	expID, err := t.experimentID(ctx, experiment)
	if err != nil {
		return "", err
	}

	runTags := make([]mlflowTag, 0, len(tags)+1)
	runTags = append(runTags, mlflowTag{Key: "mlflow.runName", Value: runName})
	for k, v := range tags {
		runTags = append(runTags, mlflowTag{Key: k, Value: v})
	}

	req := struct {
		ExperimentID string      `json:"experiment_id"`
		StartTime    int64       `json:"start_time"`
		Tags         []mlflowTag `json:"tags"`
	}{
		ExperimentID: expID,
		StartTime:    time.Now().UnixMilli(),
		Tags:         runTags,
	}

	var resp struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}
	if err := t.post(ctx, "/api/2.0/mlflow/runs/create", req, &resp); err != nil {
		return "", errors.Wrap(err, "start mlflow run")
	}
	return resp.Run.Info.RunID, nil
}

// experimentID looks the experiment up by name, creating it when missing.
func (t *MLflowTracker) experimentID(ctx context.Context, name string) (string, error) {
	endpoint := t.baseURL + "/api/2.0/mlflow/experiments/get-by-name?experiment_name=" + url.QueryEscape(name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.WithStack(err)
	}
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "get mlflow experiment")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusOK {
		var got struct {
			Experiment mlflowExperiment `json:"experiment"`
		}
		if err := json.NewDecoder(httpResp.Body).Decode(&got); err != nil {
			return "", errors.Wrap(err, "decode mlflow experiment")
		}
		return got.Experiment.ExperimentID, nil
	}
	io.Copy(io.Discard, httpResp.Body)

	var created mlflowExperiment
	err = t.post(ctx, "/api/2.0/mlflow/experiments/create",
		map[string]string{"name": name}, &created)
	if err != nil {
		return "", errors.Wrap(err, "create mlflow experiment")
	}
	return created.ExperimentID, nil
}

// LogParams logs all parameters in a single log-batch call.
func (t *MLflowTracker) LogParams(ctx context.Context, runID string, params map[string]string) error {
	batch := make([]mlflowParam, 0, len(params))
	for k, v := range params {
		batch = append(batch, mlflowParam{Key: k, Value: v})
	}
	req := struct {
		RunID  string        `json:"run_id"`
		Params []mlflowParam `json:"params"`
	}{RunID: runID, Params: batch}
	return errors.Wrap(t.post(ctx, "/api/2.0/mlflow/runs/log-batch", req, nil), "log mlflow params")
}

// LogMetrics logs all metrics in a single log-batch call.
func (t *MLflowTracker) LogMetrics(ctx context.Context, runID string, metrics map[string]float64) error {
	now := time.Now().UnixMilli()
	batch := make([]mlflowMetric, 0, len(metrics))
	for k, v := range metrics {
		batch = append(batch, mlflowMetric{Key: k, Value: v, Timestamp: now})
	}
	req := struct {
		RunID   string         `json:"run_id"`
		Metrics []mlflowMetric `json:"metrics"`
	}{RunID: runID, Metrics: batch}
	return errors.Wrap(t.post(ctx, "/api/2.0/mlflow/runs/log-batch", req, nil), "log mlflow metrics")
}

// SetTag sets one tag on the run.
func (t *MLflowTracker) SetTag(ctx context.Context, runID, key, value string) error {
	req := struct {
		RunID string `json:"run_id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	}{RunID: runID, Key: key, Value: value}
	return errors.Wrap(t.post(ctx, "/api/2.0/mlflow/runs/set-tag", req, nil), "set mlflow tag")
}

// LogArtifact uploads an artifact through the mlflow-artifacts proxy.
func (t *MLflowTracker) LogArtifact(ctx context.Context, runID, name string, data []byte) error {
	endpoint := fmt.Sprintf("%s/api/2.0/mlflow-artifacts/artifacts/%s/%s", t.baseURL, runID, name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return errors.WithStack(err)
	}
	httpReq.Header.Set("Content-Type", "application/octet-stream")

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "upload mlflow artifact")
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode >= 300 {
		return errors.Newf("upload mlflow artifact %q: status %d", name, httpResp.StatusCode)
	}
	return nil
}

// EndRun closes the run with the given status.
func (t *MLflowTracker) EndRun(ctx context.Context, runID string, status RunStatus) error {
	req := struct {
		RunID   string `json:"run_id"`
		Status  string `json:"status"`
		EndTime int64  `json:"end_time"`
	}{RunID: runID, Status: string(status), EndTime: time.Now().UnixMilli()}
	return errors.Wrap(t.post(ctx, "/api/2.0/mlflow/runs/update", req, nil), "end mlflow run")
}

func (t *MLflowTracker) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.WithStack(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.WithStack(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return errors.WithStack(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return errors.Newf("mlflow %s: status %d: %s", path, httpResp.StatusCode, string(msg))
	}

	if out == nil {
		io.Copy(io.Discard, httpResp.Body)
		return nil
	}
	return errors.WithStack(json.NewDecoder(httpResp.Body).Decode(out))
}
