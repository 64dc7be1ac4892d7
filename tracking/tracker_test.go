package tracking

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParamsTruncates(t *testing.T) {
	long := strings.Repeat("x", MaxParamValueLength+50)

	got := FormatParams(map[string]interface{}{
		"short":   42,
		"float":   0.5,
		"long":    long,
		"exact":   strings.Repeat("y", MaxParamValueLength),
		"boolean": true,
	})

	assert.Equal(t, "42", got["short"])
	assert.Equal(t, "0.5", got["float"])
	assert.Equal(t, "true", got["boolean"])
	assert.Len(t, got["long"], MaxParamValueLength)
	assert.Equal(t, long[:MaxParamValueLength], got["long"])
	assert.Len(t, got["exact"], MaxParamValueLength, "values at the limit are kept whole")
}

func TestFormatParamsTruncatesOnRuneBoundary(t *testing.T) {
	// A two-byte rune straddles the length limit; the cut must back off to
	// the rune start instead of emitting a broken byte.
	value := strings.Repeat("a", MaxParamValueLength-1) + "é" + strings.Repeat("b", 10)

	got := FormatParams(map[string]interface{}{"v": value})

	assert.True(t, utf8.ValidString(got["v"]))
	assert.Equal(t, strings.Repeat("a", MaxParamValueLength-1), got["v"])
	assert.LessOrEqual(t, len(got["v"]), MaxParamValueLength)
}

func TestMemoryTrackerRoundtrip(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryTracker()

	runID, err := tracker.StartRun(ctx, "exp", "lr", map[string]string{"USI": "abc123"})
	require.NoError(t, err)

	require.NoError(t, tracker.LogParams(ctx, runID, map[string]string{"max_iter": "1000"}))
	require.NoError(t, tracker.LogMetrics(ctx, runID, map[string]float64{"Accuracy": 0.9, "TT": 1.5}))
	require.NoError(t, tracker.SetTag(ctx, runID, "Run ID", runID))
	require.NoError(t, tracker.LogArtifact(ctx, runID, "Results.csv", []byte("Fold,Accuracy\n")))
	require.NoError(t, tracker.EndRun(ctx, runID, RunStatusFinished))

	run, ok := tracker.Run(runID)
	require.True(t, ok)
	assert.Equal(t, "exp", run.Experiment)
	assert.Equal(t, "lr", run.RunName)
	assert.Equal(t, RunStatusFinished, run.Status)
	assert.Equal(t, "abc123", run.Tags["USI"])
	assert.Equal(t, runID, run.Tags["Run ID"])
	assert.Equal(t, "1000", run.Params["max_iter"])
	assert.Equal(t, 0.9, run.Metrics["Accuracy"])
	assert.Equal(t, []byte("Fold,Accuracy\n"), run.Artifacts["Results.csv"])
}

func TestMemoryTrackerUnknownRun(t *testing.T) {
	tracker := NewMemoryTracker()
	assert.Error(t, tracker.LogParams(context.Background(), "missing", nil))
	assert.Error(t, tracker.EndRun(context.Background(), "missing", RunStatusKilled))
}
