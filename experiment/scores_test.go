package experiment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreTableAggregates(t *testing.T) {
	table := NewScoreTable([]string{"Accuracy", "AUC"})
	table.Append("Fold 0", map[string]float64{"Accuracy": 0.8, "AUC": 0.7})
	table.Append("Fold 1", map[string]float64{"Accuracy": 0.6, "AUC": 0.9})
	table.AppendAggregates()

	require.Equal(t, 4, table.Len())
	assert.Equal(t, MeanRowLabel, table.Rows[2].Label)
	assert.Equal(t, StdRowLabel, table.Rows[3].Label)

	mean, err := table.Aggregate("Accuracy")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, mean, 1e-10)

	std, err := table.Value(3, "Accuracy")
	require.NoError(t, err)
	assert.InDelta(t, 0.1, std, 1e-10)
}

func TestScoreTableAggregateReadsSecondToLastRow(t *testing.T) {
	// Aggregate is positional: whatever sits second-to-last is the answer.
	table := NewScoreTable([]string{"MAE"})
	table.Append("Fold 0", map[string]float64{"MAE": 1.0})
	table.Append(MeanRowLabel, map[string]float64{"MAE": 2.5})
	table.Append(StdRowLabel, map[string]float64{"MAE": 0.5})

	got, err := table.Aggregate("MAE")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}

func TestScoreTableAggregateErrors(t *testing.T) {
	table := NewScoreTable([]string{"Accuracy"})
	_, err := table.Aggregate("Accuracy")
	assert.Error(t, err, "table without aggregate rows")

	table.Append("Fold 0", map[string]float64{"Accuracy": 0.8})
	table.AppendAggregates()
	_, err = table.Aggregate("Recall")
	assert.Error(t, err, "unknown column")
}

func TestScoreTableWriteCSV(t *testing.T) {
	table := NewScoreTable([]string{"Accuracy"})
	table.Append("Fold 0", map[string]float64{"Accuracy": 0.8125})
	table.AppendAggregates()

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Fold,Accuracy", lines[0])
	assert.Equal(t, "Fold 0,0.8125", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Mean,"))
	assert.True(t, strings.HasPrefix(lines[3], "Std,"))
}

func TestModelContainer(t *testing.T) {
	c := NewModelContainer()
	assert.Equal(t, 0, c.Len())

	_, err := c.Pop()
	assert.Error(t, err, "pop from empty container")

	normal := &ContainerEntry{Model: &stubEstimator{id: "a"}}
	special := &ContainerEntry{Model: &stubEstimator{id: "b"}, IsSpecial: true}
	c.Append(normal)
	c.Append(special)

	assert.Equal(t, 2, c.Len())
	assert.Same(t, normal, c.At(0))

	assert.Len(t, c.Entries(false), 1)
	assert.Len(t, c.Entries(true), 2)

	popped, err := c.Pop()
	require.NoError(t, err)
	assert.Same(t, special, popped)
	assert.Equal(t, 1, c.Len())
}
