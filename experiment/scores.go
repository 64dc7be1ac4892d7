package experiment

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// Aggregate row labels appended after the per-fold rows of a score table.
const (
	MeanRowLabel = "Mean"
	StdRowLabel  = "Std"
)

// ScoreRow is a single row of a score table: one cross-validation fold or a
// trailing aggregate, keyed by metric display name.
type ScoreRow struct {
	Label  string
	Values map[string]float64
}

// ScoreTable holds the per-fold scores of a trained model followed by the
// trailing aggregate rows [Mean, Std]. Rows are ordered; columns are metric
// display names.
type ScoreTable struct {
	Columns []string
	Rows    []ScoreRow
}

// NewScoreTable creates an empty table with the given column order.
func NewScoreTable(columns []string) *ScoreTable {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &ScoreTable{Columns: cols}
}

// Append adds a row. Values is used as-is; callers must not mutate it after.
func (t *ScoreTable) Append(label string, values map[string]float64) {
	t.Rows = append(t.Rows, ScoreRow{Label: label, Values: values})
}

// Len returns the number of rows, aggregates included.
func (t *ScoreTable) Len() int {
	return len(t.Rows)
}

// Value returns the cell at a row index and column.
func (t *ScoreTable) Value(row int, column string) (float64, error) {
	if row < 0 || row >= len(t.Rows) {
		return 0, errors.NewValueError("ScoreTable.Value", "row index out of range")
	}
	v, ok := t.Rows[row].Values[column]
	if !ok {
		return 0, errors.Newf("ScoreTable.Value: no column %q", column)
	}
	return v, nil
}

// Aggregate returns the column's value in the second-to-last row: the mean,
// given the trailing [Mean, Std] row convention. The indexing is positional
// on purpose, matching how tables are built by the trainer.
func (t *ScoreTable) Aggregate(column string) (float64, error) {
	if len(t.Rows) < 2 {
		return 0, errors.NewValueError("ScoreTable.Aggregate", "table has no aggregate rows")
	}
	return t.Value(len(t.Rows)-2, column)
}

// AppendAggregates computes and appends the Mean and Std rows over the
// current per-fold rows.
func (t *ScoreTable) AppendAggregates() {
	means := make(map[string]float64, len(t.Columns))
	stds := make(map[string]float64, len(t.Columns))

	for _, col := range t.Columns {
		var sum float64
		count := 0
		for _, row := range t.Rows {
			if v, ok := row.Values[col]; ok {
				sum += v
				count++
			}
		}
		if count == 0 {
			continue
		}
		mean := sum / float64(count)
		means[col] = mean

		var sqSum float64
		for _, row := range t.Rows {
			if v, ok := row.Values[col]; ok {
				d := v - mean
				sqSum += d * d
			}
		}
		stds[col] = math.Sqrt(sqSum / float64(count))
	}

	t.Append(MeanRowLabel, means)
	t.Append(StdRowLabel, stds)
}

// WriteCSV writes the table with a leading Fold column, one row per entry.
func (t *ScoreTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"Fold"}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write score table header")
	}

	for _, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Label)
		for _, col := range t.Columns {
			if v, ok := row.Values[col]; ok {
				record = append(record, strconv.FormatFloat(v, 'f', 4, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write score table row")
		}
	}

	cw.Flush()
	return errors.WithStack(cw.Error())
}
