package plots

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// ROCCurve renders the receiver operating characteristic built from binary
// labels and positive-class scores.
func ROCCurve(yTrue, yScore []float64, path string) error {
	if err := validatePair("ROCCurve", yTrue, yScore); err != nil {
		return err
	}

	fpr, tpr := rocPoints(yTrue, yScore)

	p := newPlot("ROC Curve", "False Positive Rate", "True Positive Rate")
	if err := addDiagonal(p, 0, 1); err != nil {
		return err
	}
	if err := addLine(p, fmt.Sprintf("ROC (AUC = %.3f)", trapezoid(fpr, tpr)), xys(fpr, tpr), trainColor); err != nil {
		return err
	}
	return save(p, path)
}

// PrecisionRecallCurve renders precision against recall over all score
// thresholds.
func PrecisionRecallCurve(yTrue, yScore []float64, path string) error {
	if err := validatePair("PrecisionRecallCurve", yTrue, yScore); err != nil {
		return err
	}

	order := rankedByScore(yScore)
	positives := 0
	for _, v := range yTrue {
		if v == 1 {
			positives++
		}
	}
	if positives == 0 {
		return errors.NewValueError("PrecisionRecallCurve", "no positive samples")
	}

	recall := make([]float64, 0, len(order))
	precision := make([]float64, 0, len(order))
	tp := 0
	for rank, idx := range order {
		if yTrue[idx] == 1 {
			tp++
		}
		recall = append(recall, float64(tp)/float64(positives))
		precision = append(precision, float64(tp)/float64(rank+1))
	}

	p := newPlot("Precision-Recall Curve", "Recall", "Precision")
	p.Y.Min, p.Y.Max = 0, 1.05
	if err := addLine(p, "Precision-Recall", xys(recall, precision), trainColor); err != nil {
		return err
	}
	return save(p, path)
}

// ThresholdCurve renders precision, recall and F1 as functions of the
// decision threshold.
func ThresholdCurve(yTrue, yScore []float64, path string) error {
	if err := validatePair("ThresholdCurve", yTrue, yScore); err != nil {
		return err
	}

	const steps = 50
	thresholds := make([]float64, 0, steps+1)
	precisions := make([]float64, 0, steps+1)
	recalls := make([]float64, 0, steps+1)
	f1s := make([]float64, 0, steps+1)

	for s := 0; s <= steps; s++ {
		th := float64(s) / steps
		tp, fp, fn := 0, 0, 0
		for i := range yTrue {
			predicted := yScore[i] >= th
			actual := yTrue[i] == 1
			switch {
			case predicted && actual:
				tp++
			case predicted && !actual:
				fp++
			case !predicted && actual:
				fn++
			}
		}

		var prec, rec, f1 float64
		if tp+fp > 0 {
			prec = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			rec = float64(tp) / float64(tp+fn)
		}
		if prec+rec > 0 {
			f1 = 2 * prec * rec / (prec + rec)
		}

		thresholds = append(thresholds, th)
		precisions = append(precisions, prec)
		recalls = append(recalls, rec)
		f1s = append(f1s, f1)
	}

	p := newPlot("Discrimination Threshold", "Threshold", "Score")
	p.Y.Min, p.Y.Max = 0, 1.05
	if err := addLine(p, "Precision", xys(thresholds, precisions), trainColor); err != nil {
		return err
	}
	if err := addLine(p, "Recall", xys(thresholds, recalls), holdoutColor); err != nil {
		return err
	}
	if err := addLine(p, "F1", xys(thresholds, f1s), color.RGBA{R: 44, G: 160, B: 44, A: 255}); err != nil {
		return err
	}
	return save(p, path)
}

// CalibrationCurve renders the reliability diagram: observed positive
// fraction against mean predicted probability over ten equal-width bins.
func CalibrationCurve(yTrue, yScore []float64, path string) error {
	if err := validatePair("CalibrationCurve", yTrue, yScore); err != nil {
		return err
	}

	const bins = 10
	sumScore := make([]float64, bins)
	sumTrue := make([]float64, bins)
	count := make([]int, bins)

	for i := range yScore {
		b := int(yScore[i] * bins)
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		sumScore[b] += yScore[i]
		sumTrue[b] += yTrue[i]
		count[b]++
	}

	var meanPred, fracPos []float64
	for b := 0; b < bins; b++ {
		if count[b] == 0 {
			continue
		}
		meanPred = append(meanPred, sumScore[b]/float64(count[b]))
		fracPos = append(fracPos, sumTrue[b]/float64(count[b]))
	}

	p := newPlot("Calibration Curve", "Mean Predicted Probability", "Fraction of Positives")
	if err := addDiagonal(p, 0, 1); err != nil {
		return err
	}
	if err := addLine(p, "Model", xys(meanPred, fracPos), trainColor); err != nil {
		return err
	}
	return save(p, path)
}

// GainCurve renders the cumulative gain: the fraction of positives captured
// against the fraction of the population contacted, best scores first.
func GainCurve(yTrue, yScore []float64, path string) error {
	if err := validatePair("GainCurve", yTrue, yScore); err != nil {
		return err
	}

	population, gain, err := cumulativeGain(yTrue, yScore)
	if err != nil {
		return err
	}

	p := newPlot("Cumulative Gain", "Fraction of Samples", "Fraction of Positives")
	if err := addDiagonal(p, 0, 1); err != nil {
		return err
	}
	if err := addLine(p, "Model", xys(population, gain), trainColor); err != nil {
		return err
	}
	return save(p, path)
}

// LiftCurve renders the lift over random targeting at each population
// fraction.
func LiftCurve(yTrue, yScore []float64, path string) error {
	if err := validatePair("LiftCurve", yTrue, yScore); err != nil {
		return err
	}

	population, gain, err := cumulativeGain(yTrue, yScore)
	if err != nil {
		return err
	}

	lift := make([]float64, len(gain))
	for i := range gain {
		lift[i] = gain[i] / population[i]
	}

	p := newPlot("Lift Curve", "Fraction of Samples", "Lift")
	baseline, err := plotter.NewLine(plotter.XYs{{X: population[0], Y: 1}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "build baseline")
	}
	baseline.Color = baselineColor
	baseline.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(baseline)
	p.Legend.Add("Baseline", baseline)

	if err := addLine(p, "Model", xys(population, lift), trainColor); err != nil {
		return err
	}
	return save(p, path)
}

// ConfusionMatrix renders the confusion matrix of integer-labeled
// predictions as a heat map with one cell per (actual, predicted) pair.
func ConfusionMatrix(yTrue, yPred []float64, path string) error {
	if err := validatePair("ConfusionMatrix", yTrue, yPred); err != nil {
		return err
	}

	classes := sortedClasses(yTrue, yPred)
	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	counts := make([][]float64, len(classes))
	for i := range counts {
		counts[i] = make([]float64, len(classes))
	}
	for i := range yTrue {
		counts[index[int(yTrue[i])]][index[int(yPred[i])]]++
	}

	grid := &matrixGrid{classes: classes, cells: counts}
	heat := plotter.NewHeatMap(grid, palette.Heat(12, 1))

	p := newPlot("Confusion Matrix", "Predicted Class", "Actual Class")
	p.Add(heat)
	return save(p, path)
}

// ClassificationReport renders per-class precision, recall and F1 as grouped
// bars.
func ClassificationReport(yTrue, yPred []float64, path string) error {
	if err := validatePair("ClassificationReport", yTrue, yPred); err != nil {
		return err
	}

	classes := sortedClasses(yTrue, yPred)
	precisions := make(plotter.Values, len(classes))
	recalls := make(plotter.Values, len(classes))
	f1s := make(plotter.Values, len(classes))
	names := make([]string, len(classes))

	for i, class := range classes {
		tp, fp, fn := 0, 0, 0
		for j := range yTrue {
			predicted := int(yPred[j]) == class
			actual := int(yTrue[j]) == class
			switch {
			case predicted && actual:
				tp++
			case predicted && !actual:
				fp++
			case !predicted && actual:
				fn++
			}
		}
		if tp+fp > 0 {
			precisions[i] = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recalls[i] = float64(tp) / float64(tp+fn)
		}
		if precisions[i]+recalls[i] > 0 {
			f1s[i] = 2 * precisions[i] * recalls[i] / (precisions[i] + recalls[i])
		}
		names[i] = fmt.Sprintf("%d", class)
	}

	barWidth := vg.Points(12)
	precBars, err := plotter.NewBarChart(precisions, barWidth)
	if err != nil {
		return errors.Wrap(err, "build precision bars")
	}
	recBars, err := plotter.NewBarChart(recalls, barWidth)
	if err != nil {
		return errors.Wrap(err, "build recall bars")
	}
	f1Bars, err := plotter.NewBarChart(f1s, barWidth)
	if err != nil {
		return errors.Wrap(err, "build f1 bars")
	}

	precBars.Color = trainColor
	recBars.Color = holdoutColor
	f1Bars.Color = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	precBars.Offset = -barWidth
	f1Bars.Offset = barWidth

	p := newPlot("Classification Report", "Class", "Score")
	p.Y.Min, p.Y.Max = 0, 1.05
	p.Add(precBars, recBars, f1Bars)
	p.Legend.Add("Precision", precBars)
	p.Legend.Add("Recall", recBars)
	p.Legend.Add("F1", f1Bars)
	p.NominalX(names...)
	return save(p, path)
}

// ClassPredictionError renders, per actual class, how many samples were
// predicted correctly and how many were not.
func ClassPredictionError(yTrue, yPred []float64, path string) error {
	if err := validatePair("ClassPredictionError", yTrue, yPred); err != nil {
		return err
	}

	classes := sortedClasses(yTrue, yPred)
	correct := make(plotter.Values, len(classes))
	wrong := make(plotter.Values, len(classes))
	names := make([]string, len(classes))

	for i, class := range classes {
		for j := range yTrue {
			if int(yTrue[j]) != class {
				continue
			}
			if int(yPred[j]) == class {
				correct[i]++
			} else {
				wrong[i]++
			}
		}
		names[i] = fmt.Sprintf("%d", class)
	}

	barWidth := vg.Points(16)
	correctBars, err := plotter.NewBarChart(correct, barWidth)
	if err != nil {
		return errors.Wrap(err, "build bars")
	}
	wrongBars, err := plotter.NewBarChart(wrong, barWidth)
	if err != nil {
		return errors.Wrap(err, "build bars")
	}
	correctBars.Color = trainColor
	wrongBars.Color = holdoutColor
	wrongBars.StackOn(correctBars)

	p := newPlot("Class Prediction Error", "Actual Class", "Samples")
	p.Add(correctBars, wrongBars)
	p.Legend.Add("Correct", correctBars)
	p.Legend.Add("Misclassified", wrongBars)
	p.NominalX(names...)
	return save(p, path)
}

// rocPoints builds the ROC curve points from labels and scores.
func rocPoints(yTrue, yScore []float64) (fpr, tpr []float64) {
	order := rankedByScore(yScore)

	positives, negatives := 0, 0
	for _, v := range yTrue {
		if v == 1 {
			positives++
		} else {
			negatives++
		}
	}

	fpr = append(fpr, 0)
	tpr = append(tpr, 0)
	tp, fp := 0, 0
	for _, idx := range order {
		if yTrue[idx] == 1 {
			tp++
		} else {
			fp++
		}
		if positives > 0 && negatives > 0 {
			fpr = append(fpr, float64(fp)/float64(negatives))
			tpr = append(tpr, float64(tp)/float64(positives))
		}
	}
	return fpr, tpr
}

// trapezoid integrates y over x with the trapezoid rule.
func trapezoid(x, y []float64) float64 {
	var area float64
	for i := 1; i < len(x); i++ {
		area += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return math.Abs(area)
}

// cumulativeGain computes the population fraction and captured-positive
// fraction at every rank, best scores first.
func cumulativeGain(yTrue, yScore []float64) (population, gain []float64, err error) {
	order := rankedByScore(yScore)

	positives := 0
	for _, v := range yTrue {
		if v == 1 {
			positives++
		}
	}
	if positives == 0 {
		return nil, nil, errors.NewValueError("cumulativeGain", "no positive samples")
	}

	n := len(order)
	tp := 0
	for rank, idx := range order {
		if yTrue[idx] == 1 {
			tp++
		}
		population = append(population, float64(rank+1)/float64(n))
		gain = append(gain, float64(tp)/float64(positives))
	}
	return population, gain, nil
}

// sortedClasses returns the sorted union of integer classes in both slices.
func sortedClasses(yTrue, yPred []float64) []int {
	seen := map[int]struct{}{}
	for i := range yTrue {
		seen[int(yTrue[i])] = struct{}{}
		seen[int(yPred[i])] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}

// matrixGrid adapts a confusion matrix to the plotter.GridXYZ interface.
type matrixGrid struct {
	classes []int
	cells   [][]float64
}

func (g *matrixGrid) Dims() (int, int) { return len(g.classes), len(g.classes) }
func (g *matrixGrid) X(c int) float64  { return float64(g.classes[c]) }
func (g *matrixGrid) Y(r int) float64  { return float64(g.classes[r]) }
func (g *matrixGrid) Z(c, r int) float64 {
	return g.cells[r][c]
}
