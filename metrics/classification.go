package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// Accuracy computes the fraction of exactly matching labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AUC computes the area under the ROC curve for binary labels {0, 1} given
// scores for the positive class. Ties in scores are handled by assigning
// mid-ranks. Degenerate inputs with a single class present return 0.5.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}

	if yScore.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yScore.Len(), 0)
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}

	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.Newf("AUC is undefined with a single class present, returning 0.5"))
		return 0.5, nil
	}

	// Mid-rank assignment over sorted scores (Mann-Whitney U).
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yScore.AtVec(idx[a]) < yScore.AtVec(idx[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(idx[j+1]) == yScore.AtVec(idx[i]) {
			j++
		}
		midRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = midRank
		}
		i = j + 1
	}

	var rankSum float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSum += ranks[i]
		}
	}

	u := rankSum - float64(nPos)*(float64(nPos)+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// Precision computes macro-averaged precision over the classes present in
// yTrue. Classes never predicted contribute zero.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	return macroAverage("Precision", yTrue, yPred, func(tp, fp, _ int) float64 {
		if tp+fp == 0 {
			return 0
		}
		return float64(tp) / float64(tp+fp)
	})
}

// Recall computes macro-averaged recall over the classes present in yTrue.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	return macroAverage("Recall", yTrue, yPred, func(tp, _, fn int) float64 {
		if tp+fn == 0 {
			return 0
		}
		return float64(tp) / float64(tp+fn)
	})
}

// F1 computes the macro-averaged F1 score over the classes present in yTrue.
func F1(yTrue, yPred *mat.VecDense) (float64, error) {
	return macroAverage("F1", yTrue, yPred, func(tp, fp, fn int) float64 {
		denom := float64(2*tp + fp + fn)
		if denom == 0 {
			return 0
		}
		return 2 * float64(tp) / denom
	})
}

// CohenKappa computes Cohen's kappa from the confusion matrix.
func CohenKappa(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, classes, err := confusion("CohenKappa", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	n := float64(yTrue.Len())
	k := len(classes)

	var po float64
	rowSum := make([]float64, k)
	colSum := make([]float64, k)
	for i := 0; i < k; i++ {
		po += float64(cm[i][i])
		for j := 0; j < k; j++ {
			rowSum[i] += float64(cm[i][j])
			colSum[j] += float64(cm[i][j])
		}
	}
	po /= n

	var pe float64
	for i := 0; i < k; i++ {
		pe += rowSum[i] * colSum[i] / (n * n)
	}

	if pe == 1 {
		return 0, nil
	}
	return (po - pe) / (1 - pe), nil
}

// MCC computes the multiclass Matthews correlation coefficient from the
// confusion matrix.
func MCC(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, classes, err := confusion("MCC", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	k := len(classes)
	s := float64(yTrue.Len())

	var c float64
	t := make([]float64, k) // true occurrences per class
	p := make([]float64, k) // predicted occurrences per class
	for i := 0; i < k; i++ {
		c += float64(cm[i][i])
		for j := 0; j < k; j++ {
			t[i] += float64(cm[i][j])
			p[j] += float64(cm[i][j])
		}
	}

	var sumPT, sumP2, sumT2 float64
	for i := 0; i < k; i++ {
		sumPT += p[i] * t[i]
		sumP2 += p[i] * p[i]
		sumT2 += t[i] * t[i]
	}

	denom := math.Sqrt((s*s - sumP2) * (s*s - sumT2))
	if denom == 0 {
		return 0, nil
	}
	return (c*s - sumPT) / denom, nil
}

// macroAverage computes the unweighted mean of a per-class statistic derived
// from true positive, false positive and false negative counts.
func macroAverage(op string, yTrue, yPred *mat.VecDense, stat func(tp, fp, fn int) float64) (float64, error) {
	cm, classes, err := confusion(op, yTrue, yPred)
	if err != nil {
		return 0, err
	}

	k := len(classes)
	var sum float64
	for i := 0; i < k; i++ {
		tp := cm[i][i]
		fp, fn := 0, 0
		for j := 0; j < k; j++ {
			if j == i {
				continue
			}
			fp += cm[j][i]
			fn += cm[i][j]
		}
		sum += stat(tp, fp, fn)
	}

	return sum / float64(k), nil
}

// confusion builds a dense confusion matrix over the union of classes seen
// in yTrue and yPred, returning the matrix and the sorted class values.
func confusion(op string, yTrue, yPred *mat.VecDense) ([][]int, []float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}

	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	seen := map[float64]struct{}{}
	for i := 0; i < n; i++ {
		seen[yTrue.AtVec(i)] = struct{}{}
		seen[yPred.AtVec(i)] = struct{}{}
	}
	classes := make([]float64, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	cm := make([][]int, len(classes))
	for i := range cm {
		cm[i] = make([]int, len(classes))
	}
	for i := 0; i < n; i++ {
		cm[index[yTrue.AtVec(i)]][index[yPred.AtVec(i)]]++
	}

	return cm, classes, nil
}
