// Package crossval provides cross-validation splitters and the fold
// specification resolver used by the experiment layer.
//
// Splitters are always handled as pointers: the experiment layer compares a
// container entry's splitter against the session default by identity, not by
// value, to decide whether its scores were produced under default fold
// settings.
package crossval

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Splitter defines the interface for cross-validation splitters.
type Splitter interface {
	// Split generates the train/test index pairs for each fold.
	Split(X, y mat.Matrix) []Fold

	// NSplits returns the number of folds.
	NSplits() int
}

// Fold is a single train/test partition.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements plain k-fold cross-validation.
type KFold struct {
	Folds      int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a k-fold splitter. Fold counts below 2 fall back to 5.
func NewKFold(folds int, shuffle bool, randomSeed int) *KFold {
	if folds < 2 {
		folds = 5
	}
	return &KFold{
		Folds:      folds,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.Folds
}

// Split generates train/test indices for each fold.
func (kf *KFold) Split(X, _ mat.Matrix) []Fold {
	nSamples, _ := X.Dims()

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.Folds)
	foldSize := nSamples / kf.Folds
	remainder := nSamples % kf.Folds

	currentIdx := 0
	for i := 0; i < kf.Folds; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		testSet := make(map[int]bool, testSize)
		for _, idx := range testIndices {
			testSet[idx] = true
		}

		trainIndices := make([]int, 0, nSamples-testSize)
		for j := 0; j < nSamples; j++ {
			if !testSet[indices[j]] {
				trainIndices = append(trainIndices, indices[j])
			}
		}

		folds[i] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return folds
}

// StratifiedKFold implements stratified k-fold cross-validation: each fold
// preserves the class distribution of y.
type StratifiedKFold struct {
	Folds      int
	Shuffle    bool
	RandomSeed int
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(folds int, shuffle bool, randomSeed int) *StratifiedKFold {
	if folds < 2 {
		folds = 5
	}
	return &StratifiedKFold{
		Folds:      folds,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int {
	return skf.Folds
}

// Split generates stratified train/test indices for each fold.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) []Fold {
	nSamples, _ := X.Dims()

	// Group indices by class.
	classIndices := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		classIndices[label] = append(classIndices[label], i)
	}

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.RandomSeed), uint64(skf.RandomSeed)))
		for label := range classIndices {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.Folds)

	// Distribute each class across folds.
	for _, indices := range classIndices {
		nClass := len(indices)
		foldSize := nClass / skf.Folds
		remainder := nClass % skf.Folds

		currentIdx := 0
		for i := 0; i < skf.Folds; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}

			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// Build train sets (all samples not in the fold's test set).
	for i := 0; i < skf.Folds; i++ {
		testSet := make(map[int]bool)
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}

		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds
}
