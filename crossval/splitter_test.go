package crossval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

func TestKFoldSplit(t *testing.T) {
	X := mat.NewDense(10, 1, nil)

	kf := NewKFold(5, false, 0)
	folds := kf.Split(X, nil)
	require.Len(t, folds, 5)

	seen := map[int]int{}
	for _, fold := range folds {
		assert.Len(t, fold.TestIndices, 2)
		assert.Len(t, fold.TrainIndices, 8)
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
	}
	// Every sample appears in exactly one test fold.
	require.Len(t, seen, 10)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "sample %d", idx)
	}
}

func TestKFoldUnevenSplit(t *testing.T) {
	X := mat.NewDense(11, 1, nil)

	folds := NewKFold(3, false, 0).Split(X, nil)
	require.Len(t, folds, 3)
	assert.Len(t, folds[0].TestIndices, 4)
	assert.Len(t, folds[1].TestIndices, 4)
	assert.Len(t, folds[2].TestIndices, 3)
}

func TestKFoldShuffleIsDeterministic(t *testing.T) {
	X := mat.NewDense(20, 1, nil)

	a := NewKFold(4, true, 7).Split(X, nil)
	b := NewKFold(4, true, 7).Split(X, nil)
	assert.Equal(t, a, b, "same seed gives same folds")

	c := NewKFold(4, true, 8).Split(X, nil)
	assert.NotEqual(t, a, c, "different seed gives different folds")
}

func TestKFoldClampsLowFoldCounts(t *testing.T) {
	assert.Equal(t, 5, NewKFold(1, false, 0).NSplits())
	assert.Equal(t, 5, NewStratifiedKFold(0, false, 0).NSplits())
}

func TestStratifiedKFoldPreservesClassBalance(t *testing.T) {
	// 12 samples, 8 of class 0 and 4 of class 1.
	X := mat.NewDense(12, 1, nil)
	y := mat.NewDense(12, 1, []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1})

	folds := NewStratifiedKFold(4, false, 0).Split(X, y)
	require.Len(t, folds, 4)

	for i, fold := range folds {
		zeros, ones := 0, 0
		for _, idx := range fold.TestIndices {
			if y.At(idx, 0) == 0 {
				zeros++
			} else {
				ones++
			}
		}
		assert.Equal(t, 2, zeros, "fold %d", i)
		assert.Equal(t, 1, ones, "fold %d", i)
	}
}

func TestResolve(t *testing.T) {
	def := NewStratifiedKFold(10, false, 42)

	t.Run("nil returns the default", func(t *testing.T) {
		got, err := Resolve(nil, def, 42, false, KindStratified)
		require.NoError(t, err)
		assert.Same(t, def, got)
	})

	t.Run("int builds a fresh splitter of the kind", func(t *testing.T) {
		got, err := Resolve(3, def, 42, true, KindStratified)
		require.NoError(t, err)
		skf, ok := got.(*StratifiedKFold)
		require.True(t, ok)
		assert.Equal(t, 3, skf.Folds)
		assert.True(t, skf.Shuffle)
		assert.Equal(t, 42, skf.RandomSeed)

		got, err = Resolve(4, def, 42, false, KindKFold)
		require.NoError(t, err)
		_, ok = got.(*KFold)
		assert.True(t, ok)
	})

	t.Run("splitter passes through unchanged", func(t *testing.T) {
		custom := NewKFold(7, false, 1)
		got, err := Resolve(custom, def, 42, false, KindStratified)
		require.NoError(t, err)
		assert.Same(t, custom, got)
	})

	t.Run("anything else fails", func(t *testing.T) {
		_, err := Resolve("ten", def, 42, false, KindStratified)
		var foldErr *errors.FoldSpecError
		assert.True(t, errors.As(err, &foldErr))
	})
}
