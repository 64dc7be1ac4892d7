package crossval

import (
	"github.com/apurvsibal/pycaret/pkg/errors"
)

// Kind selects the splitter constructed from a plain integer fold count.
type Kind string

const (
	// KindKFold builds an unstratified KFold.
	KindKFold Kind = "kfold"

	// KindStratified builds a StratifiedKFold, the default for
	// classification use cases.
	KindStratified Kind = "stratifiedkfold"
)

// Resolve turns a fold specification into a concrete splitter.
//
//   - nil: the session default splitter is returned.
//   - int: a fresh splitter of the given kind with that many folds,
//     seeded with seed and shuffle.
//   - Splitter: returned unchanged.
//
// Any other type fails with FoldSpecError.
func Resolve(foldSpec interface{}, defaultSplitter Splitter, seed int, shuffle bool, kind Kind) (Splitter, error) {
	switch spec := foldSpec.(type) {
	case nil:
		return defaultSplitter, nil
	case int:
		if kind == KindStratified {
			return NewStratifiedKFold(spec, shuffle, seed), nil
		}
		return NewKFold(spec, shuffle, seed), nil
	case Splitter:
		return spec, nil
	default:
		return nil, errors.NewFoldSpecError(foldSpec)
	}
}
