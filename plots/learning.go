package plots

// LearningCurve renders training and validation scores against training set
// size.
func LearningCurve(sizes []int, trainScores, validationScores []float64, path string) error {
	x := make([]float64, len(sizes))
	for i, s := range sizes {
		x[i] = float64(s)
	}
	if err := validatePair("LearningCurve", x, trainScores); err != nil {
		return err
	}
	if err := validatePair("LearningCurve", x, validationScores); err != nil {
		return err
	}

	p := newPlot("Learning Curve", "Training Samples", "Score")
	if err := addLine(p, "Training", xys(x, trainScores), trainColor); err != nil {
		return err
	}
	if err := addLine(p, "Validation", xys(x, validationScores), holdoutColor); err != nil {
		return err
	}
	return save(p, path)
}
