package experiment

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/core/model"
	"github.com/apurvsibal/pycaret/pkg/errors"
	"github.com/apurvsibal/pycaret/pkg/log"
	"github.com/apurvsibal/pycaret/plots"
)

// PlotKind identifies an analysis plot.
type PlotKind string

const (
	PlotAUC             PlotKind = "auc"
	PlotThreshold       PlotKind = "threshold"
	PlotPR              PlotKind = "pr"
	PlotConfusionMatrix PlotKind = "confusion_matrix"
	PlotError           PlotKind = "error"
	PlotClassReport     PlotKind = "class_report"
	PlotLearning        PlotKind = "learning"
	PlotCalibration     PlotKind = "calibration"
	PlotManifold        PlotKind = "manifold"
	PlotRFE             PlotKind = "rfe"
	PlotFeature         PlotKind = "feature"
	PlotFeatureAll      PlotKind = "feature_all"
	PlotLift            PlotKind = "lift"
	PlotGain            PlotKind = "gain"
	PlotParameter       PlotKind = "parameter"
	PlotResiduals       PlotKind = "residuals"
	PlotCooks           PlotKind = "cooks"
)

type plotRenderer func(s *Session, est model.Estimator, path string) error

// plotSpec describes one plot kind: where it applies, what the estimator
// must be able to do, and how to render it. A nil render marks a plot that
// is recognized and gated but has no renderer in this build.
type plotSpec struct {
	displayName string
	fileExt     string

	classification bool
	regression     bool

	// multiclassOK is false for plots undefined when the target has more
	// than two classes.
	multiclassOK bool

	needsProba      bool
	needsImportance bool

	render plotRenderer
}

var plotSpecs = map[PlotKind]plotSpec{
	PlotAUC: {
		displayName: "ROC Curve", fileExt: "png",
		classification: true, multiclassOK: true, needsProba: true,
		render: renderAUC,
	},
	PlotThreshold: {
		displayName: "Discrimination Threshold", fileExt: "png",
		classification: true, needsProba: true,
		render: renderThreshold,
	},
	PlotPR: {
		displayName: "Precision-Recall Curve", fileExt: "png",
		classification: true, multiclassOK: true, needsProba: true,
		render: renderPR,
	},
	PlotConfusionMatrix: {
		displayName: "Confusion Matrix", fileExt: "png",
		classification: true, multiclassOK: true,
		render: renderConfusionMatrix,
	},
	PlotError: {
		displayName: "Prediction Error", fileExt: "png",
		classification: true, regression: true, multiclassOK: true,
		render: renderError,
	},
	PlotClassReport: {
		displayName: "Classification Report", fileExt: "png",
		classification: true, multiclassOK: true,
		render: renderClassReport,
	},
	PlotLearning: {
		displayName: "Learning Curve", fileExt: "png",
		classification: true, regression: true, multiclassOK: true,
		render: renderLearning,
	},
	PlotCalibration: {
		displayName: "Calibration Curve", fileExt: "png",
		classification: true, needsProba: true,
		render: renderCalibration,
	},
	PlotManifold: {
		displayName: "Manifold Learning", fileExt: "png",
		classification: true, regression: true,
	},
	PlotRFE: {
		displayName: "Recursive Feature Elimination", fileExt: "png",
		classification: true, regression: true, needsImportance: true,
	},
	PlotFeature: {
		displayName: "Feature Importance", fileExt: "png",
		classification: true, regression: true, multiclassOK: true, needsImportance: true,
		render: renderFeature(10),
	},
	PlotFeatureAll: {
		displayName: "Feature Importance (All)", fileExt: "png",
		classification: true, regression: true, multiclassOK: true, needsImportance: true,
		render: renderFeature(0),
	},
	PlotLift: {
		displayName: "Lift Curve", fileExt: "png",
		classification: true, multiclassOK: true, needsProba: true,
		render: renderLift,
	},
	PlotGain: {
		displayName: "Gain Curve", fileExt: "png",
		classification: true, multiclassOK: true, needsProba: true,
		render: renderGain,
	},
	PlotParameter: {
		displayName: "Hyperparameters", fileExt: "csv",
		classification: true, regression: true, multiclassOK: true,
		render: renderParameter,
	},
	PlotResiduals: {
		displayName: "Residuals", fileExt: "png",
		regression: true, multiclassOK: true,
		render: renderResiduals,
	},
	PlotCooks: {
		displayName: "Cooks Distance", fileExt: "png",
		regression: true, multiclassOK: true,
		render: renderCooks,
	},
}

// AvailablePlots returns the plot kinds legal for the session's use case and
// target cardinality, sorted by name. Estimator capabilities are not
// consulted; they are checked per call by PlotModel.
func (s *Session) AvailablePlots() []PlotKind {
	kinds := make([]PlotKind, 0, len(plotSpecs))
	for kind, spec := range plotSpecs {
		if err := s.checkPlot(kind, spec); err != nil {
			continue
		}
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(a, b int) bool { return kinds[a] < kinds[b] })
	return kinds
}

// PlotModel validates that the plot is legal for the session and estimator,
// renders it, and returns the saved file path. The validation gate rejects
// unknown plots, plots foreign to the use case, multiclass-incompatible
// plots, and plots requiring capabilities the estimator lacks, in that
// order, before any data is touched.
func (s *Session) PlotModel(est model.Estimator, kind PlotKind, dir string) (string, error) {
	spec, ok := plotSpecs[kind]
	if !ok {
		return "", errors.NewPlotNotAvailableError(string(kind), "unknown plot")
	}
	if err := s.checkPlot(kind, spec); err != nil {
		return "", err
	}

	caps := model.ResolveCapabilities(est)
	if spec.needsProba && !caps.Has(model.SupportsProbability) {
		return "", errors.NewPlotNotAvailableError(string(kind), "estimator does not provide probability estimates")
	}
	if spec.needsImportance && !caps.Has(model.SupportsCoefficients) && !caps.Has(model.SupportsFeatureImportance) {
		return "", errors.NewPlotNotAvailableError(string(kind), "estimator provides neither coefficients nor feature importances")
	}
	if spec.render == nil {
		return "", errors.NewPlotNotAvailableError(string(kind), "no renderer in this build")
	}
	if !est.IsFitted() {
		return "", errors.NewNotFittedError(modelName(est), "PlotModel")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create plot directory")
	}
	path := filepath.Join(dir, string(kind)+"."+spec.fileExt)
	if err := spec.render(s, est, path); err != nil {
		return "", err
	}

	s.logger.Info("plot saved",
		slog.String(log.OperationKey, "plot_model"),
		slog.String("plot", string(kind)),
		slog.String("path", path),
	)
	return path, nil
}

// checkPlot applies the session-level gates: use case, then target
// cardinality.
func (s *Session) checkPlot(kind PlotKind, spec plotSpec) error {
	switch s.cfg.UseCase {
	case Classification:
		if !spec.classification {
			return errors.NewPlotNotAvailableError(string(kind), "not a classification plot")
		}
	case Regression:
		if !spec.regression {
			return errors.NewPlotNotAvailableError(string(kind), "not a regression plot")
		}
	default:
		return errors.NewPlotNotAvailableError(string(kind), "plots require a supervised use case")
	}

	if s.cfg.Multiclass && !spec.multiclassOK {
		return errors.NewPlotNotAvailableError(string(kind), "not available for multiclass targets")
	}
	return nil
}

// holdoutVectors predicts on the holdout split and returns actuals and
// predictions as plain slices.
func (s *Session) holdoutVectors(est model.Estimator) (yTrue, yPred []float64, err error) {
	if s.data == nil || s.data.XTest == nil || s.data.YTest == nil {
		return nil, nil, errors.NewValueError("PlotModel", "session has no holdout data")
	}
	pred, err := est.Predict(s.data.XTest)
	if err != nil {
		return nil, nil, err
	}
	return columnVector(s.data.YTest).RawVector().Data, columnVector(pred).RawVector().Data, nil
}

// holdoutProbabilities returns actuals and positive-class probabilities on
// the holdout split.
func (s *Session) holdoutProbabilities(est model.Estimator) (yTrue, yScore []float64, err error) {
	if s.data == nil || s.data.XTest == nil || s.data.YTest == nil {
		return nil, nil, errors.NewValueError("PlotModel", "session has no holdout data")
	}
	prob, ok := est.(model.ProbabilityEstimator)
	if !ok {
		return nil, nil, errors.NewValueError("PlotModel", "estimator does not provide probability estimates")
	}
	probas, err := prob.PredictProba(s.data.XTest)
	if err != nil {
		return nil, nil, err
	}
	return columnVector(s.data.YTest).RawVector().Data, positiveClassColumn(probas).RawVector().Data, nil
}

func renderAUC(s *Session, est model.Estimator, path string) error {
	yTrue, yScore, err := s.holdoutProbabilities(est)
	if err != nil {
		return err
	}
	return plots.ROCCurve(yTrue, yScore, path)
}

func renderThreshold(s *Session, est model.Estimator, path string) error {
	yTrue, yScore, err := s.holdoutProbabilities(est)
	if err != nil {
		return err
	}
	return plots.ThresholdCurve(yTrue, yScore, path)
}

func renderPR(s *Session, est model.Estimator, path string) error {
	yTrue, yScore, err := s.holdoutProbabilities(est)
	if err != nil {
		return err
	}
	return plots.PrecisionRecallCurve(yTrue, yScore, path)
}

func renderCalibration(s *Session, est model.Estimator, path string) error {
	yTrue, yScore, err := s.holdoutProbabilities(est)
	if err != nil {
		return err
	}
	return plots.CalibrationCurve(yTrue, yScore, path)
}

func renderLift(s *Session, est model.Estimator, path string) error {
	yTrue, yScore, err := s.holdoutProbabilities(est)
	if err != nil {
		return err
	}
	return plots.LiftCurve(yTrue, yScore, path)
}

func renderGain(s *Session, est model.Estimator, path string) error {
	yTrue, yScore, err := s.holdoutProbabilities(est)
	if err != nil {
		return err
	}
	return plots.GainCurve(yTrue, yScore, path)
}

func renderConfusionMatrix(s *Session, est model.Estimator, path string) error {
	yTrue, yPred, err := s.holdoutVectors(est)
	if err != nil {
		return err
	}
	return plots.ConfusionMatrix(yTrue, yPred, path)
}

func renderClassReport(s *Session, est model.Estimator, path string) error {
	yTrue, yPred, err := s.holdoutVectors(est)
	if err != nil {
		return err
	}
	return plots.ClassificationReport(yTrue, yPred, path)
}

func renderError(s *Session, est model.Estimator, path string) error {
	yTrue, yPred, err := s.holdoutVectors(est)
	if err != nil {
		return err
	}
	if s.cfg.UseCase == Classification {
		return plots.ClassPredictionError(yTrue, yPred, path)
	}
	return plots.PredictionError(yTrue, yPred, path)
}

func renderResiduals(s *Session, est model.Estimator, path string) error {
	yTrue, yPred, err := s.holdoutVectors(est)
	if err != nil {
		return err
	}
	return plots.Residuals(yTrue, yPred, path)
}

func renderCooks(s *Session, est model.Estimator, path string) error {
	yTrue, yPred, err := s.holdoutVectors(est)
	if err != nil {
		return err
	}

	// Approximate influence from squared residuals scaled by the mean
	// squared error; a full hat-matrix computation needs the design matrix
	// factorization the estimator does not retain.
	var mse float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		mse += d * d
	}
	mse /= float64(len(yTrue))
	if mse == 0 {
		return errors.NewValueError("PlotModel", "zero residual variance")
	}

	distances := make([]float64, len(yTrue))
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		distances[i] = (d * d) / (mse * float64(len(yTrue)))
	}
	return plots.CooksDistance(distances, path)
}

// renderFeature builds a renderer that plots the strongest topN features,
// or all of them when topN is zero.
func renderFeature(topN int) plotRenderer {
	return func(s *Session, est model.Estimator, path string) error {
		values, err := importances(est)
		if err != nil {
			return err
		}
		names := s.featureNames(len(values))
		return plots.FeatureImportance(names, values, topN, path)
	}
}

func renderLearning(s *Session, est model.Estimator, path string) error {
	if s.data == nil || s.data.XTrain == nil {
		return errors.NewValueError("PlotModel", "session has no training data")
	}

	rows, _ := s.data.XTrain.Dims()
	fractions := []float64{0.2, 0.4, 0.6, 0.8, 1.0}
	metric := s.metricsReg.Descriptors()[0]

	var (
		sizes       []int
		trainScores []float64
		valScores   []float64
	)
	for _, f := range fractions {
		n := int(f * float64(rows))
		if n < 2 {
			continue
		}

		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		X, y := subset(s.data.XTrain, s.data.YTrain, indices)

		clone := est.Clone()
		if err := clone.Fit(X, y); err != nil {
			return errors.Wrapf(err, "learning curve fit at %d samples", n)
		}

		trainScore, err := scoreOn(clone, metric.Scorer, X, y)
		if err != nil {
			return err
		}
		valScore, err := scoreOn(clone, metric.Scorer, s.data.XTest, s.data.YTest)
		if err != nil {
			return err
		}

		sizes = append(sizes, n)
		trainScores = append(trainScores, trainScore)
		valScores = append(valScores, valScore)
	}

	return plots.LearningCurve(sizes, trainScores, valScores, path)
}

func renderParameter(_ *Session, est model.Estimator, path string) error {
	params := model.ExtractParams(est)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create parameter table")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Parameter", "Value"}); err != nil {
		return errors.Wrap(err, "write parameter table")
	}
	for _, k := range keys {
		if err := w.Write([]string{k, fmt.Sprintf("%v", params[k])}); err != nil {
			return errors.Wrap(err, "write parameter table")
		}
	}
	w.Flush()
	return errors.WithStack(w.Error())
}

// importances extracts coefficient magnitudes or native feature importances.
func importances(est model.Estimator) ([]float64, error) {
	if p, ok := est.(model.FeatureImportanceProvider); ok {
		return p.FeatureImportances(), nil
	}
	if p, ok := est.(model.CoefficientProvider); ok {
		return p.Coefficients(), nil
	}
	return nil, errors.NewValueError("PlotModel", "estimator provides neither coefficients nor feature importances")
}

// featureNames returns the dataset's feature labels, padded with positional
// names when missing.
func (s *Session) featureNames(n int) []string {
	names := make([]string, n)
	for i := 0; i < n; i++ {
		if s.data != nil && i < len(s.data.FeatureNames) {
			names[i] = s.data.FeatureNames[i]
		} else {
			names[i] = fmt.Sprintf("Feature %d", i)
		}
	}
	return names
}

// scoreOn predicts on X and applies the scorer against y.
func scoreOn(est model.Estimator, scorer func(yTrue, yPred *mat.VecDense) (float64, error), X, y *mat.Dense) (float64, error) {
	pred, err := est.Predict(X)
	if err != nil {
		return 0, err
	}
	return scorer(columnVector(y), columnVector(pred))
}
