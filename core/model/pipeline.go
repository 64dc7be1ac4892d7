package model

import (
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

func init() {
	gob.Register(&Pipeline{})
}

// PipelineStep is a named transformer inside a Pipeline.
type PipelineStep struct {
	Name        string
	Transformer Transformer
}

// Pipeline chains preprocessing transformers in front of a final estimator.
// The final estimator may be nil; persistence uses such a headless pipeline
// to bundle the session transformations alongside a separately trained model.
type Pipeline struct {
	BaseEstimator

	Steps     []PipelineStep
	Estimator Estimator
}

// NewPipeline creates a pipeline from transformer steps and a final estimator.
func NewPipeline(steps []PipelineStep, est Estimator) *Pipeline {
	return &Pipeline{Steps: steps, Estimator: est}
}

// WithEstimator returns a copy of the pipeline with est appended as the
// trained final step. The receiver is not modified.
func (p *Pipeline) WithEstimator(est Estimator) *Pipeline {
	steps := make([]PipelineStep, len(p.Steps))
	copy(steps, p.Steps)
	out := &Pipeline{Steps: steps, Estimator: est}
	if est != nil && est.IsFitted() {
		out.SetFitted()
	}
	return out
}

// Fit fits each transformer in order, transforming the data as it goes, and
// finally fits the estimator on the transformed data.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	Xt := X
	for _, step := range p.Steps {
		if err := step.Transformer.Fit(Xt); err != nil {
			return errors.Wrapf(err, "pipeline step %q", step.Name)
		}
		var err error
		Xt, err = step.Transformer.Transform(Xt)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", step.Name)
		}
	}
	if p.Estimator != nil {
		if err := p.Estimator.Fit(Xt, y); err != nil {
			return err
		}
	}
	p.SetFitted()
	return nil
}

// Predict transforms X through every step and predicts with the estimator.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	if p.Estimator == nil {
		return nil, errors.NewValueError("Pipeline.Predict", "pipeline has no final estimator")
	}
	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.Estimator.Predict(Xt)
}

// Clone returns an unfitted copy. Transformer steps are reused as-is; the
// estimator is cloned.
func (p *Pipeline) Clone() Estimator {
	steps := make([]PipelineStep, len(p.Steps))
	copy(steps, p.Steps)
	out := &Pipeline{Steps: steps}
	if p.Estimator != nil {
		out.Estimator = p.Estimator.Clone()
	}
	return out
}

func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	for _, step := range p.Steps {
		var err error
		Xt, err = step.Transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", step.Name)
		}
	}
	return Xt, nil
}
