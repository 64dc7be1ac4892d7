// Package errors provides the error handling and warning system used across
// the toolkit. It is inspired by scikit-learn's warning/exception hierarchy
// and carries structured error information suitable for machine processing.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("pycaret-Warning: %v\n", w)
	}
	// zerolog-backed warning sink (set lazily to avoid an import cycle).
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library.
// It controls how non-fatal conditions such as a failed holdout
// prediction during model selection are reported.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog warning sink (avoids an import cycle).
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. When a zerolog sink is installed it is preferred,
// otherwise the plain handler is used.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Transform is called on a model
// that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("pycaret: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// MetricNotFoundError is returned when an optimization metric cannot be
// resolved by either its id or its display name.
type MetricNotFoundError struct {
	NameOrID string
}

func (e *MetricNotFoundError) Error() string {
	return fmt.Sprintf("pycaret: optimization metric %q is not supported. See Registry.Names() for available metrics", e.NameOrID)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *MetricNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("name_or_id", e.NameOrID).
		Str("type", "MetricNotFoundError")
}

// NewMetricNotFoundError creates a MetricNotFoundError with a stack trace attached.
func NewMetricNotFoundError(nameOrID string) error {
	err := &MetricNotFoundError{NameOrID: nameOrID}
	return errors.WithStack(err)
}

// MetricMulticlassError is returned when the requested metric is not defined
// for targets with more than two classes.
type MetricMulticlassError struct {
	Metric string
}

func (e *MetricMulticlassError) Error() string {
	return fmt.Sprintf("pycaret: metric %q is not supported for multiclass problems", e.Metric)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *MetricMulticlassError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Str("type", "MetricMulticlassError")
}

// NewMetricMulticlassError creates a MetricMulticlassError with a stack trace attached.
func NewMetricMulticlassError(metric string) error {
	err := &MetricMulticlassError{Metric: metric}
	return errors.WithStack(err)
}

// NoEligibleModelsError is returned when a model selection scan finds no
// entry that can be compared under the requested settings.
type NoEligibleModelsError struct {
	Metric  string
	Scanned int
}

func (e *NoEligibleModelsError) Error() string {
	return fmt.Sprintf("pycaret: no eligible models to compare on %q (%d container entries scanned)", e.Metric, e.Scanned)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NoEligibleModelsError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Int("scanned", e.Scanned).
		Str("type", "NoEligibleModelsError")
}

// NewNoEligibleModelsError creates a NoEligibleModelsError with a stack trace attached.
func NewNoEligibleModelsError(metric string, scanned int) error {
	err := &NoEligibleModelsError{Metric: metric, Scanned: scanned}
	return errors.WithStack(err)
}

// FoldSpecError is returned when a fold argument is neither nil, an integer
// fold count, nor a cross-validation splitter.
type FoldSpecError struct {
	Got interface{}
}

func (e *FoldSpecError) Error() string {
	return fmt.Sprintf("pycaret: fold parameter must be nil, an integer or a cross-validation splitter, got %T", e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *FoldSpecError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("got", fmt.Sprintf("%T", e.Got)).
		Str("type", "FoldSpecError")
}

// NewFoldSpecError creates a FoldSpecError with a stack trace attached.
func NewFoldSpecError(got interface{}) error {
	err := &FoldSpecError{Got: got}
	return errors.WithStack(err)
}

// PlotNotAvailableError is returned when a plot kind is unknown or is not
// legal for the given estimator, use case or target cardinality.
type PlotNotAvailableError struct {
	Plot   string
	Reason string
}

func (e *PlotNotAvailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("pycaret: plot %q not available: %s", e.Plot, e.Reason)
	}
	return fmt.Sprintf("pycaret: plot %q not available", e.Plot)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *PlotNotAvailableError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("plot", e.Plot).
		Str("reason", e.Reason).
		Str("type", "PlotNotAvailableError")
}

// NewPlotNotAvailableError creates a PlotNotAvailableError with a stack trace attached.
func NewPlotNotAvailableError(plot, reason string) error {
	err := &PlotNotAvailableError{Plot: plot, Reason: reason}
	return errors.WithStack(err)
}

// DimensionError is returned when input data does not have the expected shape.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("pycaret: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when an input parameter fails validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pycaret: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is invalid or out of range.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("pycaret: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised by a machine learning model.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pycaret: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("pycaret: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// PersistenceError is returned when a model bundle cannot be saved, loaded
// or deployed.
type PersistenceError struct {
	Op       string
	Name     string
	Platform string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("pycaret: %s: model %q on platform %q: %v", e.Op, e.Name, e.Platform, e.Err)
	}
	return fmt.Sprintf("pycaret: %s: model %q: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *PersistenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("model_name", e.Name).
		Str("platform", e.Platform).
		Str("type", "PersistenceError")
}

// NewPersistenceError creates a PersistenceError with a stack trace attached.
func NewPersistenceError(op, name, platform string, err error) error {
	persistErr := &PersistenceError{Op: op, Name: name, Platform: platform, Err: err}
	return errors.WithStack(persistErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrNotImplemented is returned for features that are not implemented.
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData is returned when empty data is passed.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a matrix cannot be inverted.
	ErrSingularMatrix = New("singular matrix")
)
