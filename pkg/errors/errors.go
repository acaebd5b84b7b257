// Package errors provides the error and warning system shared by every
// gradkit trainer. Configuration and shape problems are reported as typed
// errors with stack traces attached via cockroachdb/errors; non-fatal
// numerical conditions (ill-conditioned solves, diverging iterates) are
// dispatched as warnings through a global handler so training never aborts
// mid-iteration.
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
		log.Printf("gradkit-Warning: %v\n", w)
	}
	// zerolog emitter, injected by pkg/log to avoid an import cycle.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the library-wide warning handler. Tests use this
// to capture or silence warnings.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs the zerolog-backed warning emitter.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn dispatches a warning. When the zerolog emitter is installed it takes
// precedence; otherwise the plain handler runs.
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

// ConfigurationError reports an invalid hyperparameter or an invalid
// combination of hyperparameters. It is raised eagerly, before any numeric
// work starts, so a failed run never leaves partial results behind.
type ConfigurationError struct {
	Op     string
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gradkit: %s: invalid configuration for '%s': %s (got: %v)", e.Op, e.Param, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(op, param, reason string, value interface{}) error {
	err := &ConfigurationError{Op: op, Param: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// DimensionError reports a shape mismatch between arrays, either between
// inputs and targets at fit time or between new inputs and a trained model's
// expected feature count at predict time.
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
	return fmt.Sprintf("gradkit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
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

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// NotFittedError is returned when Predict or Score is called on a model that
// has not been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("gradkit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is unusable, such as an empty
// data matrix.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("gradkit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Numerical warnings (non-fatal)
//
// ===========================================================================

// IllConditionedWarning reports a least-squares solve on a rank-deficient or
// near-singular design matrix. The solution is still returned to the caller;
// the warning only flags that it may be inaccurate.
type IllConditionedWarning struct {
	Op        string
	Condition float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("%s: design matrix is ill-conditioned (condition number %.6g); the least-squares solution may be inaccurate", w.Op, w.Condition)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition_number", w.Condition).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning creates a new IllConditionedWarning.
func NewIllConditionedWarning(op string, condition float64) *IllConditionedWarning {
	return &IllConditionedWarning{Op: op, Condition: condition}
}

// DivergenceWarning reports a NaN or Inf iterate observed during gradient
// descent. The update rule is never altered: choosing a stable learning rate
// remains the caller's responsibility.
type DivergenceWarning struct {
	Op        string
	Iteration int
	Value     float64
}

func (w *DivergenceWarning) Error() string {
	return fmt.Sprintf("%s: non-finite iterate %v at step %d; the learning rate is likely too large", w.Op, w.Value, w.Iteration)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *DivergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("iteration", w.Iteration).
		Float64("value", w.Value).
		Str("type", "DivergenceWarning")
}

// NewDivergenceWarning creates a new DivergenceWarning.
func NewDivergenceWarning(op string, iteration int, value float64) *DivergenceWarning {
	return &DivergenceWarning{Op: op, Iteration: iteration, Value: value}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
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
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty matrix is passed in.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a factorization fails outright.
	ErrSingularMatrix = New("singular matrix")
)
