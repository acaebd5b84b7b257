// Package optimize implements gradient descent on scalar functions of one
// variable. It is the smallest trainer in the repository: no model, no data,
// just the raw update rule x <- x - eta*f'(x) applied for a fixed number of
// steps.
package optimize

import (
	"math"

	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// Trace records the full trajectory of a minimization run. It is a
// diagnostic: the run never reads its own history.
type Trace struct {
	// X holds the iterates x_0 .. x_T, so len(X) == steps+1.
	X []float64
	// FX holds f evaluated at every iterate, aligned with X.
	FX []float64
}

// Final returns the last iterate.
func (t *Trace) Final() float64 {
	return t.X[len(t.X)-1]
}

// FinalValue returns f at the last iterate.
func (t *Trace) FinalValue() float64 {
	return t.FX[len(t.FX)-1]
}

type options struct {
	divergenceCheck bool
}

// Option configures a minimization run.
type Option func(*options)

// WithDivergenceCheck emits a DivergenceWarning through the pkg/errors
// warning handler the first time an iterate goes NaN or Inf. The update rule
// itself is never altered.
func WithDivergenceCheck() Option {
	return func(o *options) {
		o.divergenceCheck = true
	}
}

// Minimize runs exactly steps gradient-descent updates of f starting at x0,
// using the derivative df and the fixed learning rate eta:
//
//	x_{k+1} = x_k - eta * df(x_k)
//
// It returns the trace of all steps+1 iterates and their function values.
// There is no convergence check and no error return: the routine is a
// deterministic pass, and a learning rate large enough to diverge is the
// caller's responsibility. NaN and Inf propagate through the trace
// unchanged.
func Minimize(f, df Func, x0, eta float64, steps int, opts ...Option) *Trace {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	trace := &Trace{
		X:  make([]float64, 0, steps+1),
		FX: make([]float64, 0, steps+1),
	}

	x := x0
	trace.X = append(trace.X, x)
	trace.FX = append(trace.FX, f(x))

	warned := false
	for k := 0; k < steps; k++ {
		x -= eta * df(x)
		trace.X = append(trace.X, x)
		trace.FX = append(trace.FX, f(x))

		if o.divergenceCheck && !warned && (math.IsNaN(x) || math.IsInf(x, 0)) {
			errors.Warn(errors.NewDivergenceWarning("optimize.Minimize", k+1, x))
			warned = true
		}
	}

	return trace
}
