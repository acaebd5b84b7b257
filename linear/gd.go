// Package linear implements a linear model trained by per-example gradient
// descent on squared error.
package linear

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradkit/core/model"
	"github.com/YuminosukeSato/gradkit/core/parallel"
	"github.com/YuminosukeSato/gradkit/metrics"
	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// GDRegressor is a linear regression model fitted by gradient descent.
//
// Updates are applied per example, in the original dataset order, and each
// update is immediately visible to the examples that follow within the same
// epoch. The exact parameter trajectory therefore depends on example order;
// shuffling is off by default so the same inputs reproduce the same fit.
type GDRegressor struct {
	model.BaseEstimator

	// Hyperparameters
	eta         float64 // learning rate
	epochs      int     // number of full passes over the data
	shuffle     bool    // reshuffle example order each epoch
	randomState int64   // RNG seed; < 0 means time-seeded

	// Learned parameters
	coef_      []float64
	intercept_ float64

	// Diagnostics
	lossHistory_ []float64 // average 0.5*r^2 per epoch

	// Internal state
	rng        *rand.Rand
	nFeatures_ int
}

// NewGDRegressor creates a gradient-descent linear regressor.
func NewGDRegressor(options ...GDOption) *GDRegressor {
	gd := &GDRegressor{
		eta:         0.01,
		epochs:      100,
		shuffle:     false,
		randomState: -1,
	}

	for _, opt := range options {
		opt(gd)
	}

	if gd.randomState >= 0 {
		gd.rng = rand.New(rand.NewSource(gd.randomState))
	} else {
		gd.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return gd
}

// Fit trains the model on X (n x d) and the column vector y (n x 1).
//
// Weights and intercept start at zero. For every epoch the examples are
// visited in order; for example i the update is
//
//	r = x_i.w + b - y_i
//	w <- w - eta * r * x_i
//	b <- b - eta * r
//
// and the epoch's recorded loss is the average of 0.5*r^2 over the epoch,
// with each residual measured before its own update.
func (gd *GDRegressor) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewValueError("GDRegressor.Fit", "empty data")
	}
	if yRows != rows {
		return errors.NewDimensionError("GDRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("GDRegressor.Fit", "y must be a column vector")
	}
	if gd.eta <= 0 {
		return errors.NewConfigurationError("GDRegressor.Fit", "eta", "learning rate must be > 0", gd.eta)
	}
	if gd.epochs < 1 {
		return errors.NewConfigurationError("GDRegressor.Fit", "epochs", "epoch count must be a positive integer", gd.epochs)
	}

	gd.nFeatures_ = cols
	gd.coef_ = make([]float64, cols)
	gd.intercept_ = 0
	gd.lossHistory_ = make([]float64, 0, gd.epochs)

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	xi := make([]float64, cols)

	for epoch := 0; epoch < gd.epochs; epoch++ {
		if gd.shuffle {
			gd.rng.Shuffle(rows, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		epochLoss := 0.0
		for _, i := range order {
			mat.Row(xi, i, X)

			pred := gd.intercept_
			for j := 0; j < cols; j++ {
				pred += xi[j] * gd.coef_[j]
			}
			residual := pred - y.At(i, 0)
			epochLoss += 0.5 * residual * residual

			for j := 0; j < cols; j++ {
				gd.coef_[j] -= gd.eta * residual * xi[j]
			}
			gd.intercept_ -= gd.eta * residual
		}

		gd.lossHistory_ = append(gd.lossHistory_, epochLoss/float64(rows))
	}

	// Divergence is reported, never trapped.
	if last := gd.lossHistory_[len(gd.lossHistory_)-1]; math.IsNaN(last) || math.IsInf(last, 0) {
		errors.Warn(errors.NewDivergenceWarning("GDRegressor.Fit", gd.epochs, last))
	}

	gd.SetFitted()
	return nil
}

// Predict returns predictions for X as an (n x 1) matrix.
func (gd *GDRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gd.IsFitted() {
		return nil, errors.NewNotFittedError("GDRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != gd.nFeatures_ {
		return nil, errors.NewDimensionError("GDRegressor.Predict", gd.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := gd.intercept_
			for j := 0; j < cols; j++ {
				pred += X.At(i, j) * gd.coef_[j]
			}
			predictions.Set(i, 0, pred)
		}
	})

	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given data.
func (gd *GDRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !gd.IsFitted() {
		return 0, errors.NewNotFittedError("GDRegressor", "Score")
	}

	yPred, err := gd.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// Weights returns a copy of the learned coefficients.
func (gd *GDRegressor) Weights() []float64 {
	if gd.coef_ == nil {
		return nil
	}

	weights := make([]float64, len(gd.coef_))
	copy(weights, gd.coef_)
	return weights
}

// Intercept returns the learned intercept.
func (gd *GDRegressor) Intercept() float64 {
	return gd.intercept_
}

// LossHistory returns the average epoch losses in execution order, one entry
// per epoch.
func (gd *GDRegressor) LossHistory() []float64 {
	history := make([]float64, len(gd.lossHistory_))
	copy(history, gd.lossHistory_)
	return history
}
