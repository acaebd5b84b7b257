// Package model defines the estimator interfaces and the shared training
// state embedded by every gradkit trainer.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on the given inputs and targets.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict.
type Predictor interface {
	// Predict returns predictions for the given inputs.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces every supervised trainer in this
// repository satisfies.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// LossRecorder is implemented by trainers that keep an append-only log of
// per-step loss values for post-hoc inspection and plotting. The history is
// in execution order and plays no part in control flow.
type LossRecorder interface {
	// LossHistory returns the recorded loss values, one per logical step
	// (per epoch for the linear trainer, per mini-batch for the MLP).
	LossHistory() []float64
}
