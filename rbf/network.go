// Package rbf implements a radial basis function network: Gaussian hidden
// units on fixed centers, with output weights obtained by a single linear
// least-squares solve. Nothing is trained iteratively; there is no learning
// rate and no epoch count.
package rbf

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradkit/core/model"
	"github.com/YuminosukeSato/gradkit/metrics"
	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// Network is a Gaussian RBF network for regression.
//
// Training has two independent phases. Phase one picks the hidden-unit
// centers according to the configured policy and freezes them. Phase two
// builds the hidden activation matrix, augments it with a ones column, and
// solves the least-squares problem for the output weights in closed form.
type Network struct {
	model.BaseEstimator

	// Hyperparameters
	hidden      int           // hidden units
	epsilon     float64       // RBF width parameter
	policy      CentersPolicy // center-selection policy
	randomState int64         // RNG seed; < 0 means time-seeded

	// Learned parameters. centers_ is immutable after Fit; only weights_
	// is the product of learning.
	centers_ [][]float64   // hidden x features
	weights_ *mat.VecDense // hidden+1, bias first

	// Diagnostics
	fitted_ *mat.VecDense // training-time fitted values, one per sample

	// Internal state
	rng        *rand.Rand
	nFeatures_ int
}

// NewNetwork creates an RBF network.
func NewNetwork(options ...NetworkOption) *Network {
	net := &Network{
		hidden:      10,
		epsilon:     1.0,
		policy:      RandomCenters{},
		randomState: -1,
	}

	for _, opt := range options {
		opt(net)
	}

	if net.randomState >= 0 {
		net.rng = rand.New(rand.NewSource(net.randomState))
	} else {
		net.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return net
}

// NetworkOption is a function that configures Network.
type NetworkOption func(*Network)

// WithHiddenUnits sets the number of Gaussian hidden units.
func WithHiddenUnits(n int) NetworkOption {
	return func(net *Network) {
		net.hidden = n
	}
}

// WithEpsilon sets the RBF width parameter. Activations are
// exp(-epsilon^2 * squared distance), so larger epsilon means narrower bumps.
func WithEpsilon(epsilon float64) NetworkOption {
	return func(net *Network) {
		net.epsilon = epsilon
	}
}

// WithCenters sets the center-selection policy.
func WithCenters(policy CentersPolicy) NetworkOption {
	return func(net *Network) {
		net.policy = policy
	}
}

// WithRandomState sets the RNG seed used by randomized center policies.
func WithRandomState(seed int64) NetworkOption {
	return func(net *Network) {
		net.randomState = seed
	}
}

// Fit selects the centers and solves for the output weights.
func (net *Network) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewValueError("RBFNetwork.Fit", "empty data")
	}
	if yRows != rows {
		return errors.NewDimensionError("RBFNetwork.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("RBFNetwork.Fit", "y must be a column vector")
	}
	if net.hidden < 1 {
		return errors.NewConfigurationError("RBFNetwork.Fit", "n_hidden", "hidden unit count must be a positive integer", net.hidden)
	}
	if net.epsilon <= 0 {
		return errors.NewConfigurationError("RBFNetwork.Fit", "epsilon", "RBF width must be > 0", net.epsilon)
	}
	if net.policy == nil {
		return errors.NewConfigurationError("RBFNetwork.Fit", "centres_generation_method", "no center policy configured", nil)
	}

	// Phase 1: center selection. Centers never change after this point.
	centers, err := net.policy.centers(X, net.hidden, net.rng)
	if err != nil {
		return err
	}

	// Phase 2: one closed-form least-squares solve for the output weights.
	design := designMatrix(X, centers, net.epsilon)
	weights, err := solveLeastSquares(design, y)
	if err != nil {
		return err
	}

	net.nFeatures_ = cols
	net.centers_ = centers
	net.weights_ = weights

	fitted := mat.NewVecDense(rows, nil)
	fitted.MulVec(design, weights)
	net.fitted_ = fitted

	net.SetFitted()
	return nil
}

// Predict recomputes the Gaussian activations of X against the stored
// centers, augments them, and multiplies by the output weights.
func (net *Network) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !net.IsFitted() {
		return nil, errors.NewNotFittedError("RBFNetwork", "Predict")
	}

	rows, cols := X.Dims()
	if cols != net.nFeatures_ {
		return nil, errors.NewDimensionError("RBFNetwork.Predict", net.nFeatures_, cols, 1)
	}

	design := designMatrix(X, net.centers_, net.epsilon)

	out := mat.NewVecDense(rows, nil)
	out.MulVec(design, net.weights_)

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		predictions.Set(i, 0, out.AtVec(i))
	}
	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given data.
func (net *Network) Score(X, y mat.Matrix) (float64, error) {
	if !net.IsFitted() {
		return 0, errors.NewNotFittedError("RBFNetwork", "Score")
	}

	yPred, err := net.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// Centers returns a copy of the fixed hidden-unit centers.
func (net *Network) Centers() [][]float64 {
	centers := make([][]float64, len(net.centers_))
	for i := range net.centers_ {
		centers[i] = make([]float64, len(net.centers_[i]))
		copy(centers[i], net.centers_[i])
	}
	return centers
}

// Weights returns a copy of the solved output weights (bias first).
func (net *Network) Weights() []float64 {
	if net.weights_ == nil {
		return nil
	}
	weights := make([]float64, net.weights_.Len())
	for i := range weights {
		weights[i] = net.weights_.AtVec(i)
	}
	return weights
}

// FittedValues returns the training-time fitted values, one per training
// sample, in training order.
func (net *Network) FittedValues() []float64 {
	if net.fitted_ == nil {
		return nil
	}
	fitted := make([]float64, net.fitted_.Len())
	for i := range fitted {
		fitted[i] = net.fitted_.AtVec(i)
	}
	return fitted
}

// designMatrix builds the augmented hidden activation matrix: row i holds a
// leading 1 followed by exp(-epsilon^2 * ||x_i - c_j||^2) for every center.
func designMatrix(X mat.Matrix, centers [][]float64, epsilon float64) *mat.Dense {
	rows, cols := X.Dims()
	hidden := len(centers)

	design := mat.NewDense(rows, hidden+1, nil)
	xi := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(xi, i, X)
		design.Set(i, 0, 1)
		for j, center := range centers {
			var distSq float64
			for f := 0; f < cols; f++ {
				diff := xi[f] - center[f]
				distSq += diff * diff
			}
			design.Set(i, j+1, math.Exp(-epsilon*epsilon*distSq))
		}
	}
	return design
}

// solveLeastSquares solves design * w ~= y by QR, falling back to an
// SVD-based pseudo-inverse when the design matrix is rank deficient.
// Normal equations are never formed.
func solveLeastSquares(design *mat.Dense, y mat.Matrix) (*mat.VecDense, error) {
	rows, cols := design.Dims()

	yDense := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		yDense.Set(i, 0, y.At(i, 0))
	}

	var qr mat.QR
	qr.Factorize(design)

	solution := mat.NewDense(cols, 1, nil)
	err := qr.SolveTo(solution, false, yDense)
	if err == nil {
		return denseColToVec(solution), nil
	}

	var cond mat.Condition
	if errors.As(err, &cond) {
		// QR produced a solution but flagged its condition number;
		// re-solve through the pseudo-inverse instead.
		errors.Warn(errors.NewIllConditionedWarning("RBFNetwork.Fit", float64(cond)))
	}

	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return nil, errors.NewValueError("RBFNetwork.Fit", "SVD factorization of the activation matrix failed")
	}

	rank := svd.Rank(1e-12)
	if rank == 0 {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "RBFNetwork.Fit")
	}
	svd.SolveTo(solution, yDense, rank)

	return denseColToVec(solution), nil
}

func denseColToVec(m *mat.Dense) *mat.VecDense {
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
