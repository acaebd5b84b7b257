// Package neural implements a two-layer feed-forward network (sigmoid hidden
// layer, linear output) trained by mini-batch gradient descent.
package neural

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

// MLPRegressor is a two-layer perceptron for regression.
//
// Both layers use the bias trick: a constant row of ones is prepended to the
// input and to the hidden activations, so the biases live in the first
// column of each weight matrix. W1 is (hidden x features+1), W2 is
// (outputs x hidden+1).
type MLPRegressor struct {
	model.BaseEstimator

	// Hyperparameters
	hidden      int     // hidden units
	outputs     int     // output units
	eta         float64 // learning rate, fixed over the whole run
	epochs      int     // number of passes over the training set
	minibatches int     // number of mini-batches per epoch
	randomState int64   // RNG seed; < 0 means time-seeded

	// Learned parameters
	w1 *mat.Dense // hidden x (features+1)
	w2 *mat.Dense // outputs x (hidden+1)

	// Diagnostics
	lossHistory_ []float64 // one entry per (epoch, minibatch), execution order

	// Internal state
	rng        *rand.Rand
	nFeatures_ int
}

// NewMLPRegressor creates a two-layer perceptron regressor.
func NewMLPRegressor(options ...MLPOption) *MLPRegressor {
	mlp := &MLPRegressor{
		hidden:      10,
		outputs:     1,
		eta:         0.01,
		epochs:      100,
		minibatches: 1,
		randomState: -1,
	}

	for _, opt := range options {
		opt(mlp)
	}

	if mlp.randomState >= 0 {
		mlp.rng = rand.New(rand.NewSource(mlp.randomState))
	} else {
		mlp.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return mlp
}

// forwardPass holds every intermediate the backward pass needs. Z1 is kept
// so the sigmoid derivative is evaluated from the cached pre-activations
// rather than recomputed from the post-activations.
type forwardPass struct {
	a0   *mat.Dense // (features+1) x batch, first row all ones
	z1   *mat.Dense // hidden x batch, pre-activations
	a1   *mat.Dense // (hidden+1) x batch, first row all ones
	yHat *mat.Dense // outputs x batch
}

// Fit trains the network on X (n x d) and y (n x outputs).
//
// Weights are re-initialized uniformly in [-1, 1] at the start of every
// call. Each epoch the training set is reshuffled with a fresh permutation
// and split into the configured number of contiguous mini-batches (sizes as
// equal as the split allows); every mini-batch runs one forward pass, one
// cost recording, one backward pass, and one fixed-rate parameter update.
func (mlp *MLPRegressor) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewValueError("MLPRegressor.Fit", "empty data")
	}
	if yRows != rows {
		return errors.NewDimensionError("MLPRegressor.Fit", rows, yRows, 0)
	}
	if yCols != mlp.outputs {
		return errors.NewDimensionError("MLPRegressor.Fit", mlp.outputs, yCols, 1)
	}
	if mlp.hidden < 1 {
		return errors.NewConfigurationError("MLPRegressor.Fit", "n_hidden", "hidden unit count must be a positive integer", mlp.hidden)
	}
	if mlp.eta <= 0 {
		return errors.NewConfigurationError("MLPRegressor.Fit", "eta", "learning rate must be > 0", mlp.eta)
	}
	if mlp.epochs < 1 {
		return errors.NewConfigurationError("MLPRegressor.Fit", "epochs", "epoch count must be a positive integer", mlp.epochs)
	}
	if mlp.minibatches < 1 || mlp.minibatches > rows {
		return errors.NewConfigurationError("MLPRegressor.Fit", "minibatches",
			"mini-batch count must be in [1, n_samples] so no batch is empty", mlp.minibatches)
	}

	mlp.nFeatures_ = cols
	mlp.w1 = mlp.randomWeights(mlp.hidden, cols+1)
	mlp.w2 = mlp.randomWeights(mlp.outputs, mlp.hidden+1)
	mlp.lossHistory_ = make([]float64, 0, mlp.epochs*mlp.minibatches)

	for epoch := 0; epoch < mlp.epochs; epoch++ {
		perm := mlp.rng.Perm(rows)

		start := 0
		base := rows / mlp.minibatches
		extra := rows % mlp.minibatches
		for b := 0; b < mlp.minibatches; b++ {
			size := base
			if b < extra {
				size++
			}
			batch := perm[start : start+size]
			start += size

			a0 := mlp.augmentedBatch(X, batch)
			yBatch := targetBatch(y, batch, mlp.outputs)

			fp := mlp.forward(a0)
			mlp.lossHistory_ = append(mlp.lossHistory_, cost(yBatch, fp.yHat))

			gradW1, gradW2 := mlp.backward(fp, yBatch)

			scaleInPlace(mlp.w1, gradW1, -mlp.eta)
			scaleInPlace(mlp.w2, gradW2, -mlp.eta)
		}
	}

	if last := mlp.lossHistory_[len(mlp.lossHistory_)-1]; math.IsNaN(last) || math.IsInf(last, 0) {
		errors.Warn(errors.NewDivergenceWarning("MLPRegressor.Fit", len(mlp.lossHistory_), last))
	}

	mlp.SetFitted()
	return nil
}

// forward runs the forward pass on an already augmented input batch a0
// ((features+1) x batch) and caches every intermediate.
func (mlp *MLPRegressor) forward(a0 *mat.Dense) *forwardPass {
	_, batch := a0.Dims()

	z1 := mat.NewDense(mlp.hidden, batch, nil)
	z1.Mul(mlp.w1, a0)

	a1raw := mat.NewDense(mlp.hidden, batch, nil)
	a1raw.Apply(func(_, _ int, v float64) float64 { return sigmoid(v) }, z1)
	a1 := augmentRows(a1raw)

	yHat := mat.NewDense(mlp.outputs, batch, nil)
	yHat.Mul(mlp.w2, a1)

	return &forwardPass{a0: a0, z1: z1, a1: a1, yHat: yHat}
}

// backward computes the weight gradients by backpropagation. The sigmoid
// derivative is evaluated at the cached pre-activations Z1.
func (mlp *MLPRegressor) backward(fp *forwardPass, yTrue *mat.Dense) (gradW1, gradW2 *mat.Dense) {
	outputs, batch := fp.yHat.Dims()

	// delta2 = yHat - y
	delta2 := mat.NewDense(outputs, batch, nil)
	delta2.Sub(fp.yHat, yTrue)

	// gradW2 = delta2 * A1^T
	gradW2 = mat.NewDense(outputs, mlp.hidden+1, nil)
	gradW2.Mul(delta2, fp.a1.T())

	// delta1 = (W2^T * delta2) without the bias row, times sigmoid'(Z1).
	delta1full := mat.NewDense(mlp.hidden+1, batch, nil)
	delta1full.Mul(mlp.w2.T(), delta2)

	delta1 := mat.NewDense(mlp.hidden, batch, nil)
	for i := 0; i < mlp.hidden; i++ {
		for j := 0; j < batch; j++ {
			delta1.Set(i, j, delta1full.At(i+1, j)*sigmoidPrime(fp.z1.At(i, j)))
		}
	}

	// gradW1 = delta1 * A0^T
	rows, _ := fp.a0.Dims()
	gradW1 = mat.NewDense(mlp.hidden, rows, nil)
	gradW1.Mul(delta1, fp.a0.T())

	return gradW1, gradW2
}

// Predict returns predictions for X as an (n x outputs) matrix.
func (mlp *MLPRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !mlp.IsFitted() {
		return nil, errors.NewNotFittedError("MLPRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != mlp.nFeatures_ {
		return nil, errors.NewDimensionError("MLPRegressor.Predict", mlp.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, mlp.outputs, nil)

	// Forward passes on disjoint row ranges only read the weights and
	// write disjoint prediction rows.
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		batch := make([]int, end-start)
		for i := range batch {
			batch[i] = start + i
		}
		fp := mlp.forward(mlp.augmentedBatch(X, batch))
		for i := start; i < end; i++ {
			for o := 0; o < mlp.outputs; o++ {
				predictions.Set(i, o, fp.yHat.At(o, i-start))
			}
		}
	})

	return predictions, nil
}

// Score returns the coefficient of determination R^2 for single-output
// networks.
func (mlp *MLPRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !mlp.IsFitted() {
		return 0, errors.NewNotFittedError("MLPRegressor", "Score")
	}
	if mlp.outputs != 1 {
		return 0, errors.NewValueError("MLPRegressor.Score", "R^2 is only defined for single-output networks")
	}

	yPred, err := mlp.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// LossHistory returns the recorded costs, one per mini-batch, in execution
// order. Its length is always epochs * minibatches.
func (mlp *MLPRegressor) LossHistory() []float64 {
	history := make([]float64, len(mlp.lossHistory_))
	copy(history, mlp.lossHistory_)
	return history
}

// HiddenWeights returns a copy of W1 (hidden x features+1, bias first).
func (mlp *MLPRegressor) HiddenWeights() *mat.Dense {
	if mlp.w1 == nil {
		return nil
	}
	return mat.DenseCopyOf(mlp.w1)
}

// OutputWeights returns a copy of W2 (outputs x hidden+1, bias first).
func (mlp *MLPRegressor) OutputWeights() *mat.Dense {
	if mlp.w2 == nil {
		return nil
	}
	return mat.DenseCopyOf(mlp.w2)
}

// randomWeights draws an (r x c) matrix uniformly from [-1, 1].
func (mlp *MLPRegressor) randomWeights(r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = mlp.rng.Float64()*2 - 1
	}
	return mat.NewDense(r, c, data)
}

// augmentedBatch gathers the given sample rows of X into columns and
// prepends the constant ones row, yielding a (features+1) x batch matrix.
func (mlp *MLPRegressor) augmentedBatch(X mat.Matrix, batch []int) *mat.Dense {
	_, cols := X.Dims()
	a0 := mat.NewDense(cols+1, len(batch), nil)
	for j, idx := range batch {
		a0.Set(0, j, 1)
		for f := 0; f < cols; f++ {
			a0.Set(f+1, j, X.At(idx, f))
		}
	}
	return a0
}

// targetBatch gathers the given target rows into an (outputs x batch) matrix.
func targetBatch(y mat.Matrix, batch []int, outputs int) *mat.Dense {
	yb := mat.NewDense(outputs, len(batch), nil)
	for j, idx := range batch {
		for o := 0; o < outputs; o++ {
			yb.Set(o, j, y.At(idx, o))
		}
	}
	return yb
}

// augmentRows prepends a row of ones to m.
func augmentRows(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r+1, c, nil)
	for j := 0; j < c; j++ {
		out.Set(0, j, 1)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i+1, j, m.At(i, j))
		}
	}
	return out
}

// cost is the mean-squared-error J = sum((y - yHat)^2) / (2B), summed over
// output units and batch elements.
func cost(yTrue, yHat *mat.Dense) float64 {
	rows, cols := yTrue.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			diff := yTrue.At(i, j) - yHat.At(i, j)
			sum += diff * diff
		}
	}
	return sum / (2 * float64(cols))
}

// scaleInPlace adds alpha*grad to w.
func scaleInPlace(w, grad *mat.Dense, alpha float64) {
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			w.Set(i, j, w.At(i, j)+alpha*grad.At(i, j))
		}
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// sigmoidPrime is evaluated from the pre-activation value.
func sigmoidPrime(z float64) float64 {
	s := sigmoid(z)
	return s * (1 - s)
}
