package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradkit/metrics"
	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

func TestGDRegressorGoldenTrace(t *testing.T) {
	// One feature, two examples, one epoch, eta=0.1, starting from w=0, b=0:
	//   example 1: yhat=0,   r=-1,   w=0.1,  b=0.1
	//   example 2: yhat=0.3, r=-1.7, w=0.44, b=0.27
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{1, 2})

	gd := NewGDRegressor(WithEta(0.1), WithEpochs(1))
	if err := gd.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	const tol = 1e-12
	if w := gd.Weights()[0]; math.Abs(w-0.44) > tol {
		t.Errorf("w = %v, want 0.44", w)
	}
	if b := gd.Intercept(); math.Abs(b-0.27) > tol {
		t.Errorf("b = %v, want 0.27", b)
	}

	// Average epoch loss: (0.5*1 + 0.5*1.7^2) / 2 = 0.9725
	history := gd.LossHistory()
	if len(history) != 1 {
		t.Fatalf("len(LossHistory()) = %d, want 1", len(history))
	}
	if math.Abs(history[0]-0.9725) > tol {
		t.Errorf("epoch loss = %v, want 0.9725", history[0])
	}
}

func TestGDRegressorConvergesOnNoiselessData(t *testing.T) {
	// y = 2x + 1 exactly; with a stable eta the average epoch loss must
	// drop from the first epoch to the last.
	n := 50
	xData := make([]float64, n)
	yData := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		xData[i] = x
		yData[i] = 2*x + 1
	}
	X := mat.NewDense(n, 1, xData)
	y := mat.NewDense(n, 1, yData)

	gd := NewGDRegressor(WithEta(0.05), WithEpochs(200))
	if err := gd.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	history := gd.LossHistory()
	if len(history) != 200 {
		t.Fatalf("len(LossHistory()) = %d, want 200", len(history))
	}
	if history[len(history)-1] >= history[0] {
		t.Errorf("loss did not decrease: first %v, last %v", history[0], history[len(history)-1])
	}

	if math.Abs(gd.Weights()[0]-2) > 0.1 {
		t.Errorf("w = %v, want ~2", gd.Weights()[0])
	}
	if math.Abs(gd.Intercept()-1) > 0.1 {
		t.Errorf("b = %v, want ~1", gd.Intercept())
	}
}

func TestGDRegressorValidation(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	tests := []struct {
		name    string
		gd      *GDRegressor
		X, y    mat.Matrix
		errType interface{}
	}{
		{
			name:    "row mismatch",
			gd:      NewGDRegressor(),
			X:       X,
			y:       mat.NewDense(2, 1, []float64{1, 2}),
			errType: &errors.DimensionError{},
		},
		{
			name:    "non-positive eta",
			gd:      NewGDRegressor(WithEta(0)),
			X:       X,
			y:       y,
			errType: &errors.ConfigurationError{},
		},
		{
			name:    "non-positive epochs",
			gd:      NewGDRegressor(WithEpochs(0)),
			X:       X,
			y:       y,
			errType: &errors.ConfigurationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gd.Fit(tt.X, tt.y)
			if err == nil {
				t.Fatal("Fit() succeeded, want error")
			}
			switch want := tt.errType.(type) {
			case *errors.DimensionError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want DimensionError", err)
				}
			case *errors.ConfigurationError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want ConfigurationError", err)
				}
			}
			// Eager rejection: no partial results.
			if tt.gd.IsFitted() {
				t.Error("model marked fitted after a failed Fit")
			}
		})
	}
}

func TestGDRegressorPredictShapeCheck(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	gd := NewGDRegressor(WithEta(0.01), WithEpochs(5))
	if err := gd.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := gd.Predict(mat.NewDense(2, 3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Predict with wrong feature count: got %v, want DimensionError", err)
	}

	fresh := NewGDRegressor()
	_, err = fresh.Predict(X)
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Predict before Fit: got %v, want NotFittedError", err)
	}
}

func TestGDRegressorScoreMatchesR2Metric(t *testing.T) {
	n := 40
	xData := make([]float64, n)
	yData := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		xData[i] = x
		yData[i] = 2*x + 1
	}
	X := mat.NewDense(n, 1, xData)
	y := mat.NewDense(n, 1, yData)

	gd := NewGDRegressor(WithEta(0.05), WithEpochs(100))
	if err := gd.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	score, err := gd.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	yPred, err := gd.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want, err := metrics.R2ScoreMatrix(y, yPred)
	if err != nil {
		t.Fatalf("R2ScoreMatrix() error = %v", err)
	}

	if score != want {
		t.Errorf("Score() = %v, R2ScoreMatrix = %v; want identical values", score, want)
	}
}

func TestGDRegressorOrderDependence(t *testing.T) {
	// Per-example updates are order dependent: reversing the examples must
	// change the fitted parameters. This pins down the sequential-fold
	// semantics; a parallelized inner loop would break it.
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{1, 2})
	Xrev := mat.NewDense(2, 1, []float64{2, 1})
	yrev := mat.NewDense(2, 1, []float64{2, 1})

	a := NewGDRegressor(WithEta(0.1), WithEpochs(1))
	b := NewGDRegressor(WithEta(0.1), WithEpochs(1))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(Xrev, yrev); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if a.Weights()[0] == b.Weights()[0] && a.Intercept() == b.Intercept() {
		t.Error("reversed example order produced identical parameters; updates are not sequential")
	}
}

func TestGDRegressorShuffleReproducibleWithSeed(t *testing.T) {
	n := 20
	xData := make([]float64, n)
	yData := make([]float64, n)
	for i := 0; i < n; i++ {
		xData[i] = float64(i)
		yData[i] = 3*float64(i) - 2
	}
	X := mat.NewDense(n, 1, xData)
	y := mat.NewDense(n, 1, yData)

	a := NewGDRegressor(WithEta(0.001), WithEpochs(10), WithShuffle(true), WithRandomState(7))
	b := NewGDRegressor(WithEta(0.001), WithEpochs(10), WithShuffle(true), WithRandomState(7))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if a.Weights()[0] != b.Weights()[0] || a.Intercept() != b.Intercept() {
		t.Errorf("same seed produced different fits: (%v, %v) vs (%v, %v)",
			a.Weights()[0], a.Intercept(), b.Weights()[0], b.Intercept())
	}
}
