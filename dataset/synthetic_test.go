package dataset

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLinearShapesAndLaw(t *testing.T) {
	X, y := Linear(100, []float64{2, -1}, 0.5, 0, 42)

	rows, cols := X.Dims()
	if rows != 100 || cols != 2 {
		t.Fatalf("X dims = (%d, %d), want (100, 2)", rows, cols)
	}
	yRows, yCols := y.Dims()
	if yRows != 100 || yCols != 1 {
		t.Fatalf("y dims = (%d, %d), want (100, 1)", yRows, yCols)
	}

	// Zero noise: targets follow the declared law exactly.
	for i := 0; i < rows; i++ {
		want := 2*X.At(i, 0) - X.At(i, 1) + 0.5
		if math.Abs(y.At(i, 0)-want) > 1e-12 {
			t.Fatalf("y[%d] = %v, want %v", i, y.At(i, 0), want)
		}
	}
}

func TestLinearSeedReproducibility(t *testing.T) {
	Xa, ya := Linear(50, []float64{1}, 0, 0.3, 7)
	Xb, yb := Linear(50, []float64{1}, 0, 0.3, 7)

	if !mat.Equal(Xa, Xb) || !mat.Equal(ya, yb) {
		t.Error("same seed produced different data")
	}

	_, yc := Linear(50, []float64{1}, 0, 0.3, 8)
	if mat.Equal(ya, yc) {
		t.Error("different seeds produced identical noise")
	}
}

func TestGaussianBumps1DPeaks(t *testing.T) {
	bumps := []Bump{{Center: []float64{0}, Height: 2, Width: 1}}
	X, y := GaussianBumps1D(101, -5, 5, bumps, 0, 1)

	// The grid point at x=0 sits on the bump peak.
	for i := 0; i < 101; i++ {
		if X.At(i, 0) == 0 {
			if math.Abs(y.At(i, 0)-2) > 1e-12 {
				t.Errorf("peak value = %v, want 2", y.At(i, 0))
			}
			return
		}
	}
	t.Fatal("grid does not contain x=0")
}

func TestGaussianBumpsSinglePointGrid(t *testing.T) {
	bumps := []Bump{{Center: []float64{0}, Height: 1, Width: 1}}

	X1, y1 := GaussianBumps1D(1, -5, 5, bumps, 0, 1)
	if got := X1.At(0, 0); got != -5 {
		t.Errorf("single-point 1D grid x = %v, want -5", got)
	}
	if v := y1.At(0, 0); math.IsNaN(v) || math.IsInf(v, 0) {
		t.Errorf("single-point 1D target = %v, want finite", v)
	}

	bumps2 := []Bump{{Center: []float64{0, 0}, Height: 1, Width: 1}}
	X2, y2 := GaussianBumps2D(1, -5, 5, bumps2, 0, 1)
	rows, cols := X2.Dims()
	if rows != 1 || cols != 2 {
		t.Fatalf("X dims = (%d, %d), want (1, 2)", rows, cols)
	}
	if X2.At(0, 0) != -5 || X2.At(0, 1) != -5 {
		t.Errorf("single-point 2D grid = (%v, %v), want (-5, -5)", X2.At(0, 0), X2.At(0, 1))
	}
	if v := y2.At(0, 0); math.IsNaN(v) || math.IsInf(v, 0) {
		t.Errorf("single-point 2D target = %v, want finite", v)
	}
}

func TestGaussianBumps2DGrid(t *testing.T) {
	bumps := []Bump{
		{Center: []float64{-1, -1}, Height: 1, Width: 2},
		{Center: []float64{1, 1}, Height: 1, Width: 2},
	}
	X, y := GaussianBumps2D(10, -3, 3, bumps, 0, 1)

	rows, cols := X.Dims()
	if rows != 100 || cols != 2 {
		t.Fatalf("X dims = (%d, %d), want (100, 2)", rows, cols)
	}
	yRows, _ := y.Dims()
	if yRows != 100 {
		t.Fatalf("y rows = %d, want 100", yRows)
	}

	// Noiseless bump sums are strictly positive everywhere.
	total := 0.0
	for i := 0; i < rows; i++ {
		total += y.At(i, 0)
	}
	if total <= 0 {
		t.Errorf("bump surface sums to %v, want > 0", total)
	}
}
