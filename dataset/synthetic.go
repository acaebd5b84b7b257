// Package dataset generates the synthetic regression datasets the example
// programs train on. Every generator is seeded so runs are reproducible.
package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Bump describes one Gaussian bump of a target surface.
type Bump struct {
	Center []float64 // location in input space
	Height float64   // peak value
	Width  float64   // standard deviation sigma
}

// value evaluates the bump at x.
func (b Bump) value(x []float64) float64 {
	var distSq float64
	for i := range b.Center {
		diff := x[i] - b.Center[i]
		distSq += diff * diff
	}
	return b.Height * math.Exp(-distSq/(2*b.Width*b.Width))
}

// Linear samples n points uniformly from [-1, 1]^d and labels them with
// y = x.w + b plus Gaussian noise of the given standard deviation.
func Linear(n int, w []float64, b, noise float64, seed int64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	d := len(w)

	X := mat.NewDense(n, d, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		target := b
		for j := 0; j < d; j++ {
			x := rng.Float64()*2 - 1
			X.Set(i, j, x)
			target += w[j] * x
		}
		y.Set(i, 0, target+noise*rng.NormFloat64())
	}
	return X, y
}

// GaussianBumps1D samples n points evenly from [lo, hi] and labels them with
// the sum of the given bumps plus Gaussian noise.
func GaussianBumps1D(n int, lo, hi float64, bumps []Bump, noise float64, seed int64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		// A single-point grid degenerates to lo.
		x := lo
		if n > 1 {
			x = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		X.Set(i, 0, x)

		var target float64
		for _, bump := range bumps {
			target += bump.value([]float64{x})
		}
		y.Set(i, 0, target+noise*rng.NormFloat64())
	}
	return X, y
}

// GaussianBumps2D samples an evenly spaced side x side grid over
// [lo, hi]^2 and labels each point with the sum of the given bumps plus
// Gaussian noise. It returns side*side rows.
func GaussianBumps2D(side int, lo, hi float64, bumps []Bump, noise float64, seed int64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	n := side * side

	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	row := 0
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			x0, x1 := lo, lo
			if side > 1 {
				x0 = lo + (hi-lo)*float64(i)/float64(side-1)
				x1 = lo + (hi-lo)*float64(j)/float64(side-1)
			}
			X.Set(row, 0, x0)
			X.Set(row, 1, x1)

			var target float64
			for _, bump := range bumps {
				target += bump.value([]float64{x0, x1})
			}
			y.Set(row, 0, target+noise*rng.NormFloat64())
			row++
		}
	}
	return X, y
}
