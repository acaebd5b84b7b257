// Package gradkit is a small library of classic supervised-learning
// trainers for Go, built on gonum: linear regression by per-example
// gradient descent, scalar function minimization, a two-layer perceptron
// trained with mini-batch gradient descent, and Gaussian RBF networks
// solved in closed form by least squares.
//
// Each trainer is an independent estimator with a Fit/Predict/Score API and
// an append-only loss history for diagnostics. All randomness is drawn from
// a per-estimator seedable generator, so a fixed seed reproduces a run
// exactly.
//
// # Quick start
//
// Train a linear model by gradient descent:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gradkit/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    gd := linear.NewGDRegressor(linear.WithEta(0.05), linear.WithEpochs(200))
//	    if err := gd.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println(gd.Weights(), gd.Intercept())
//	}
//
// The examples directory contains one runnable program per model family,
// each generating synthetic data, training, and plotting its diagnostics.
package gradkit
