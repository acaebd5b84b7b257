// Package visualize renders training diagnostics to image files: loss
// curves over optimization steps and one-dimensional fits against the
// training data.
package visualize

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// LossCurve plots a loss history, one point per optimization step, and saves
// it to path (the extension picks the format, e.g. .png).
func LossCurve(history []float64, title, path string) error {
	if len(history) == 0 {
		return errors.NewValueError("visualize.LossCurve", "empty loss history")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = "loss"

	pts := make(plotter.XYs, len(history))
	for i, v := range history {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "visualize.LossCurve")
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "visualize.LossCurve")
	}
	return nil
}

// Fit1D plots single-feature training data as a scatter together with the
// model's predictions drawn as a line over the same inputs, and saves the
// figure to path.
func Fit1D(X, y mat.Matrix, predict func(mat.Matrix) (mat.Matrix, error), title, path string) error {
	rows, cols := X.Dims()
	if cols != 1 {
		return errors.NewDimensionError("visualize.Fit1D", 1, cols, 1)
	}
	if rows == 0 {
		return errors.NewValueError("visualize.Fit1D", "empty data")
	}

	yPred, err := predict(X)
	if err != nil {
		return err
	}

	scatter := make(plotter.XYs, rows)
	fitLine := make(plotter.XYs, rows)
	for i := 0; i < rows; i++ {
		scatter[i].X = X.At(i, 0)
		scatter[i].Y = y.At(i, 0)
		fitLine[i].X = X.At(i, 0)
		fitLine[i].Y = yPred.At(i, 0)
	}
	sort.Slice(fitLine, func(i, j int) bool { return fitLine[i].X < fitLine[j].X })

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	points, err := plotter.NewScatter(scatter)
	if err != nil {
		return errors.Wrap(err, "visualize.Fit1D")
	}
	line, err := plotter.NewLine(fitLine)
	if err != nil {
		return errors.Wrap(err, "visualize.Fit1D")
	}
	p.Add(points, line)
	p.Legend.Add("data", points)
	p.Legend.Add("fit", line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "visualize.Fit1D")
	}
	return nil
}
