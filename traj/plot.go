package traj

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	observedColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	modelColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Plotter renders trajectory and MSD charts as static images
type Plotter struct {
	width  vg.Length
	height vg.Length
}

// NewPlotterDefault creates plotter producing 8x6 inch images
func NewPlotterDefault() *Plotter {
	return NewPlotter(8*vg.Inch, 6*vg.Inch)
}

// NewPlotter creates plotter with given image size
func NewPlotter(width, height vg.Length) *Plotter {
	return &Plotter{
		width:  width,
		height: height,
	}
}

// TrajectoryChart draws trajectory's path in the X/Y plane
func (pl *Plotter) TrajectoryChart(t *Trajectory) (*plot.Plot, error) {
	chart := plot.New()
	chart.Title.Text = fmt.Sprintf("Trajectory with ID %d", t.GetID())
	chart.X.Label.Text = "X"
	chart.Y.Label.Text = "Y"

	points := t.GetPoints()
	if len(points) == 0 {
		return chart, nil
	}
	xys := make(plotter.XYs, len(points))
	for idx, pt := range points {
		xys[idx].X = pt.X
		xys[idx].Y = pt.Y
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't draw trajectory %d", t.GetID())
	}
	line.Color = observedColor
	line.Width = vg.Points(1)
	chart.Add(line)
	return chart, nil
}

// MSDChart draws observed MSD against lag time and, when present, the fitted model curve.
// Legend carries the model equation
func (pl *Plotter) MSDChart(curve *MSDCurve, timeLag float64) (*plot.Plot, error) {
	chart := plot.New()
	chart.Title.Text = fmt.Sprintf("MSD of trajectory %d (%s)", curve.TrajectoryID, curve.Label)
	chart.X.Label.Text = "Lag time"
	chart.Y.Label.Text = "MSD"
	chart.Legend.Top = true
	chart.Legend.Left = true

	if len(curve.Samples) == 0 {
		return chart, nil
	}
	observed := make(plotter.XYs, len(curve.Samples))
	for idx, sample := range curve.Samples {
		observed[idx].X = float64(sample.Lag) * timeLag
		observed[idx].Y = sample.MSD
	}
	line, points, err := plotter.NewLinePoints(observed)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't draw MSD of trajectory %d", curve.TrajectoryID)
	}
	line.Color = observedColor
	points.Color = observedColor
	chart.Add(line, points)
	chart.Legend.Add("MSD", line)

	if !curve.HasModel() {
		return chart, nil
	}
	fitted := make(plotter.XYs, len(curve.ModelValues))
	for idx, value := range curve.ModelValues {
		fitted[idx].X = observed[idx].X
		fitted[idx].Y = value
	}
	modelLine, err := plotter.NewLine(fitted)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't draw %s model of trajectory %d", curve.Model, curve.TrajectoryID)
	}
	modelLine.Color = modelColor
	modelLine.Width = vg.Points(1.5)
	modelLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	chart.Add(modelLine)
	chart.Legend.Add("model "+curve.Equation, modelLine)
	return chart, nil
}

// Save renders chart into file. Format is picked from file extension (png, svg, pdf, ...)
func (pl *Plotter) Save(chart *plot.Plot, path string) error {
	if err := chart.Save(pl.width, pl.height, path); err != nil {
		return newIOError("save chart", path, err)
	}
	return nil
}
