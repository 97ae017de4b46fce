package traj

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectoryChart(t *testing.T) {
	plotter := NewPlotterDefault()
	chart, err := plotter.TrajectoryChart(lineTrajectory(5, LabelNone, 10))
	require.NoError(t, err)
	assert.Equal(t, "Trajectory with ID 5", chart.Title.Text)

	path := filepath.Join(t.TempDir(), "trajectory.png")
	require.NoError(t, plotter.Save(chart, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestMSDChart(t *testing.T) {
	fitter := &stubFitter{res: []float64{0.8, 0.05}}
	builder := mustBuilder(Settings{TimeLag: 0.1}, stubEvaluators(fitter))
	curve, err := builder.Build(lineTrajectory(2, LabelSubdiffusion, 30))
	require.NoError(t, err)

	plotter := NewPlotterDefault()
	chart, err := plotter.MSDChart(curve, 0.1)
	require.NoError(t, err)
	assert.Equal(t, "MSD of trajectory 2 (SUBDIFFUSION)", chart.Title.Text)
	assert.InDelta(t, 0.1, chart.X.Min, 1e-9)
	assert.InDelta(t, 1.0, chart.X.Max, 1e-9)

	path := filepath.Join(t.TempDir(), "msd.svg")
	require.NoError(t, plotter.Save(chart, path))
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestMSDChartEmptyCurve(t *testing.T) {
	chart, err := NewPlotterDefault().MSDChart(&MSDCurve{TrajectoryID: 1, Label: LabelNone}, 0.1)
	require.NoError(t, err)
	assert.NotNil(t, chart)
}

func TestMSDChartInvalidModelValues(t *testing.T) {
	curve := &MSDCurve{
		TrajectoryID: 1,
		Label:        LabelSubdiffusion,
		Model:        ModelPowerLaw,
		Samples:      []MSDSample{{Lag: 1, MSD: 1}},
		ModelValues:  []float64{math.NaN()},
		Equation:     EquationPowerLaw,
	}
	_, err := NewPlotterDefault().MSDChart(curve, 0.1)
	assert.Error(t, err)
}
