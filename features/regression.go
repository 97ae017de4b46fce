package features

import (
	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// RegressionDiffusionEstimator estimates diffusion coefficient by ordinary least squares of MSD against time
type RegressionDiffusionEstimator struct{}

// FitRegression implements traj.RegressionFitter. Returns [D, slope, intercept]
func (RegressionDiffusionEstimator) FitRegression(t *traj.Trajectory, invTimeLag float64, lagMin, lagMax int) ([]float64, error) {
	times, msds, err := msdSeries(t, 1/invTimeLag, lagMin, lagMax)
	if err != nil {
		return nil, err
	}
	D, slope, intercept, err := fitLine(times, msds)
	if err != nil {
		return nil, errors.Wrapf(err, "trajectory %d", t.GetID())
	}
	return []float64{D, slope, intercept}, nil
}

// fitLine fits msd = intercept + 4*D*t
func fitLine(times, msds []float64) (D, slope, intercept float64, err error) {
	if len(times) < 2 {
		return 0, 0, 0, errors.Wrapf(ErrNotEnoughData, "linear regression needs 2 lags, got %d", len(times))
	}
	intercept, slope = stat.LinearRegression(times, msds, nil, false)
	return slope / 4.0, slope, intercept, nil
}
