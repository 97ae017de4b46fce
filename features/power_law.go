package features

import (
	"math"

	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// PowerLawFeature fits msd = 4*D*t^alpha
type PowerLawFeature struct{}

// FitPowerLaw implements traj.PowerLawFitter. Returns [alpha, D]
func (PowerLawFeature) FitPowerLaw(t *traj.Trajectory, invTimeLag float64, lagMin, lagMax int) ([]float64, error) {
	times, msds, err := msdSeries(t, 1/invTimeLag, lagMin, lagMax)
	if err != nil {
		return nil, err
	}
	alpha, D, err := fitPowerLaw(times, msds)
	if err != nil {
		return nil, errors.Wrapf(err, "trajectory %d", t.GetID())
	}
	return []float64{alpha, D}, nil
}

// fitPowerLaw starts from log-log regression and refines alpha and D on linear-scale squared error
func fitPowerLaw(times, msds []float64) (alpha, D float64, err error) {
	logTimes := make([]float64, 0, len(times))
	logMSDs := make([]float64, 0, len(msds))
	for idx, t := range times {
		if t <= 0 || msds[idx] <= 0 {
			continue
		}
		logTimes = append(logTimes, math.Log(t))
		logMSDs = append(logMSDs, math.Log(msds[idx]))
	}
	if len(logTimes) < 2 {
		return 0, 0, errors.Wrapf(ErrNotEnoughData, "power law fit needs 2 positive MSD values, got %d", len(logTimes))
	}
	logIntercept, slope := stat.LinearRegression(logTimes, logMSDs, nil, false)
	alpha = slope
	D = math.Exp(logIntercept) / 4.0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return sumSquaredResiduals(times, msds, func(t float64) float64 {
				return 4.0 * x[1] * math.Pow(t, x[0])
			})
		},
	}
	result, err := optimize.Minimize(problem, []float64{alpha, D}, nil, &optimize.NelderMead{})
	if err != nil || result == nil || !finite(result.X...) {
		// Log-log estimate is still a valid power law fit
		return alpha, D, nil
	}
	if result.F > problem.Func([]float64{alpha, D}) {
		return alpha, D, nil
	}
	return result.X[0], result.X[1], nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
