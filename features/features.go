// Package features provides reference estimators for MSD curve building:
// mean squared displacement and fits of the four motion models.
// All estimators are stateless and safe for concurrent use.
package features

import (
	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
)

var (
	// ErrNotEnoughData is returned when there are fewer usable lags than model parameters.
	// Same value as traj.ErrNotEnoughData so curve builder skips the model instead of failing
	ErrNotEnoughData = traj.ErrNotEnoughData
	// ErrInvalidLag is returned for lags outside [1, N-1]
	ErrInvalidLag = errors.New("invalid lag")
)

// Default returns evaluators set backed by this package
func Default() traj.Evaluators {
	return traj.Evaluators{
		MSD:             MSDFeature{},
		PowerLaw:        PowerLawFeature{},
		Confined:        ConfinedDiffusionFeature{},
		Regression:      RegressionDiffusionEstimator{},
		ActiveTransport: ActiveTransportFeature{},
	}
}

// msdSeries evaluates MSD for lags [lagMin, lagMax] and converts lags to time using timeLag
func msdSeries(t *traj.Trajectory, timeLag float64, lagMin, lagMax int) (times, msds []float64, err error) {
	if lagMin < 1 || lagMax < lagMin {
		return nil, nil, errors.Wrapf(ErrInvalidLag, "lag range [%d, %d]", lagMin, lagMax)
	}
	points := t.GetPoints()
	times = make([]float64, 0, lagMax-lagMin+1)
	msds = make([]float64, 0, lagMax-lagMin+1)
	for lag := lagMin; lag <= lagMax; lag++ {
		msd, _, _, err := MeanSquaredDisplacement(points, lag)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "trajectory %d", t.GetID())
		}
		times = append(times, float64(lag)*timeLag)
		msds = append(msds, msd)
	}
	return times, msds, nil
}

// sumSquaredResiduals is the objective minimized by nonlinear fits
func sumSquaredResiduals(times, msds []float64, model func(t float64) float64) float64 {
	sum := 0.0
	for idx, t := range times {
		diff := model(t) - msds[idx]
		sum += diff * diff
	}
	return sum
}
