package features

import (
	"math"

	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ActiveTransportFeature fits msd = 4*D*t + (v*t)^2 over lags [1, N/3]
type ActiveTransportFeature struct{}

// FitActiveTransport implements traj.ActiveTransportFitter. Returns [D, v]
func (ActiveTransportFeature) FitActiveTransport(t *traj.Trajectory, timeLag float64) ([]float64, error) {
	lagMax := t.MaxLag()
	if lagMax < 2 {
		return nil, errors.Wrapf(ErrNotEnoughData, "active transport fit of trajectory %d needs 2 lags, got %d", t.GetID(), lagMax)
	}
	times, msds, err := msdSeries(t, timeLag, traj.MinLag, lagMax)
	if err != nil {
		return nil, err
	}
	D, v, err := fitActiveTransport(times, msds)
	if err != nil {
		return nil, errors.Wrapf(err, "trajectory %d", t.GetID())
	}
	return []float64{D, v}, nil
}

// fitActiveTransport solves least squares for msd = c1*t + c2*t^2 and maps c1 = 4*D, c2 = v^2
func fitActiveTransport(times, msds []float64) (D, v float64, err error) {
	if len(times) < 2 {
		return 0, 0, errors.Wrapf(ErrNotEnoughData, "active transport fit needs 2 lags, got %d", len(times))
	}
	design := mat.NewDense(len(times), 2, nil)
	for row, t := range times {
		design.Set(row, 0, t)
		design.Set(row, 1, t*t)
	}
	observed := mat.NewVecDense(len(msds), append([]float64(nil), msds...))
	var coef mat.VecDense
	if err := coef.SolveVec(design, observed); err != nil {
		return 0, 0, errors.Wrap(err, "Can't solve active transport least squares")
	}
	D = coef.AtVec(0) / 4.0
	v = math.Sqrt(math.Max(coef.AtVec(1), 0))
	return D, v, nil
}
