package features

import (
	"math"

	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ConfinedDiffusionFeature fits msd = a*(1-b*exp(-4*c*D*t/a)) over lags [1, N/3].
// Reduced model keeps b = c = 1
type ConfinedDiffusionFeature struct{}

// FitConfined implements traj.ConfinedFitter. Returns [a, D] for reduced model and [a, D, b, c] otherwise
func (ConfinedDiffusionFeature) FitConfined(t *traj.Trajectory, timeLag float64, reduced bool) ([]float64, error) {
	lagMax := t.MaxLag()
	if lagMax < traj.MinLag {
		return nil, errors.Wrapf(ErrNotEnoughData, "confined fit of trajectory %d: no lags", t.GetID())
	}
	times, msds, err := msdSeries(t, timeLag, traj.MinLag, lagMax)
	if err != nil {
		return nil, err
	}
	params, err := fitConfined(times, msds, reduced)
	if err != nil {
		return nil, errors.Wrapf(err, "trajectory %d", t.GetID())
	}
	return params, nil
}

func confinedMSD(a, b, c, D, t float64) float64 {
	return a * (1.0 - b*math.Exp(-4.0*c*D*t/a))
}

func fitConfined(times, msds []float64, reduced bool) ([]float64, error) {
	numParams := 4
	if reduced {
		numParams = 2
	}
	if len(times) < numParams {
		return nil, errors.Wrapf(ErrNotEnoughData, "confined fit needs %d lags, got %d", numParams, len(times))
	}

	// Plateau is approached from below, so the largest MSD is a fair start for a.
	a0 := floats.Max(msds)
	if a0 <= 0 {
		a0 = 1
	}
	D0 := msds[0] / (4.0 * times[0])
	if !(D0 > 0) || !finite(D0) {
		D0 = a0 / (4.0 * times[len(times)-1])
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			a, D := x[0], x[1]
			b, c := 1.0, 1.0
			if !reduced {
				b, c = x[2], x[3]
			}
			if a <= 0 {
				return math.Inf(1)
			}
			return sumSquaredResiduals(times, msds, func(t float64) float64 {
				return confinedMSD(a, b, c, D, t)
			})
		},
	}
	initial := []float64{a0, D0}
	if !reduced {
		initial = append(initial, 1, 1)
	}
	result, err := optimize.Minimize(problem, initial, nil, &optimize.NelderMead{})
	if result == nil {
		return nil, errors.Wrap(err, "Can't fit confined model")
	}
	if !finite(result.X...) || result.X[0] <= 0 {
		return nil, errors.Errorf("confined fit diverged: %v", result.X)
	}
	return append([]float64(nil), result.X...), nil
}
