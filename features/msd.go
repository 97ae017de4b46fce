package features

import (
	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
)

// MSDFeature evaluates mean squared displacement at given lag
type MSDFeature struct{}

// MSD implements traj.MSDEvaluator
func (MSDFeature) MSD(t *traj.Trajectory, lag int) (float64, error) {
	msd, _, _, err := MeanSquaredDisplacement(t.GetPoints(), lag)
	if err != nil {
		return 0, errors.Wrapf(err, "trajectory %d", t.GetID())
	}
	return msd, nil
}

// MeanSquaredDisplacement averages squared displacement over all point pairs lag steps apart.
// Also returns variance of squared displacements and number of pairs
func MeanSquaredDisplacement(points []traj.Point, lag int) (msd, variance float64, count int, err error) {
	if lag < 1 || lag >= len(points) {
		return 0, 0, 0, errors.Wrapf(ErrInvalidLag, "lag %d for %d points", lag, len(points))
	}
	count = len(points) - lag
	sum := 0.0
	sumSquares := 0.0
	for i := 0; i < count; i++ {
		sd := traj.SquaredDistance(points[i+lag], points[i])
		sum += sd
		sumSquares += sd * sd
	}
	msd = sum / float64(count)
	variance = sumSquares/float64(count) - msd*msd
	if variance < 0 {
		variance = 0
	}
	return msd, variance, count, nil
}
