package traj

import (
	"github.com/pkg/errors"
)

// stubMSD returns lag * scale regardless of trajectory
type stubMSD struct {
	scale float64
	lags  []int
}

func (s *stubMSD) MSD(t *Trajectory, lag int) (float64, error) {
	s.lags = append(s.lags, lag)
	return float64(lag) * s.scale, nil
}

type failingMSD struct{}

func (failingMSD) MSD(t *Trajectory, lag int) (float64, error) {
	return 0, errors.New("boom")
}

// stubFitter returns fixed parameter vectors and records call arguments
type stubFitter struct {
	res      []float64
	err      error
	calls    int
	invScale float64
	timeLag  float64
	lagMin   int
	lagMax   int
	reduced  bool
}

func (s *stubFitter) FitPowerLaw(t *Trajectory, invTimeLag float64, lagMin, lagMax int) ([]float64, error) {
	s.calls++
	s.invScale, s.lagMin, s.lagMax = invTimeLag, lagMin, lagMax
	return s.res, s.err
}

func (s *stubFitter) FitConfined(t *Trajectory, timeLag float64, reduced bool) ([]float64, error) {
	s.calls++
	s.timeLag, s.reduced = timeLag, reduced
	return s.res, s.err
}

func (s *stubFitter) FitRegression(t *Trajectory, invTimeLag float64, lagMin, lagMax int) ([]float64, error) {
	s.calls++
	s.invScale, s.lagMin, s.lagMax = invTimeLag, lagMin, lagMax
	return s.res, s.err
}

func (s *stubFitter) FitActiveTransport(t *Trajectory, timeLag float64) ([]float64, error) {
	s.calls++
	s.timeLag = timeLag
	return s.res, s.err
}

func stubEvaluators(fitter *stubFitter) Evaluators {
	return Evaluators{
		MSD:             &stubMSD{scale: 0.5},
		PowerLaw:        fitter,
		Confined:        fitter,
		Regression:      fitter,
		ActiveTransport: fitter,
	}
}

// lineTrajectory creates trajectory of n points moving along X by one unit per step
func lineTrajectory(id int, label Label, n int) *Trajectory {
	t := NewTrajectory(id, label)
	for i := 0; i < n; i++ {
		t.Add(float64(i), 0)
	}
	return t
}

func mustBuilder(settings Settings, evaluators Evaluators) *CurveBuilder {
	builder, err := NewCurveBuilder(settings, evaluators)
	if err != nil {
		panic(err)
	}
	return builder
}
