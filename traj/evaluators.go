package traj

// MSDEvaluator computes observed mean squared displacement of trajectory at given lag.
// Implementations must be stateless: lag is an argument, not a setting.
type MSDEvaluator interface {
	MSD(t *Trajectory, lag int) (float64, error)
}

// PowerLawFitter fits msd = 4*D*t^alpha over lags [lagMin, lagMax].
// invTimeLag converts lags to time (t = lag / invTimeLag). Result: [alpha, D]
type PowerLawFitter interface {
	FitPowerLaw(t *Trajectory, invTimeLag float64, lagMin, lagMax int) ([]float64, error)
}

// ConfinedFitter fits msd = a*(1-b*exp(-4*c*D*t/a)).
// Result: [a, D] for reduced model, [a, D, b, c] otherwise
type ConfinedFitter interface {
	FitConfined(t *Trajectory, timeLag float64, reduced bool) ([]float64, error)
}

// RegressionFitter fits msd = 4*D*t + intercept by linear regression over lags [lagMin, lagMax].
// Result: [D, slope, intercept]
type RegressionFitter interface {
	FitRegression(t *Trajectory, invTimeLag float64, lagMin, lagMax int) ([]float64, error)
}

// ActiveTransportFitter fits msd = 4*D*t + (v*t)^2.
// Result: [D, v]
type ActiveTransportFitter interface {
	FitActiveTransport(t *Trajectory, timeLag float64) ([]float64, error)
}

// Evaluators groups estimators the curve builder delegates to.
// Fitters may be nil: trajectories whose label needs a missing fitter get no model curve.
type Evaluators struct {
	MSD             MSDEvaluator
	PowerLaw        PowerLawFitter
	Confined        ConfinedFitter
	Regression      RegressionFitter
	ActiveTransport ActiveTransportFitter
}
