package traj

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Model equations as reported in MSD table headers
const (
	EquationPowerLaw        = "y=4*D*t^alpha"
	EquationConfinedSimple  = "y=a*(1-exp(-4*D*t/a))"
	EquationConfined        = "y=a*(1-b*exp(-4*c*D*t/a))"
	EquationFreeDiffusion   = "y=4*D*t + a"
	EquationActiveTransport = "y=4*D*t + (v*t)^2"
)

// Tolerance for treating confined parameters a and b as 1 when choosing equation text
const confinedUnityTolerance = 1e-5

// MinLag is the first lag of every MSD curve
const MinLag = 1

// MSDSample is observed mean squared displacement at a lag
type MSDSample struct {
	Lag int
	MSD float64
}

// MSDCurve is observed MSD of a trajectory along with the fitted model curve (if any).
//
// Params layout depends on Model:
//   - ModelPowerLaw: [alpha, D]
//   - ModelConfined: [a, b, c, D]
//   - ModelFreeDiffusion: [D, intercept]
//   - ModelActiveTransport: [D, v]
type MSDCurve struct {
	TrajectoryID int
	Label        Label
	Model        MotionModel
	Samples      []MSDSample
	// ModelValues is parallel to Samples. Nil when there is no model curve
	ModelValues []float64
	Equation    string
	Params      []float64
}

// HasModel returns true when the curve carries fitted model values
func (curve *MSDCurve) HasModel() bool {
	return curve.Model != ModelNone
}

// CurveBuilder computes observed MSD and fitted model curves.
// It holds no mutable state: every Build call re-evaluates everything.
type CurveBuilder struct {
	settings   Settings
	evaluators Evaluators
	logger     *zap.Logger
}

// CurveBuilderOption configures CurveBuilder
type CurveBuilderOption func(*CurveBuilder)

// WithBuilderLogger sets logger. Default is no-op logger
func WithBuilderLogger(logger *zap.Logger) CurveBuilderOption {
	return func(builder *CurveBuilder) {
		builder.logger = logger
	}
}

// NewCurveBuilder creates builder. MSD evaluator is mandatory, fitters are optional
func NewCurveBuilder(settings Settings, evaluators Evaluators, options ...CurveBuilderOption) (*CurveBuilder, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if evaluators.MSD == nil {
		return nil, errors.New("MSD evaluator must be provided")
	}
	builder := &CurveBuilder{
		settings:   settings,
		evaluators: evaluators,
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(builder)
	}
	return builder, nil
}

// Settings returns builder's settings
func (builder *CurveBuilder) Settings() Settings {
	return builder.settings
}

// ObservedMSD evaluates MSD for lags 1..floor(N/3). Trajectories shorter than 3 points give empty result
func (builder *CurveBuilder) ObservedMSD(t *Trajectory) ([]MSDSample, error) {
	lagMax := t.MaxLag()
	if lagMax < MinLag {
		return []MSDSample{}, nil
	}
	samples := make([]MSDSample, 0, lagMax-MinLag+1)
	for lag := MinLag; lag <= lagMax; lag++ {
		msd, err := builder.evaluators.MSD.MSD(t, lag)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't evaluate MSD of trajectory %d at lag %d", t.GetID(), lag)
		}
		samples = append(samples, MSDSample{Lag: lag, MSD: msd})
	}
	return samples, nil
}

// Build computes MSD curve for trajectory.
// Model curve is fitted only when label selects a known model, a fitter for it is available
// and at least one lag exists. A fitter error wrapping ErrNotEnoughData also leaves the curve
// without a model; any other fitter error fails the build.
func (builder *CurveBuilder) Build(t *Trajectory) (*MSDCurve, error) {
	samples, err := builder.ObservedMSD(t)
	if err != nil {
		return nil, err
	}
	curve := &MSDCurve{
		TrajectoryID: t.GetID(),
		Label:        t.GetLabel(),
		Model:        ModelNone,
		Samples:      samples,
	}
	model := t.GetLabel().Model()
	if model == ModelNone || len(samples) == 0 || !builder.canFit(model) {
		return curve, nil
	}

	params, err := builder.fit(model, t)
	if errors.Is(err, ErrNotEnoughData) {
		// Too short for this model: keep observed MSD only
		builder.logger.Warn("Model skipped",
			zap.Int("trajectory_id", t.GetID()),
			zap.Stringer("model", model),
			zap.Int("lags", len(samples)),
			zap.Error(err),
		)
		return curve, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Can't fit %s model to trajectory %d", model, t.GetID())
	}
	curve.Model = model
	curve.Params = params
	curve.ModelValues = modelValues(model, params, builder.settings.TimeLag, samples)
	curve.Equation = modelEquation(model, params)
	return curve, nil
}

func (builder *CurveBuilder) canFit(model MotionModel) bool {
	switch model {
	case ModelPowerLaw:
		return builder.evaluators.PowerLaw != nil
	case ModelConfined:
		return builder.evaluators.Confined != nil
	case ModelFreeDiffusion:
		return builder.evaluators.Regression != nil
	case ModelActiveTransport:
		return builder.evaluators.ActiveTransport != nil
	default:
		return false
	}
}

// fit calls external fitter and normalizes its positional output to MSDCurve.Params layout
func (builder *CurveBuilder) fit(model MotionModel, t *Trajectory) ([]float64, error) {
	timeLag := builder.settings.TimeLag
	lagMax := t.MaxLag()
	switch model {
	case ModelPowerLaw:
		res, err := builder.evaluators.PowerLaw.FitPowerLaw(t, 1/timeLag, MinLag, lagMax)
		if err != nil {
			return nil, &FitError{Model: model, Err: err}
		}
		if err := checkParams(res, 2); err != nil {
			return nil, err
		}
		return []float64{res[0], res[1]}, nil
	case ModelConfined:
		reduced := builder.settings.UseReducedConfinedModel
		res, err := builder.evaluators.Confined.FitConfined(t, timeLag, reduced)
		if err != nil {
			return nil, &FitError{Model: model, Err: err}
		}
		if reduced {
			if err := checkParams(res, 2); err != nil {
				return nil, err
			}
			return []float64{res[0], 1, 1, res[1]}, nil
		}
		if err := checkParams(res, 4); err != nil {
			return nil, err
		}
		return []float64{res[0], res[2], res[3], res[1]}, nil
	case ModelFreeDiffusion:
		res, err := builder.evaluators.Regression.FitRegression(t, 1/timeLag, MinLag, lagMax)
		if err != nil {
			return nil, &FitError{Model: model, Err: err}
		}
		if err := checkParams(res, 3); err != nil {
			return nil, err
		}
		return []float64{res[0], res[2]}, nil
	case ModelActiveTransport:
		res, err := builder.evaluators.ActiveTransport.FitActiveTransport(t, timeLag)
		if err != nil {
			return nil, &FitError{Model: model, Err: err}
		}
		if err := checkParams(res, 2); err != nil {
			return nil, err
		}
		return []float64{res[0], res[1]}, nil
	default:
		return nil, errors.Wrapf(ErrFit, "no fitter for model %s", model)
	}
}

func checkParams(res []float64, expected int) error {
	if len(res) < expected {
		return errors.Wrapf(ErrFit, "expected at least %d parameters, got %d", expected, len(res))
	}
	return nil
}

// modelValues samples model at the same lags as observed MSD
func modelValues(model MotionModel, params []float64, timeLag float64, samples []MSDSample) []float64 {
	values := make([]float64, len(samples))
	for idx, sample := range samples {
		values[idx] = ModelMSD(model, params, float64(sample.Lag)*timeLag)
	}
	return values
}

// ParamCount returns length of normalized params vector for model (see MSDCurve.Params)
func (model MotionModel) ParamCount() int {
	switch model {
	case ModelPowerLaw, ModelFreeDiffusion, ModelActiveTransport:
		return 2
	case ModelConfined:
		return 4
	default:
		return 0
	}
}

// ModelMSD returns predicted MSD at time t (lag * timelag) for normalized params laid out as
// in MSDCurve.Params. Returns NaN for ModelNone and for params shorter than model.ParamCount()
func ModelMSD(model MotionModel, params []float64, t float64) float64 {
	if model == ModelNone || len(params) < model.ParamCount() {
		return math.NaN()
	}
	switch model {
	case ModelPowerLaw:
		alpha, D := params[0], params[1]
		return 4.0 * D * math.Pow(t, alpha)
	case ModelConfined:
		a, b, c, D := params[0], params[1], params[2], params[3]
		return a * (1.0 - b*math.Exp(-4.0*D*(t/a)*c))
	case ModelFreeDiffusion:
		D, intercept := params[0], params[1]
		return intercept + 4.0*D*t
	case ModelActiveTransport:
		D, v := params[0], params[1]
		return math.Pow(v*t, 2) + 4*D*t
	default:
		return math.NaN()
	}
}

// modelEquation picks equation text. It never affects model values
func modelEquation(model MotionModel, params []float64) string {
	switch model {
	case ModelPowerLaw:
		return EquationPowerLaw
	case ModelConfined:
		return confinedEquation(params[0], params[1])
	case ModelFreeDiffusion:
		return EquationFreeDiffusion
	case ModelActiveTransport:
		return EquationActiveTransport
	default:
		return ""
	}
}

func confinedEquation(a, b float64) string {
	if math.Abs(1.0-b) < confinedUnityTolerance && math.Abs(1.0-a) < confinedUnityTolerance {
		return EquationConfinedSimple
	}
	return EquationConfined
}
