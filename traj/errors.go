package traj

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIO marks failures opening, reading, writing or closing files
	ErrIO = errors.New("i/o failure")
	// ErrParse marks malformed rows in imported point tables
	ErrParse = errors.New("parse failure")
	// ErrFit marks evaluator failures and parameter vectors of unexpected length
	ErrFit = errors.New("model fit failure")
	// ErrNotEnoughData is wrapped by evaluators when a trajectory has fewer usable lags than model parameters.
	// Curve builder treats it as "no model" rather than a failure
	ErrNotEnoughData = errors.New("not enough data")
	// ErrDuplicateFilename is returned when two trajectories map to the same MSD file name
	ErrDuplicateFilename = errors.New("duplicate MSD file name")
	// ErrInvalidSettings marks settings that can't drive curve building
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrNoSelection is returned when a command needs selected rows and there are none
	ErrNoSelection = errors.New("no trajectory selected")
	// ErrMultipleSelection is returned when a command works on a single row only
	ErrMultipleSelection = errors.New("multiple trajectories selected")
	// ErrUnknownTrajectory is returned when a table row refers to a missing trajectory
	ErrUnknownTrajectory = errors.New("unknown trajectory")
)

// IOError describes failed file operation
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports IOError as ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func newIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// ParseError describes malformed field in a point table.
// Line is 1-based and counts the header row.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s: can't parse %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ParseError as ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// FitError wraps failure returned by an external fitter
type FitError struct {
	Model MotionModel
	Err   error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("%s fit: %v", e.Model, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// Is reports FitError as ErrFit
func (e *FitError) Is(target error) bool {
	return target == ErrFit
}
