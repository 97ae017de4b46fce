package traj

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	pointsHeader = []string{"ID", "X", "Y", "CLASS"}
	msdHeader    = []string{"LAG", "MSD"}
)

// streamName is used in IOError when writing to caller-supplied io.Writer
const streamName = "<stream>"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WritePoints writes point table: header ID,X,Y,CLASS then one row per point,
// in trajectory order then point order
func WritePoints(w io.Writer, tracks []*Trajectory) error {
	return writePoints(w, streamName, tracks)
}

func writePoints(w io.Writer, name string, tracks []*Trajectory) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(pointsHeader); err != nil {
		return newIOError("write", name, err)
	}
	for idx, t := range tracks {
		if t == nil {
			return errors.Wrapf(ErrUnknownTrajectory, "nil trajectory at position %d", idx)
		}
		id := strconv.Itoa(t.GetID())
		label := string(t.GetLabel())
		for _, pt := range t.GetPoints() {
			err := writer.Write([]string{id, formatFloat(pt.X), formatFloat(pt.Y), label})
			if err != nil {
				return newIOError("write", name, err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return newIOError("write", name, err)
	}
	return nil
}

// WriteMSD writes MSD table of a single curve: header LAG,MSD (plus "model <equation>" column
// when the curve has a model) then one row per lag
func WriteMSD(w io.Writer, curve *MSDCurve) error {
	return writeMSD(w, streamName, curve)
}

func writeMSD(w io.Writer, name string, curve *MSDCurve) error {
	writer := csv.NewWriter(w)
	header := msdHeader
	if curve.HasModel() {
		header = append(append([]string{}, msdHeader...), "model "+curve.Equation)
	}
	if err := writer.Write(header); err != nil {
		return newIOError("write", name, err)
	}
	for idx, sample := range curve.Samples {
		row := []string{strconv.Itoa(sample.Lag), formatFloat(sample.MSD)}
		if curve.HasModel() {
			row = append(row, formatFloat(curve.ModelValues[idx]))
		}
		if err := writer.Write(row); err != nil {
			return newIOError("write", name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return newIOError("write", name, err)
	}
	return nil
}

// MSDFilename derives per-trajectory file name: "{base}-{label with / as _}-{id}{ext}".
// Extension is taken from the last path element; without one the suffix goes to the end.
func MSDFilename(path string, label Label, id int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s-%s-%d%s", base, strings.ReplaceAll(string(label), "/", "_"), id, ext)
}

// writeFileAtomic writes into temporary sibling of path and renames it into place.
// On any failure the temporary file is removed and path is left untouched.
func writeFileAtomic(path string, write func(w io.Writer, name string) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return newIOError("create", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	buffered := bufio.NewWriter(tmp)
	if err = write(buffered, path); err != nil {
		return err
	}
	if err = buffered.Flush(); err != nil {
		return newIOError("write", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return newIOError("chmod", path, err)
	}
	if err = tmp.Close(); err != nil {
		return newIOError("close", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return newIOError("rename", path, err)
	}
	return nil
}

// ExportPoints writes point table of all trajectories into a single file, overwriting it
func ExportPoints(path string, tracks []*Trajectory) error {
	return writeFileAtomic(path, func(w io.Writer, name string) error {
		return writePoints(w, name, tracks)
	})
}

// Exporter writes MSD tables using curve builder
type Exporter struct {
	builder *CurveBuilder
	logger  *zap.Logger
}

// ExporterOption configures Exporter
type ExporterOption func(*Exporter)

// WithExporterLogger sets logger. Default is no-op logger
func WithExporterLogger(logger *zap.Logger) ExporterOption {
	return func(exporter *Exporter) {
		exporter.logger = logger
	}
}

// NewExporter creates new instance of Exporter
func NewExporter(builder *CurveBuilder, options ...ExporterOption) *Exporter {
	exporter := &Exporter{
		builder: builder,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(exporter)
	}
	return exporter
}

// Builder returns underlying curve builder
func (exporter *Exporter) Builder() *CurveBuilder {
	return exporter.builder
}

// ExportPoints writes point table of all trajectories into a single file
func (exporter *Exporter) ExportPoints(path string, tracks []*Trajectory) error {
	if err := ExportPoints(path, tracks); err != nil {
		exporter.logger.Error("Can't export trajectories", zap.String("path", path), zap.Error(err))
		return err
	}
	exporter.logger.Info("Trajectories exported", zap.String("path", path), zap.Int("trajectories", len(tracks)))
	return nil
}

// ExportMSD writes one MSD table per trajectory next to path (see MSDFilename) and returns
// names of written files in trajectory order.
// All curves and file names are computed before the first file is written: trajectories sharing
// label and ID would overwrite each other, so they fail the call with ErrDuplicateFilename.
// If any file fails, files already written by this call are removed.
func (exporter *Exporter) ExportMSD(path string, tracks []*Trajectory) ([]string, error) {
	curves := make([]*MSDCurve, len(tracks))
	for idx, t := range tracks {
		if t == nil {
			return nil, errors.Wrapf(ErrUnknownTrajectory, "nil trajectory at position %d", idx)
		}
		curve, err := exporter.builder.Build(t)
		if err != nil {
			exporter.logger.Error("Can't build MSD curve", zap.Int("trajectory_id", t.GetID()), zap.Error(err))
			return nil, err
		}
		curves[idx] = curve
	}

	names := make([]string, len(curves))
	seen := make(map[string]int, len(curves))
	for idx, curve := range curves {
		name := MSDFilename(path, curve.Label, curve.TrajectoryID)
		if prev, ok := seen[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateFilename, "trajectories at positions %d and %d both map to %s", prev, idx, name)
		}
		seen[name] = idx
		names[idx] = name
	}

	written := make([]string, 0, len(curves))
	for idx, curve := range curves {
		name := names[idx]
		err := writeFileAtomic(name, func(w io.Writer, name string) error {
			return writeMSD(w, name, curve)
		})
		if err != nil {
			exporter.logger.Error("Can't export MSD", zap.String("path", name), zap.Error(err))
			removeFiles(written)
			return nil, err
		}
		exporter.logger.Debug("MSD exported",
			zap.String("path", name),
			zap.Int("trajectory_id", curve.TrajectoryID),
			zap.Stringer("model", curve.Model),
			zap.Int("lags", len(curve.Samples)),
		)
		written = append(written, name)
	}
	exporter.logger.Info("MSD tables exported", zap.String("path", path), zap.Int("files", len(written)))
	return written, nil
}

func removeFiles(names []string) {
	for _, name := range names {
		os.Remove(name)
	}
}
