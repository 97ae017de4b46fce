package traj

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Table is a host results table: one row per listed trajectory
type Table interface {
	RowCount() int
	TrajectoryAt(row int) (*Trajectory, error)
}

// RowTable is a Table with one row per trajectory in given order. Rows are resolved by position,
// so separate trajectories sharing an ID stay distinct
type RowTable struct {
	tracks []*Trajectory
}

// NewRowTable creates table listing given trajectories. Nil entries are skipped
func NewRowTable(tracks []*Trajectory) *RowTable {
	rows := make([]*Trajectory, 0, len(tracks))
	for _, t := range tracks {
		if t != nil {
			rows = append(rows, t)
		}
	}
	return &RowTable{tracks: rows}
}

// RowCount returns number of rows
func (table *RowTable) RowCount() int {
	return len(table.tracks)
}

// TrajectoryAt returns trajectory listed at row
func (table *RowTable) TrajectoryAt(row int) (*Trajectory, error) {
	if row < 0 || row >= len(table.tracks) {
		return nil, errors.Errorf("row %d is out of range [0, %d)", row, len(table.tracks))
	}
	return table.tracks[row], nil
}

// IDTable is a Table that lists trajectory IDs only, the way a host table shows them.
// Rows are resolved against source collection with TrajectoryByID
type IDTable struct {
	ids    []int
	source []*Trajectory
}

// NewIDTable creates table listing ids resolved in source
func NewIDTable(ids []int, source []*Trajectory) *IDTable {
	return &IDTable{
		ids:    append([]int(nil), ids...),
		source: source,
	}
}

// RowCount returns number of rows
func (table *IDTable) RowCount() int {
	return len(table.ids)
}

// TrajectoryAt returns trajectory whose ID is listed at row
func (table *IDTable) TrajectoryAt(row int) (*Trajectory, error) {
	if row < 0 || row >= len(table.ids) {
		return nil, errors.Errorf("row %d is out of range [0, %d)", row, len(table.ids))
	}
	t := TrajectoryByID(table.source, table.ids[row])
	if t == nil {
		return nil, errors.Wrapf(ErrUnknownTrajectory, "row %d refers to trajectory %d", row, table.ids[row])
	}
	return t, nil
}

// Selection is an inclusive range of selected table rows
type Selection struct {
	Start int
	End   int
}

// NoSelection means that no rows are selected
var NoSelection = Selection{Start: -1, End: -1}

// SelectRow selects a single row
func SelectRow(row int) Selection {
	return Selection{Start: row, End: row}
}

// IsEmpty returns true when nothing is selected
func (sel Selection) IsEmpty() bool {
	return sel.Start < 0 && sel.End < 0
}

// IsSingle returns true when exactly one row is selected
func (sel Selection) IsSingle() bool {
	return sel.Start >= 0 && sel.Start == sel.End
}

// Commands are actions a host offers on a results table: listing, point export, MSD export and plotting.
// Each instance is bound to one table.
type Commands struct {
	table    Table
	exporter *Exporter
	plotter  *Plotter
	logger   *zap.Logger
}

// CommandsOption configures Commands
type CommandsOption func(*Commands)

// WithCommandsLogger sets logger. Default is no-op logger
func WithCommandsLogger(logger *zap.Logger) CommandsOption {
	return func(commands *Commands) {
		commands.logger = logger
	}
}

// WithPlotter sets chart renderer. Default is NewPlotterDefault()
func WithPlotter(plotter *Plotter) CommandsOption {
	return func(commands *Commands) {
		commands.plotter = plotter
	}
}

// NewCommands creates commands for table
func NewCommands(table Table, exporter *Exporter, options ...CommandsOption) *Commands {
	commands := &Commands{
		table:    table,
		exporter: exporter,
		plotter:  NewPlotterDefault(),
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(commands)
	}
	return commands
}

// ListTrajectoriesInSelection resolves selected rows to trajectories in row order.
// Empty selection means every row of the table.
func (commands *Commands) ListTrajectoriesInSelection(sel Selection) ([]*Trajectory, error) {
	start, end := sel.Start, sel.End
	if sel.IsEmpty() {
		start, end = 0, commands.table.RowCount()-1
	}
	if start < 0 || end < start || end >= commands.table.RowCount() {
		return nil, errors.Wrapf(ErrNoSelection, "selection [%d, %d] doesn't match table of %d rows", sel.Start, sel.End, commands.table.RowCount())
	}
	tracks := make([]*Trajectory, 0, end-start+1)
	for row := start; row <= end; row++ {
		t, err := commands.table.TrajectoryAt(row)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't resolve row %d", row)
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// ExportAsPoints writes selected trajectories into point table.
// Path gets ".csv" extension if it has another one. Returns the path actually written
func (commands *Commands) ExportAsPoints(sel Selection, path string) (string, error) {
	tracks, err := commands.ListTrajectoriesInSelection(sel)
	if err != nil {
		return "", err
	}
	runID := uuid.New()
	path = WithCSVExtension(path)
	commands.logger.Info("Exporting trajectories",
		zap.String("run_id", runID.String()),
		zap.String("path", path),
		zap.Int("trajectories", len(tracks)),
	)
	if err := commands.exporter.ExportPoints(path, tracks); err != nil {
		return "", errors.Wrapf(err, "run %s", runID)
	}
	return path, nil
}

// ExportAsMSD writes one MSD table per selected trajectory. The result is a set of sibling
// files derived from path (see MSDFilename), returned in selection order
func (commands *Commands) ExportAsMSD(sel Selection, path string) ([]string, error) {
	tracks, err := commands.ListTrajectoriesInSelection(sel)
	if err != nil {
		return nil, err
	}
	runID := uuid.New()
	path = WithCSVExtension(path)
	commands.logger.Info("Exporting MSD tables",
		zap.String("run_id", runID.String()),
		zap.String("path", path),
		zap.Int("trajectories", len(tracks)),
	)
	files, err := commands.exporter.ExportMSD(path, tracks)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	return files, nil
}

// Plot renders trajectory chart and MSD chart of a single selected trajectory into dir.
// Returns paths of "trajectory-{id}.png" and "msd-{id}.png"
func (commands *Commands) Plot(sel Selection, dir string) ([]string, error) {
	if sel.IsEmpty() {
		return nil, ErrNoSelection
	}
	if !sel.IsSingle() {
		return nil, ErrMultipleSelection
	}
	tracks, err := commands.ListTrajectoriesInSelection(sel)
	if err != nil {
		return nil, err
	}
	t := tracks[0]
	runID := uuid.New()

	curve, err := commands.exporter.Builder().Build(t)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s", runID)
	}
	trajectoryChart, err := commands.plotter.TrajectoryChart(t)
	if err != nil {
		return nil, err
	}
	msdChart, err := commands.plotter.MSDChart(curve, commands.exporter.Builder().Settings().TimeLag)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, newIOError("mkdir", dir, err)
	}
	trajectoryPath := filepath.Join(dir, fmt.Sprintf("trajectory-%d.png", t.GetID()))
	if err := commands.plotter.Save(trajectoryChart, trajectoryPath); err != nil {
		return nil, err
	}
	msdPath := filepath.Join(dir, fmt.Sprintf("msd-%d.png", t.GetID()))
	if err := commands.plotter.Save(msdChart, msdPath); err != nil {
		os.Remove(trajectoryPath)
		return nil, err
	}
	commands.logger.Info("Trajectory plotted",
		zap.String("run_id", runID.String()),
		zap.Int("trajectory_id", t.GetID()),
		zap.Stringer("model", curve.Model),
		zap.String("dir", dir),
	)
	return []string{trajectoryPath, msdPath}, nil
}

// WithCSVExtension appends ".csv" unless path already ends with it (case-insensitive)
func WithCSVExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return path
	}
	return path + ".csv"
}
