// Command trajexport imports a trajectory point table and runs export and plot commands on it.
//
// Example:
//
//	trajexport -in tracks.csv -timelag 0.033 -msd out/msd.csv -plot out/plots -ids 3,7
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/LdDl/traj-go/features"
	"github.com/LdDl/traj-go/traj"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	inputPath    = flag.String("in", "", "point table to import (ID,X,Y,CLASS)")
	settingsPath = flag.String("settings", "", "JSON settings file")
	timeLag      = flag.Float64("timelag", 0, "time between consecutive samples; overrides settings file")
	reduced      = flag.Bool("reduced", false, "fit confined motion with reduced model; overrides settings file")
	idsFlag      = flag.String("ids", "", "comma separated trajectory IDs to process (default all)")
	pointsPath   = flag.String("points", "", "write selected trajectories to this point table")
	msdPath      = flag.String("msd", "", "write one MSD table per selected trajectory next to this path")
	plotDir      = flag.String("plot", "", "render trajectory and MSD charts into this directory")
	debug        = flag.Bool("debug", false, "development logging")
)

func main() {
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("trajexport failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(logger *zap.Logger) error {
	if *inputPath == "" {
		return errors.New("-in is required")
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	tracks, err := traj.ImportPoints(*inputPath)
	if err != nil {
		return errors.Wrap(err, "Can't import trajectories")
	}
	logger.Info("Trajectories imported", zap.String("path", *inputPath), zap.Int("trajectories", len(tracks)))

	selected, err := selectTrajectories(tracks, *idsFlag)
	if err != nil {
		return err
	}

	builder, err := traj.NewCurveBuilder(settings, features.Default(), traj.WithBuilderLogger(logger))
	if err != nil {
		return err
	}
	exporter := traj.NewExporter(builder, traj.WithExporterLogger(logger))
	commands := traj.NewCommands(traj.NewRowTable(selected), exporter, traj.WithCommandsLogger(logger))

	if *pointsPath != "" {
		path, err := commands.ExportAsPoints(traj.NoSelection, *pointsPath)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	if *msdPath != "" {
		files, err := commands.ExportAsMSD(traj.NoSelection, *msdPath)
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Println(file)
		}
	}
	if *plotDir != "" {
		for row := range selected {
			files, err := commands.Plot(traj.SelectRow(row), *plotDir)
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Println(file)
			}
		}
	}
	return nil
}

// loadSettings reads settings file (if any) and applies flags that were set explicitly
func loadSettings() (traj.Settings, error) {
	settings := traj.DefaultSettings()
	if *settingsPath != "" {
		loaded, err := traj.LoadSettings(*settingsPath)
		if err != nil {
			return traj.Settings{}, err
		}
		settings = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timelag":
			settings.TimeLag = *timeLag
		case "reduced":
			settings.UseReducedConfinedModel = *reduced
		}
	})
	return settings, settings.Validate()
}

// selectTrajectories keeps trajectories with listed IDs in listed order; every run of a repeated ID
// is kept. Empty list keeps all
func selectTrajectories(tracks []*traj.Trajectory, ids string) ([]*traj.Trajectory, error) {
	if strings.TrimSpace(ids) == "" {
		return tracks, nil
	}
	selected := make([]*traj.Trajectory, 0)
	for _, field := range strings.Split(ids, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse trajectory ID %q", field)
		}
		found := false
		for _, t := range tracks {
			if t.GetID() == id {
				selected = append(selected, t)
				found = true
			}
		}
		if !found {
			return nil, errors.Wrapf(traj.ErrUnknownTrajectory, "trajectory %d", id)
		}
	}
	return selected, nil
}
