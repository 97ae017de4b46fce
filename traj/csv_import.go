package traj

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadPoints parses point table written by WritePoints.
// First row is a header and is skipped. Consecutive rows sharing an ID form one trajectory;
// the label is taken from the first row of the run. A row whose ID differs from the previous
// row starts a new trajectory even if that ID was seen before.
// Any malformed row aborts parsing with ParseError.
func ReadPoints(r io.Reader) ([]*Trajectory, error) {
	return readPoints(r, streamName)
}

func readPoints(r io.Reader, name string) ([]*Trajectory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	tracks := make([]*Trajectory, 0)
	var current *Trajectory
	headerSkipped := false
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, newIOError("read", name, err)
		}
		if !headerSkipped {
			headerSkipped = true
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) < len(pointsHeader) {
			return nil, &ParseError{Line: line, Err: errors.Errorf("expected %d fields, got %d", len(pointsHeader), len(record))}
		}
		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, &ParseError{Line: line, Field: pointsHeader[0], Value: record[0], Err: err}
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Field: pointsHeader[1], Value: record[1], Err: err}
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Field: pointsHeader[2], Value: record[2], Err: err}
		}
		if current == nil || current.GetID() != id {
			current = NewTrajectory(id, Label(record[3]))
			tracks = append(tracks, current)
		}
		current.Add(x, y)
	}
	return tracks, nil
}

// ImportPoints reads point table file
func ImportPoints(path string) ([]*Trajectory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newIOError("open", path, err)
	}
	defer file.Close()
	return readPoints(bufio.NewReader(file), path)
}
