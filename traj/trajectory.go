package traj

// Trajectory is an ordered sequence of 2D points with identifier and classification label
type Trajectory struct {
	id     int
	label  Label
	points []Point
}

// NewTrajectory creates empty trajectory. Points are appended via Add
func NewTrajectory(id int, label Label) *Trajectory {
	return &Trajectory{
		id:     id,
		label:  label,
		points: make([]Point, 0, 64),
	}
}

// NewTrajectoryFromPoints creates trajectory holding a copy of given points
func NewTrajectoryFromPoints(id int, label Label, points []Point) *Trajectory {
	t := &Trajectory{
		id:     id,
		label:  label,
		points: make([]Point, len(points)),
	}
	copy(t.points, points)
	return t
}

// Add appends point to the end of trajectory
func (t *Trajectory) Add(x, y float64) {
	t.points = append(t.points, Point{X: x, Y: y})
}

// GetID returns trajectory's identifier
func (t *Trajectory) GetID() int {
	return t.id
}

// GetLabel returns trajectory's classification label
func (t *Trajectory) GetLabel() Label {
	return t.label
}

// GetPoints returns trajectory's points. Be careful: this is not copy of points, but reference to them
func (t *Trajectory) GetPoints() []Point {
	return t.points
}

// Len returns number of points
func (t *Trajectory) Len() int {
	return len(t.points)
}

// MaxLag returns the largest lag used for MSD curves: floor(N/3)
func (t *Trajectory) MaxLag() int {
	return len(t.points) / 3
}

// TrajectoryByID returns first trajectory with given ID or nil
func TrajectoryByID(tracks []*Trajectory, id int) *Trajectory {
	for _, t := range tracks {
		if t != nil && t.id == id {
			return t
		}
	}
	return nil
}
