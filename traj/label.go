package traj

// Label is a diffusion mode assigned to a trajectory by the classifier.
// Any string is a valid label; only the four below select a motion model.
type Label string

const (
	LabelSubdiffusion    Label = "SUBDIFFUSION"
	LabelConfined        Label = "CONFINED"
	LabelNormalDiffusion Label = "NORM. DIFFUSION"
	LabelDirected        Label = "DIRECTED/ACTIVE"
	// LabelNone is used for trajectories the classifier did not label
	LabelNone Label = "NONE"
)

// MotionModel is the MSD functional form fitted for a label
type MotionModel uint16

const (
	ModelNone MotionModel = iota
	ModelPowerLaw
	ModelConfined
	ModelFreeDiffusion
	ModelActiveTransport
)

// Model returns motion model associated with label. ModelNone for unknown labels
func (label Label) Model() MotionModel {
	switch label {
	case LabelSubdiffusion:
		return ModelPowerLaw
	case LabelConfined:
		return ModelConfined
	case LabelNormalDiffusion:
		return ModelFreeDiffusion
	case LabelDirected:
		return ModelActiveTransport
	default:
		return ModelNone
	}
}

func (model MotionModel) String() string {
	switch model {
	case ModelPowerLaw:
		return "power-law"
	case ModelConfined:
		return "confined"
	case ModelFreeDiffusion:
		return "free-diffusion"
	case ModelActiveTransport:
		return "active-transport"
	default:
		return "none"
	}
}
