// Package models contains domain types for the Press Cycle Analyzer.
package models

// PhaseName identifies one of the four segments of a press duty cycle.
type PhaseName string

const (
	PhaseExtendFast  PhaseName = "extendFast"
	PhaseWork        PhaseName = "work"
	PhaseHold        PhaseName = "hold"
	PhaseRetractFast PhaseName = "retractFast"
)

// PhaseOrder is the fixed execution order of a duty cycle.
var PhaseOrder = []PhaseName{PhaseExtendFast, PhaseWork, PhaseHold, PhaseRetractFast}

// Label returns the human-readable phase name used on emitted samples.
func (p PhaseName) Label() string {
	switch p {
	case PhaseExtendFast:
		return "Fast Extend"
	case PhaseWork:
		return "Work"
	case PhaseHold:
		return "Hold"
	case PhaseRetractFast:
		return "Fast Retract"
	default:
		return string(p)
	}
}

// PhaseSpec describes one phase of the duty cycle.
type PhaseSpec struct {
	Speed  float64 `json:"speed"`  // mm/s
	Stroke float64 `json:"stroke"` // mm
	Time   float64 `json:"time"`   // s
}

// MachineParameters is the immutable input to a simulation run.
type MachineParameters struct {
	CylinderBoreDiameter float64 `json:"cylinderBoreDiameter"` // mm
	RodDiameter          float64 `json:"rodDiameter"`          // mm
	DeadLoadMass         float64 `json:"deadLoadMass"`         // tonne
	HoldingLoadMass      float64 `json:"holdingLoadMass"`      // tonne
	MotorSpeed           float64 `json:"motorSpeed"`           // rpm
	PumpEfficiency       float64 `json:"pumpEfficiency"`       // fraction (0,1]
	SystemLosses         float64 `json:"systemLosses"`         // bar, 0 means default

	ExtendFast  PhaseSpec `json:"extendFast"`
	Work        PhaseSpec `json:"work"`
	Hold        PhaseSpec `json:"hold"`
	RetractFast PhaseSpec `json:"retractFast"`
}

// DefaultSystemLosses is applied when SystemLosses is unset or zero.
const DefaultSystemLosses = 10.0

// Phase returns the PhaseSpec for a named phase.
func (m *MachineParameters) Phase(name PhaseName) PhaseSpec {
	switch name {
	case PhaseExtendFast:
		return m.ExtendFast
	case PhaseWork:
		return m.Work
	case PhaseHold:
		return m.Hold
	case PhaseRetractFast:
		return m.RetractFast
	default:
		return PhaseSpec{}
	}
}

// EffectiveSystemLosses returns SystemLosses with the default applied.
func (m *MachineParameters) EffectiveSystemLosses() float64 {
	if m.SystemLosses == 0 {
		return DefaultSystemLosses
	}
	return m.SystemLosses
}

// Validate checks the preconditions for a simulation run. It returns a
// *ValidationError describing the first violated precondition, or nil.
// No computation happens on invalid parameters; callers must not display
// stale results after a failure.
func (m *MachineParameters) Validate() error {
	if m.MotorSpeed <= 0 {
		return &ValidationError{Field: "motorSpeed", Reason: "must be greater than zero"}
	}
	if m.PumpEfficiency <= 0 || m.PumpEfficiency > 1 {
		return &ValidationError{Field: "pumpEfficiency", Reason: "must be in (0, 1]"}
	}
	return nil
}
