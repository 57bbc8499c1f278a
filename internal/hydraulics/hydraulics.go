// Package hydraulics provides the unit and physics primitives for
// first-order steady-state press hydraulics. All functions are pure;
// callers guarantee non-negative areas and positive efficiencies.
package hydraulics

import "math"

// Gravity is the standard gravitational acceleration, m/s².
const Gravity = 9.81

// AreaFromDiameter converts a diameter in mm to a circular cross-section
// area in m².
func AreaFromDiameter(diameterMm float64) float64 {
	d := diameterMm / 1000.0
	return math.Pi * d * d / 4.0
}

// ForceFromTonnes converts a mass in tonnes to its weight force in N.
func ForceFromTonnes(tonnes float64) float64 {
	return tonnes * 1000.0 * Gravity
}

// PressureBar returns the pressure in bar needed to support forceN on
// areaM2.
func PressureBar(forceN, areaM2 float64) float64 {
	return forceN / (areaM2 * 100000.0)
}

// FlowLpm returns the flow in L/min through areaM2 at velocityMs.
func FlowLpm(areaM2, velocityMs float64) float64 {
	return areaM2 * velocityMs * 60000.0
}

// PumpPowerKw returns the hydraulic power in kW for a pressure in bar and
// a flow in L/min.
func PumpPowerKw(pressureBar, flowLpm float64) float64 {
	return pressureBar * flowLpm / 600.0
}

// MotorPowerKw returns the electrical input power in kW for a given pump
// power and overall efficiency.
func MotorPowerKw(pumpPowerKw, efficiency float64) float64 {
	return pumpPowerKw / efficiency
}

// ActuatorPowerKw returns the mechanical output power in kW for a force
// in N moving at velocityMs.
func ActuatorPowerKw(forceN, velocityMs float64) float64 {
	return forceN * velocityMs / 1000.0
}

// ForceFromPressure returns the force in N a pressure in bar exerts on
// areaM2. Inverse of PressureBar; used by the log reconstruction path.
func ForceFromPressure(pressureBar, areaM2 float64) float64 {
	return pressureBar * 100000.0 * areaM2
}

// Geometry holds the derived cylinder cross sections, m². Computed once
// per parameter set. AnnularArea goes negative when the rod is larger
// than the bore; that is not validated here, and downstream pressures
// become nonsensical. Garbage in, garbage out.
type Geometry struct {
	BoreArea    float64
	RodArea     float64
	AnnularArea float64
}

// NewGeometry derives the cylinder areas from bore and rod diameters in mm.
func NewGeometry(boreDiameterMm, rodDiameterMm float64) Geometry {
	bore := AreaFromDiameter(boreDiameterMm)
	rod := AreaFromDiameter(rodDiameterMm)
	return Geometry{
		BoreArea:    bore,
		RodArea:     rod,
		AnnularArea: bore - rod,
	}
}
