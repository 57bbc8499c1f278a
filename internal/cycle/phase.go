// Package cycle implements the four-phase press duty-cycle model and the
// simulator that turns machine parameters into a sample time series.
package cycle

import (
	"github.com/press-analyzer/backend/internal/hydraulics"
	"github.com/press-analyzer/backend/internal/models"
)

// ReliefValveMargin is the conventional safety margin over the maximum
// working pressure. A domain convention, not a tunable.
const ReliefValveMargin = 1.2

// PhaseComputed holds the steady-state targets for one phase.
type PhaseComputed struct {
	Name             models.PhaseName
	RequiredPressure float64 // bar, includes system losses
	Flow             float64 // L/min
	MotorPower       float64 // kW
	ActuatorPower    float64 // kW
	IdealPumpPower   float64 // kW
}

// Phases holds the computed targets for the full cycle, in execution order.
type Phases struct {
	ByName map[models.PhaseName]PhaseComputed
	Geom   hydraulics.Geometry
}

// ComputePhases derives per-phase pressure, flow and power targets from
// validated machine parameters. Extend and work phases act on the bore
// area, retract on the annular area; extend/retract carry the dead load,
// work and hold the holding load. The hold phase keeps the work pressure
// with zero flow and zero power.
func ComputePhases(params *models.MachineParameters) Phases {
	geom := hydraulics.NewGeometry(params.CylinderBoreDiameter, params.RodDiameter)
	losses := params.EffectiveSystemLosses()
	deadForce := hydraulics.ForceFromTonnes(params.DeadLoadMass)
	holdForce := hydraulics.ForceFromTonnes(params.HoldingLoadMass)

	byName := make(map[models.PhaseName]PhaseComputed, len(models.PhaseOrder))

	compute := func(name models.PhaseName, force, area float64) PhaseComputed {
		spec := params.Phase(name)
		speedMs := spec.Speed / 1000.0
		pressure := hydraulics.PressureBar(force, area) + losses
		flow := hydraulics.FlowLpm(area, speedMs)
		ideal := hydraulics.PumpPowerKw(pressure, flow)
		return PhaseComputed{
			Name:             name,
			RequiredPressure: pressure,
			Flow:             flow,
			MotorPower:       hydraulics.MotorPowerKw(ideal, params.PumpEfficiency),
			ActuatorPower:    hydraulics.ActuatorPowerKw(force, speedMs),
			IdealPumpPower:   ideal,
		}
	}

	byName[models.PhaseExtendFast] = compute(models.PhaseExtendFast, deadForce, geom.BoreArea)
	work := compute(models.PhaseWork, holdForce, geom.BoreArea)
	byName[models.PhaseWork] = work

	// Hold keeps the work pressure; nothing moves, nothing is pumped.
	byName[models.PhaseHold] = PhaseComputed{
		Name:             models.PhaseHold,
		RequiredPressure: work.RequiredPressure,
	}

	byName[models.PhaseRetractFast] = compute(models.PhaseRetractFast, deadForce, geom.AnnularArea)

	return Phases{ByName: byName, Geom: geom}
}

// MaxWorkingPressure returns the maximum required pressure across all
// four phases, bar.
func (p Phases) MaxWorkingPressure() float64 {
	max := 0.0
	for _, pc := range p.ByName {
		if pc.RequiredPressure > max {
			max = pc.RequiredPressure
		}
	}
	return max
}

// ReliefValveSetting returns the relief valve pressure, bar.
func (p Phases) ReliefValveSetting() float64 {
	return p.MaxWorkingPressure() * ReliefValveMargin
}

// Summary aggregates the phase targets into the run's ResultsSummary.
func (p Phases) Summary(params *models.MachineParameters) *models.ResultsSummary {
	maxFlow := 0.0
	maxMotor := 0.0
	perPhase := make(map[string]float64, len(models.PhaseOrder))
	total := 0.0

	for _, name := range models.PhaseOrder {
		pc := p.ByName[name]
		if pc.Flow > maxFlow {
			maxFlow = pc.Flow
		}
		if pc.MotorPower > maxMotor {
			maxMotor = pc.MotorPower
		}
		energy := pc.MotorPower * params.Phase(name).Time / 3600.0
		perPhase[string(name)] = energy
		total += energy
	}

	return &models.ResultsSummary{
		PumpFlowRate:     maxFlow,
		PumpDisplacement: maxFlow * 1000.0 / params.MotorSpeed,
		CylinderAreas: models.CylinderAreas{
			Bore:    p.Geom.BoreArea * 1e4,
			Rod:     p.Geom.RodArea * 1e4,
			Annular: p.Geom.AnnularArea * 1e4,
		},
		RequiredPressures: models.PhasePressures{
			ExtendFast:  p.ByName[models.PhaseExtendFast].RequiredPressure,
			Work:        p.ByName[models.PhaseWork].RequiredPressure,
			Hold:        p.ByName[models.PhaseHold].RequiredPressure,
			RetractFast: p.ByName[models.PhaseRetractFast].RequiredPressure,
		},
		MaxMotorPower:      maxMotor,
		ReliefValveSetting: p.ReliefValveSetting(),
		EnergyConsumption: models.EnergyConsumption{
			Total:    total,
			PerPhase: perPhase,
		},
	}
}
