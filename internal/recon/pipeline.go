// Package recon reconstructs simulation-shaped time series from raw
// sensor log tables using area-based hydraulics.
package recon

import (
	"math"
	"strconv"

	"github.com/press-analyzer/backend/internal/hydraulics"
	"github.com/press-analyzer/backend/internal/models"
)

// DefaultAssumedPumpEfficiency is used to derive motor power from logged
// data. The source machine's real efficiency is unknown from the file
// alone; this is an approximation, not a measured value.
const DefaultAssumedPumpEfficiency = 0.9

// Columns are positional: {time, displacement, velocity, rodPressure,
// capPressure}. Anything beyond column 4 is ignored.
const (
	colTime = iota
	colDisplacement
	colVelocity
	colRodPressure
	colCapPressure
	columnCount
)

// Pipeline converts raw row tables into sample series. One Pipeline is
// bound to a cylinder geometry and an assumed pump efficiency.
type Pipeline struct {
	geom       hydraulics.Geometry
	efficiency float64
}

// NewPipeline creates a reconstruction pipeline. A non-positive
// efficiency falls back to the default assumption.
func NewPipeline(geom hydraulics.Geometry, assumedPumpEfficiency float64) *Pipeline {
	if assumedPumpEfficiency <= 0 {
		assumedPumpEfficiency = DefaultAssumedPumpEfficiency
	}
	return &Pipeline{geom: geom, efficiency: assumedPumpEfficiency}
}

// Result is a reconstructed series plus bookkeeping about the scan.
type Result struct {
	Samples     []models.SimulationSample
	SkippedRows int // metadata rows discarded before the data start
}

// Reconstruct turns an ordered table of string cells into a sample
// series. It locates the first data row (the first row whose leading
// cell parses as a finite number) and treats everything from there to
// the end as data; rows before it are metadata. Missing or non-numeric
// cells within data rows coerce to zero.
//
// Returns models.ErrNoData for an empty table and
// models.ErrUnrecognizedFormat when no row leads with a number. The
// heuristic can mis-split files whose metadata happens to lead with a
// numeric-looking token; that is accepted.
func (p *Pipeline) Reconstruct(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, models.ErrNoData
	}

	start := -1
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if v, err := strconv.ParseFloat(row[0], 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, models.ErrUnrecognizedFormat
	}

	data := rows[start:]
	samples := make([]models.SimulationSample, 0, len(data))
	for _, row := range data {
		samples = append(samples, p.sampleFromRow(row))
	}

	return &Result{Samples: samples, SkippedRows: start}, nil
}

// sampleFromRow derives flow, force and power for one logged row. The
// sign of the velocity selects the active chamber: extending works
// against the cap side over the bore area, retracting against the rod
// side over the annular area.
func (p *Pipeline) sampleFromRow(row []string) models.SimulationSample {
	var cells [columnCount]float64
	for i := 0; i < columnCount && i < len(row); i++ {
		cells[i] = coerce(row[i])
	}

	velocity := cells[colVelocity]
	extending := velocity >= 0
	speed := math.Abs(velocity)

	area := p.geom.BoreArea
	pressure := cells[colCapPressure]
	if !extending {
		area = p.geom.AnnularArea
		pressure = cells[colRodPressure]
	}

	flow := hydraulics.FlowLpm(area, speed)
	force := hydraulics.ForceFromPressure(pressure, area)
	actuatorPower := hydraulics.ActuatorPowerKw(force, speed)
	pumpInput := hydraulics.PumpPowerKw(pressure, flow)
	motorPower := hydraulics.MotorPowerKw(pumpInput, p.efficiency)

	position := cells[colDisplacement]
	if position < 0 {
		position = 0
	}

	return models.SimulationSample{
		Time:                  cells[colTime],
		Position:              position,
		Velocity:              velocity,
		Flow:                  flow,
		PressureCap:           cells[colCapPressure],
		PressureRod:           cells[colRodPressure],
		PhaseLabel:            models.SourceLoggedData,
		MotorPower:            motorPower,
		ActuatorPower:         actuatorPower,
		PumpInputPower:        pumpInput,
		ActualMotorInputPower: motorPower,
		ActuatorOutputPower:   actuatorPower,
		IdealMotorInputPower:  pumpInput,
	}
}

// coerce parses a cell as float64, mapping anything unparseable or
// non-finite to zero.
func coerce(cell string) float64 {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
