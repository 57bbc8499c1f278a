package cycle

import (
	"math"

	"github.com/press-analyzer/backend/internal/hydraulics"
	"github.com/press-analyzer/backend/internal/models"
)

// Config tunes the simulator's sampling. The defaults reproduce the
// canonical output; they exist because historical revisions of the tool
// differed only in these constants.
type Config struct {
	// StepSeconds is the fixed sub-step within a phase.
	StepSeconds float64
	// VariationAmplitude scales the parabola-shaped micro-variation
	// applied to pressure and flow so plotted plateaus are not perfectly
	// flat. Cosmetic, deterministic, not a physical effect.
	VariationAmplitude float64
}

// DefaultConfig returns the canonical sampling configuration.
func DefaultConfig() Config {
	return Config{
		StepSeconds:        0.25,
		VariationAmplitude: 0.02,
	}
}

// Simulator walks the four phases in fixed order and emits one sample per
// sub-step. A Simulator is stateless between runs; recomputing from the
// same parameters yields identical output.
type Simulator struct {
	cfg Config
}

// New creates a Simulator. Zero config fields fall back to the defaults.
func New(cfg Config) *Simulator {
	def := DefaultConfig()
	if cfg.StepSeconds <= 0 {
		cfg.StepSeconds = def.StepSeconds
	}
	if cfg.VariationAmplitude == 0 {
		cfg.VariationAmplitude = def.VariationAmplitude
	}
	return &Simulator{cfg: cfg}
}

// cursor is the accumulator carried across phases. It is a value; each
// phase step returns a new cursor rather than mutating shared state.
type cursor struct {
	time     float64 // s since cycle start
	position float64 // mm, clamped >= 0
}

// advance returns the cursor for the start of the next phase. The
// position moves by the phase's declared stroke, not the locally
// integrated speed*time; the two can disagree and both behaviors are
// kept (integrated position within a phase, declared stroke at the
// boundary).
func (c cursor) advance(spec models.PhaseSpec, retracting bool) cursor {
	delta := spec.Stroke
	if retracting {
		delta = -delta
	}
	next := cursor{time: c.time + spec.Time, position: c.position + delta}
	if next.position < 0 {
		next.position = 0
	}
	return next
}

// Run validates the parameters, simulates the duty cycle and returns the
// sample series plus the aggregate summary. On a validation failure no
// sample and no summary is produced.
func (s *Simulator) Run(params *models.MachineParameters) (*models.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	phases := ComputePhases(params)
	series := make([]models.SimulationSample, 0, s.estimateSamples(params))

	cur := cursor{}
	for _, name := range models.PhaseOrder {
		spec := params.Phase(name)
		series = s.appendPhase(series, cur, name, spec, phases.ByName[name])
		cur = cur.advance(spec, name == models.PhaseRetractFast)
	}

	return &models.SimulationResult{
		Results: phases.Summary(params),
		Series:  series,
	}, nil
}

// appendPhase emits the samples for one phase starting at cursor cur.
func (s *Simulator) appendPhase(series []models.SimulationSample, cur cursor, name models.PhaseName, spec models.PhaseSpec, pc PhaseComputed) []models.SimulationSample {
	retracting := name == models.PhaseRetractFast
	dir := 1.0
	if retracting {
		dir = -1.0
	}

	steps := 0
	if spec.Time > 0 {
		steps = int(math.Ceil(spec.Time / s.cfg.StepSeconds))
	}
	// A zero-duration phase still contributes exactly one boundary sample
	// at progress 0.
	for i := 0; i <= steps; i++ {
		localTime := float64(i) * s.cfg.StepSeconds
		if localTime > spec.Time {
			// Only the final boundary sample at the declared duration is
			// kept; the grid must not overshoot the phase.
			localTime = spec.Time
		}

		progress := 0.0
		if spec.Time > 0 {
			progress = localTime / spec.Time
			if progress > 1 {
				progress = 1
			}
		}
		curve := 4 * progress * (1 - progress)

		pressure := pc.RequiredPressure * (1 + s.cfg.VariationAmplitude*curve)
		flow := pc.Flow * (1 - s.cfg.VariationAmplitude*curve)

		position := cur.position + dir*spec.Speed*localTime
		if position < 0 {
			position = 0
		}

		sample := models.SimulationSample{
			Time:                  cur.time + localTime,
			Position:              position,
			Velocity:              dir * spec.Speed / 1000.0,
			Flow:                  flow,
			PhaseLabel:            name.Label(),
			MotorPower:            pc.MotorPower,
			ActuatorPower:         pc.ActuatorPower,
			PumpInputPower:        hydraulics.PumpPowerKw(pressure, flow),
			ActualMotorInputPower: pc.MotorPower,
			ActuatorOutputPower:   pc.ActuatorPower,
			IdealMotorInputPower:  pc.IdealPumpPower,
		}
		if retracting {
			sample.PressureRod = pressure
		} else {
			sample.PressureCap = pressure
		}
		series = append(series, sample)
	}
	return series
}

func (s *Simulator) estimateSamples(params *models.MachineParameters) int {
	n := 0
	for _, name := range models.PhaseOrder {
		t := params.Phase(name).Time
		if t > 0 {
			n += int(math.Ceil(t/s.cfg.StepSeconds)) + 1
		} else {
			n++
		}
	}
	return n
}
