package cycle

import (
	"math"
	"testing"

	"github.com/press-analyzer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceParams is the 75/45mm reference press used across the tests.
func referenceParams() *models.MachineParameters {
	return &models.MachineParameters{
		CylinderBoreDiameter: 75,
		RodDiameter:          45,
		DeadLoadMass:         2.5,
		HoldingLoadMass:      8,
		MotorSpeed:           1800,
		PumpEfficiency:       0.9,
		SystemLosses:         10,
		ExtendFast:           models.PhaseSpec{Speed: 200, Stroke: 200, Time: 1},
		Work:                 models.PhaseSpec{Speed: 10, Stroke: 50, Time: 5},
		Hold:                 models.PhaseSpec{Speed: 0, Stroke: 0, Time: 2},
		RetractFast:          models.PhaseSpec{Speed: 200, Stroke: 250, Time: 1.25},
	}
}

func TestRun_ReferenceScenario(t *testing.T) {
	sim := New(DefaultConfig())
	res, err := sim.Run(referenceParams())
	require.NoError(t, err)
	require.NotNil(t, res.Results)
	require.NotEmpty(t, res.Series)

	sum := res.Results
	assert.InDelta(t, 44.18, sum.CylinderAreas.Bore, 0.01)
	assert.InDelta(t, 15.90, sum.CylinderAreas.Rod, 0.01)
	assert.InDelta(t, 28.27, sum.CylinderAreas.Annular, 0.01)

	// Every summary quantity is strictly positive and finite.
	for name, v := range map[string]float64{
		"pumpFlowRate":       sum.PumpFlowRate,
		"pumpDisplacement":   sum.PumpDisplacement,
		"maxMotorPower":      sum.MaxMotorPower,
		"reliefValveSetting": sum.ReliefValveSetting,
		"totalEnergy":        sum.EnergyConsumption.Total,
	} {
		assert.Greater(t, v, 0.0, name)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), name)
	}
}

func TestRun_TimeNonDecreasingFromZero(t *testing.T) {
	sim := New(DefaultConfig())
	res, err := sim.Run(referenceParams())
	require.NoError(t, err)

	require.NotEmpty(t, res.Series)
	assert.Zero(t, res.Series[0].Time)
	for i := 1; i < len(res.Series); i++ {
		assert.GreaterOrEqual(t, res.Series[i].Time, res.Series[i-1].Time,
			"sample %d", i)
	}
}

func TestRun_Idempotent(t *testing.T) {
	sim := New(DefaultConfig())
	first, err := sim.Run(referenceParams())
	require.NoError(t, err)
	second, err := sim.Run(referenceParams())
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.Series, second.Series)
}

func TestRun_PositionNeverNegative(t *testing.T) {
	params := referenceParams()
	// Retract further than the cycle ever extended; the clamp must hold.
	params.RetractFast = models.PhaseSpec{Speed: 500, Stroke: 900, Time: 2}

	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	for i, s := range res.Series {
		assert.GreaterOrEqual(t, s.Position, 0.0, "sample %d", i)
	}
}

func TestRun_PumpSizingInvariants(t *testing.T) {
	params := referenceParams()
	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	phases := ComputePhases(params)
	maxFlow := math.Max(phases.ByName[models.PhaseExtendFast].Flow,
		math.Max(phases.ByName[models.PhaseWork].Flow,
			phases.ByName[models.PhaseRetractFast].Flow))

	assert.InDelta(t, maxFlow, res.Results.PumpFlowRate, 1e-9)
	assert.InDelta(t, maxFlow*1000/params.MotorSpeed, res.Results.PumpDisplacement, 1e-9)
	assert.Zero(t, phases.ByName[models.PhaseHold].Flow)
}

func TestRun_ReliefValveSetting(t *testing.T) {
	params := referenceParams()
	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	phases := ComputePhases(params)
	maxP := 0.0
	for _, name := range models.PhaseOrder {
		if p := phases.ByName[name].RequiredPressure; p > maxP {
			maxP = p
		}
	}
	assert.InDelta(t, maxP*1.2, res.Results.ReliefValveSetting, 1e-9)
}

func TestRun_ZeroDurationPhase(t *testing.T) {
	params := referenceParams()
	params.Hold = models.PhaseSpec{}

	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	var holdSamples []models.SimulationSample
	for _, s := range res.Series {
		if s.PhaseLabel == models.PhaseHold.Label() {
			holdSamples = append(holdSamples, s)
		}
	}
	require.Len(t, holdSamples, 1)

	// The zero-duration phase must not advance cumulative time: the
	// retract phase starts at the same instant the work phase ended.
	workEnd := params.ExtendFast.Time + params.Work.Time
	assert.InDelta(t, workEnd, holdSamples[0].Time, 1e-9)

	// Hold carries no flow and no power regardless of duration.
	assert.Zero(t, holdSamples[0].Flow)
	assert.Zero(t, holdSamples[0].MotorPower)
	assert.Zero(t, holdSamples[0].ActuatorPower)
}

func TestRun_StrokeAndIntegratedPositionDiverge(t *testing.T) {
	// speed*time (100mm) deliberately disagrees with the declared stroke
	// (200mm). Within the phase the position integrates speed; at the
	// boundary the accumulator jumps by the declared stroke.
	params := referenceParams()
	params.ExtendFast = models.PhaseSpec{Speed: 100, Stroke: 200, Time: 1}

	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	var lastExtend, firstWork *models.SimulationSample
	for i := range res.Series {
		s := &res.Series[i]
		switch s.PhaseLabel {
		case models.PhaseExtendFast.Label():
			lastExtend = s
		case models.PhaseWork.Label():
			if firstWork == nil {
				firstWork = s
			}
		}
	}
	require.NotNil(t, lastExtend)
	require.NotNil(t, firstWork)

	assert.InDelta(t, 100, lastExtend.Position, 1e-9)
	assert.InDelta(t, 200, firstWork.Position, 1e-9)
}

func TestRun_PhaseGridDoesNotOvershootDuration(t *testing.T) {
	// 1.1s is not divisible by the 0.25s step; the last sample must sit
	// exactly on the phase boundary.
	params := referenceParams()
	params.Work = models.PhaseSpec{Speed: 10, Stroke: 11, Time: 1.1}

	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	var workTimes []float64
	for _, s := range res.Series {
		if s.PhaseLabel == models.PhaseWork.Label() {
			workTimes = append(workTimes, s.Time)
		}
	}
	require.NotEmpty(t, workTimes)
	phaseStart := params.ExtendFast.Time
	assert.InDelta(t, phaseStart+1.1, workTimes[len(workTimes)-1], 1e-9)
	for _, wt := range workTimes {
		assert.LessOrEqual(t, wt, phaseStart+1.1+1e-9)
	}
}

func TestRun_MicroVariationShape(t *testing.T) {
	params := referenceParams()
	sim := New(DefaultConfig())
	res, err := sim.Run(params)
	require.NoError(t, err)

	phases := ComputePhases(params)
	base := phases.ByName[models.PhaseWork]

	for _, s := range res.Series {
		if s.PhaseLabel != models.PhaseWork.Label() {
			continue
		}
		// Pressure bulges up to +2%, flow dips down to -2%.
		assert.GreaterOrEqual(t, s.PressureCap, base.RequiredPressure-1e-9)
		assert.LessOrEqual(t, s.PressureCap, base.RequiredPressure*1.02+1e-9)
		assert.LessOrEqual(t, s.Flow, base.Flow+1e-9)
		assert.GreaterOrEqual(t, s.Flow, base.Flow*0.98-1e-9)

		// Power constants are copied verbatim; only pumpInputPower tracks
		// the varied pair.
		assert.Equal(t, base.MotorPower, s.MotorPower)
		assert.Equal(t, base.ActuatorPower, s.ActuatorPower)
		assert.InDelta(t, s.PressureCap*s.Flow/600, s.PumpInputPower, 1e-9)
	}
}

func TestRun_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.MachineParameters)
	}{
		{"zero motor speed", func(p *models.MachineParameters) { p.MotorSpeed = 0 }},
		{"negative motor speed", func(p *models.MachineParameters) { p.MotorSpeed = -100 }},
		{"efficiency above one", func(p *models.MachineParameters) { p.PumpEfficiency = 1.5 }},
		{"zero efficiency", func(p *models.MachineParameters) { p.PumpEfficiency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := referenceParams()
			tt.mutate(params)

			sim := New(DefaultConfig())
			res, err := sim.Run(params)

			require.Error(t, err)
			var verr *models.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Nil(t, res, "no partial output on validation failure")
		})
	}
}

func TestComputePhases_ChamberAndLoadSelection(t *testing.T) {
	params := referenceParams()
	phases := ComputePhases(params)

	extend := phases.ByName[models.PhaseExtendFast]
	work := phases.ByName[models.PhaseWork]
	hold := phases.ByName[models.PhaseHold]
	retract := phases.ByName[models.PhaseRetractFast]

	// Work carries the heavier holding load on the same bore area, so it
	// needs more pressure than the extend phase.
	assert.Greater(t, work.RequiredPressure, extend.RequiredPressure)

	// Retract pushes the dead load over the smaller annular area, so it
	// needs more pressure than extend does over the bore.
	assert.Greater(t, retract.RequiredPressure, extend.RequiredPressure)

	// Hold mirrors the work pressure exactly, with nothing pumped.
	assert.Equal(t, work.RequiredPressure, hold.RequiredPressure)
	assert.Zero(t, hold.Flow)
	assert.Zero(t, hold.MotorPower)
	assert.Zero(t, hold.IdealPumpPower)

	// Unset system losses fall back to the 10 bar default.
	unset := *params
	unset.SystemLosses = 0
	assert.InDelta(t, models.DefaultSystemLosses, unset.EffectiveSystemLosses(), 1e-9)
}

func TestDefaultConfigApplied(t *testing.T) {
	sim := New(Config{})
	assert.Equal(t, DefaultConfig(), sim.cfg)
}
