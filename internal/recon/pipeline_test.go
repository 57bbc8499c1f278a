package recon

import (
	"fmt"
	"testing"

	"github.com/press-analyzer/backend/internal/hydraulics"
	"github.com/press-analyzer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeometry() hydraulics.Geometry {
	return hydraulics.NewGeometry(75, 45)
}

func TestReconstruct_DataStartHeuristic(t *testing.T) {
	rows := [][]string{
		{"Machine", "HP-2000"},
		{"Exported", "2026-08-12"},
		{"time", "disp", "vel", "rodP", "capP"},
		{"0.0", "0", "0.1", "5", "80"},
		{"0.1", "10", "0.1", "5", "81"},
	}

	p := NewPipeline(testGeometry(), 0.9)
	res, err := p.Reconstruct(rows)
	require.NoError(t, err)

	assert.Equal(t, 3, res.SkippedRows)
	require.Len(t, res.Samples, 2)
	assert.Equal(t, 0.0, res.Samples[0].Time)
	assert.Equal(t, 0.1, res.Samples[1].Time)
}

func TestReconstruct_EmptyTable(t *testing.T) {
	p := NewPipeline(testGeometry(), 0.9)
	res, err := p.Reconstruct(nil)

	require.Error(t, err)
	var ferr *models.FormatError
	assert.ErrorAs(t, err, &ferr)
	assert.ErrorIs(t, err, models.ErrNoData)
	assert.Nil(t, res)
}

func TestReconstruct_NoNumericRow(t *testing.T) {
	rows := [][]string{
		{"header", "only"},
		{"still", "no", "numbers"},
	}

	p := NewPipeline(testGeometry(), 0.9)
	res, err := p.Reconstruct(rows)

	require.ErrorIs(t, err, models.ErrUnrecognizedFormat)
	assert.Nil(t, res)
}

func TestReconstruct_ZeroVelocityMeansZeroFlowAndPower(t *testing.T) {
	// No motion implies no flow and no output power, independent of the
	// recorded pressures.
	rows := make([][]string, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("%.1f", float64(i)*0.1), "50", "0", "120", "250",
		})
	}

	p := NewPipeline(testGeometry(), 0.9)
	res, err := p.Reconstruct(rows)
	require.NoError(t, err)

	for i, s := range res.Samples {
		assert.Zero(t, s.Flow, "sample %d", i)
		assert.Zero(t, s.ActuatorPower, "sample %d", i)
		assert.Zero(t, s.PumpInputPower, "sample %d", i)
		assert.Zero(t, s.MotorPower, "sample %d", i)
	}
}

func TestReconstruct_ChamberSelection(t *testing.T) {
	geom := testGeometry()
	rows := [][]string{
		{"0.0", "0", "0.2", "40", "90"},   // extending: cap side, bore area
		{"0.1", "20", "-0.2", "40", "90"}, // retracting: rod side, annular area
	}

	p := NewPipeline(geom, 0.9)
	res, err := p.Reconstruct(rows)
	require.NoError(t, err)
	require.Len(t, res.Samples, 2)

	ext, ret := res.Samples[0], res.Samples[1]

	assert.InDelta(t, geom.BoreArea*0.2*60000, ext.Flow, 1e-9)
	assert.InDelta(t, 90*ext.Flow/600, ext.PumpInputPower, 1e-9)
	assert.InDelta(t, 90*1e5*geom.BoreArea*0.2/1000, ext.ActuatorPower, 1e-9)

	assert.InDelta(t, geom.AnnularArea*0.2*60000, ret.Flow, 1e-9)
	assert.InDelta(t, 40*ret.Flow/600, ret.PumpInputPower, 1e-9)

	// Both raw pressures ride along unchanged on every sample.
	for _, s := range res.Samples {
		assert.Equal(t, 90.0, s.PressureCap)
		assert.Equal(t, 40.0, s.PressureRod)
		assert.Equal(t, models.SourceLoggedData, s.PhaseLabel)
	}
}

func TestReconstruct_CellCoercion(t *testing.T) {
	rows := [][]string{
		// Short row, garbage cells, extra columns past index 4.
		{"1.5"},
		{"2.0", "abc", "NaN", "", "75", "ignored", "also ignored"},
	}

	p := NewPipeline(testGeometry(), 0.9)
	res, err := p.Reconstruct(rows)
	require.NoError(t, err)
	require.Len(t, res.Samples, 2)

	first := res.Samples[0]
	assert.Equal(t, 1.5, first.Time)
	assert.Zero(t, first.Position)
	assert.Zero(t, first.Velocity)

	second := res.Samples[1]
	assert.Equal(t, 2.0, second.Time)
	assert.Zero(t, second.Position) // "abc" coerces to 0
	assert.Zero(t, second.Velocity) // NaN is not a finite value
	assert.Equal(t, 75.0, second.PressureCap)
}

func TestReconstruct_NegativeDisplacementClamped(t *testing.T) {
	rows := [][]string{{"0.0", "-15", "0.1", "5", "80"}}

	p := NewPipeline(testGeometry(), 0.9)
	res, err := p.Reconstruct(rows)
	require.NoError(t, err)
	assert.Zero(t, res.Samples[0].Position)
}

func TestReconstruct_AssumedEfficiency(t *testing.T) {
	rows := [][]string{{"0.0", "0", "0.2", "40", "90"}}

	def := NewPipeline(testGeometry(), 0)
	lossy := NewPipeline(testGeometry(), 0.5)

	a, err := def.Reconstruct(rows)
	require.NoError(t, err)
	b, err := lossy.Reconstruct(rows)
	require.NoError(t, err)

	assert.InDelta(t, a.Samples[0].PumpInputPower/DefaultAssumedPumpEfficiency,
		a.Samples[0].MotorPower, 1e-9)
	assert.InDelta(t, b.Samples[0].PumpInputPower/0.5, b.Samples[0].MotorPower, 1e-9)
}
