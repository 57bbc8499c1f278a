package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/press-analyzer/backend/internal/models"
)

func pressParams() *models.MachineParameters {
	return &models.MachineParameters{
		CylinderBoreDiameter: 75,
		RodDiameter:          45,
		DeadLoadMass:         2.5,
		HoldingLoadMass:      8,
		MotorSpeed:           1800,
		PumpEfficiency:       0.9,
		ExtendFast:           models.PhaseSpec{Speed: 200, Stroke: 200, Time: 1.0},
		Work:                 models.PhaseSpec{Speed: 10, Stroke: 50, Time: 5.0},
		Hold:                 models.PhaseSpec{Speed: 0, Stroke: 0, Time: 2.0},
		RetractFast:          models.PhaseSpec{Speed: 250, Stroke: 250, Time: 1.0},
	}
}

func TestHandleSimulate(t *testing.T) {
	h := newTestHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/simulate", pressParams())

	require.NoError(t, h.HandleSimulate(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SimulationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Results)
	assert.NotEmpty(t, result.Series)
	assert.Greater(t, result.Results.PumpFlowRate, 0.0)
	assert.Greater(t, result.Results.MaxMotorPower, 0.0)

	maxPressure := result.Results.RequiredPressures.Work
	assert.InDelta(t, 1.2*maxPressure, result.Results.ReliefValveSetting, 1e-9)

	// The run is retained for the monitoring feed.
	require.NotNil(t, h.LatestResult())
	assert.Equal(t, len(result.Series), len(h.LatestResult().Series))
}

func TestHandleSimulate_InvalidParameters(t *testing.T) {
	params := pressParams()
	params.MotorSpeed = 0

	h := newTestHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/simulate", params)

	err := h.HandleSimulate(c)
	require.Error(t, err)

	ErrorHandler(err, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "motorSpeed")

	// A failed run must not leave stale results behind.
	assert.Nil(t, h.LatestResult())
}

func TestHandleSimulateExport(t *testing.T) {
	h := newTestHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/simulate/export", pressParams())

	require.NoError(t, h.HandleSimulateExport(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "time_s,position_mm"))
}

func TestHandleImportParameters(t *testing.T) {
	content := []byte("cylinderBoreDiameter;rodDiameter;motorSpeed;pumpEfficiency;work.speed;work.time\n75;45;1800;0.9;10;5\n")

	h := newTestHandler(t)
	c, rec := newMultipartContext(t, "/api/parameters/import", "params.csv", content)

	require.NoError(t, h.HandleImportParameters(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var params models.MachineParameters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &params))
	assert.Equal(t, 75.0, params.CylinderBoreDiameter)
	assert.Equal(t, 45.0, params.RodDiameter)
	assert.Equal(t, 1800.0, params.MotorSpeed)
	assert.Equal(t, 10.0, params.Work.Speed)
	assert.Equal(t, 5.0, params.Work.Time)
}

func TestHandleImportParameters_Unusable(t *testing.T) {
	h := newTestHandler(t)
	c, _ := newMultipartContext(t, "/api/parameters/import", "junk.csv", []byte("only one row\n"))

	err := h.HandleImportParameters(c)
	require.Error(t, err)

	var fmtErr *models.FormatError
	require.ErrorAs(t, err, &fmtErr)
}
