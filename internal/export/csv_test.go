package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/press-analyzer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	series := []models.SimulationSample{
		{Time: 0, Position: 0, Flow: 53.01, PressureCap: 65.5, PhaseLabel: "Fast Extend", MotorPower: 6.43},
		{Time: 0.25, Position: 50, Flow: 52.2, PressureCap: 66.1, PhaseLabel: "Fast Extend", MotorPower: 6.43},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, series))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "0.0000", records[1][0])
	assert.Equal(t, "Fast Extend", records[1][6])
	assert.Equal(t, "50.0000", records[2][1])
}

func TestWriteCSV_EmptySeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
