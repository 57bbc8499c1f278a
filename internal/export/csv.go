// Package export renders sample series for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/press-analyzer/backend/internal/models"
)

// csvHeader names the columns of an exported series. Consumers format
// fields by name and unit suffix; the order and spelling are stable.
var csvHeader = []string{
	"time_s", "position_mm", "velocity_ms", "flow_lpm",
	"pressure_cap_bar", "pressure_rod_bar", "phase",
	"motor_power_kw", "actuator_power_kw", "pump_input_power_kw",
}

// WriteCSV streams a sample series as CSV.
func WriteCSV(w io.Writer, series []models.SimulationSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	record := make([]string, len(csvHeader))
	for _, s := range series {
		record[0] = formatFloat(s.Time)
		record[1] = formatFloat(s.Position)
		record[2] = formatFloat(s.Velocity)
		record[3] = formatFloat(s.Flow)
		record[4] = formatFloat(s.PressureCap)
		record[5] = formatFloat(s.PressureRod)
		record[6] = s.PhaseLabel
		record[7] = formatFloat(s.MotorPower)
		record[8] = formatFloat(s.ActuatorPower)
		record[9] = formatFloat(s.PumpInputPower)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
