package models

import "time"

// SensorData is the monitoring-dashboard schema. It is deliberately
// disjoint from SimulationSample: the dashboard surface consumes coarse
// machine health frames, not the simulation time series.
type SensorData struct {
	Timestamp   time.Time `json:"timestamp"`
	Stroke      float64   `json:"stroke"`      // mm
	Pressure    float64   `json:"pressure"`    // bar
	Temperature float64   `json:"temperature"` // °C
	Vibration   float64   `json:"vibration"`   // mm/s RMS
	Status      string    `json:"status"`
}
