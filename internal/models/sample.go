package models

// SourceLoggedData is the phase label on samples reconstructed from an
// uploaded log file. No phase inference is attempted from file contents.
const SourceLoggedData = "Logged Data"

// SimulationSample is one row of an output time series. Samples are
// produced once, by the simulator or the reconstruction pipeline, and are
// immutable afterward; both producers emit the same shape so downstream
// consumers are interchangeable.
type SimulationSample struct {
	Time        float64 `json:"time" msgpack:"t"`         // s, non-decreasing from 0
	Position    float64 `json:"position" msgpack:"x"`     // mm, clamped >= 0
	Velocity    float64 `json:"velocity" msgpack:"v"`     // m/s, signed
	Flow        float64 `json:"flow" msgpack:"q"`         // L/min
	PressureCap float64 `json:"pressureCap" msgpack:"pc"` // bar
	PressureRod float64 `json:"pressureRod" msgpack:"pr"` // bar
	PhaseLabel  string  `json:"phaseLabel" msgpack:"ph"`

	MotorPower            float64 `json:"motorPower" msgpack:"pm"`             // kW
	ActuatorPower         float64 `json:"actuatorPower" msgpack:"pa"`          // kW
	PumpInputPower        float64 `json:"pumpInputPower" msgpack:"pp"`         // kW, per-sample from varied pressure/flow
	ActualMotorInputPower float64 `json:"actualMotorInputPower" msgpack:"pam"` // kW
	ActuatorOutputPower   float64 `json:"actuatorOutputPower" msgpack:"pao"`   // kW
	IdealMotorInputPower  float64 `json:"idealMotorInputPower" msgpack:"pim"`  // kW
}

// CylinderAreas holds the derived cylinder cross sections in cm², the
// display unit used by the results surface.
type CylinderAreas struct {
	Bore    float64 `json:"bore"`
	Rod     float64 `json:"rod"`
	Annular float64 `json:"annular"`
}

// PhasePressures holds the required pressure per phase, bar.
type PhasePressures struct {
	ExtendFast  float64 `json:"extendFast"`
	Work        float64 `json:"work"`
	Hold        float64 `json:"hold"`
	RetractFast float64 `json:"retractFast"`
}

// EnergyConsumption is the per-run energy breakdown, kWh.
type EnergyConsumption struct {
	Total    float64            `json:"total"`
	PerPhase map[string]float64 `json:"perPhase"`
}

// ResultsSummary is the aggregate outcome of one simulation run. Derived
// once per run; immutable. The reconstruction path produces no summary.
type ResultsSummary struct {
	PumpFlowRate       float64           `json:"pumpFlowRate"`       // L/min, max across phase flows
	PumpDisplacement   float64           `json:"pumpDisplacement"`   // cc/rev
	CylinderAreas      CylinderAreas     `json:"cylinderAreas"`      // cm²
	RequiredPressures  PhasePressures    `json:"requiredPressures"`  // bar
	MaxMotorPower      float64           `json:"maxMotorPower"`      // kW
	ReliefValveSetting float64           `json:"reliefValveSetting"` // bar
	EnergyConsumption  EnergyConsumption `json:"energyConsumption"`  // kWh
}

// SimulationResult bundles a run's summary with its sample series.
type SimulationResult struct {
	Results *ResultsSummary    `json:"results"`
	Series  []SimulationSample `json:"series"`
}
