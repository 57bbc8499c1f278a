package models

// Scorecard summarizes one sample series for side-by-side evaluation.
// A degenerate series (one sample or fewer) yields the zero Scorecard by
// convention, not an error.
type Scorecard struct {
	TotalDisplacement float64 `json:"totalDisplacement"` // mm
	TotalTime         float64 `json:"totalTime"`         // s
	AverageSpeed      float64 `json:"averageSpeed"`      // mm/s
	TotalMotorEnergy  float64 `json:"totalMotorEnergy"`  // kWh
	PressureStdDev    float64 `json:"pressureStdDev"`    // bar, population σ of cap pressure
	SampleCount       int     `json:"sampleCount"`
}

// Comparison pairs two scorecards for the comparison surface.
type Comparison struct {
	A Scorecard `json:"a"`
	B Scorecard `json:"b"`
}
