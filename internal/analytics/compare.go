// Package analytics computes side-by-side scorecards over sample series.
package analytics

import (
	"math"

	"github.com/press-analyzer/backend/internal/models"
)

// Score aggregates one series into a Scorecard. Pure; the series is not
// modified. A series with one sample or fewer yields the zero scorecard
// by convention (degenerate input is not an error).
func Score(series []models.SimulationSample) models.Scorecard {
	if len(series) <= 1 {
		return models.Scorecard{SampleCount: len(series)}
	}

	card := models.Scorecard{SampleCount: len(series)}
	for i := 1; i < len(series); i++ {
		card.TotalDisplacement += math.Abs(series[i].Position - series[i-1].Position)
		dt := series[i].Time - series[i-1].Time
		card.TotalMotorEnergy += series[i].MotorPower * dt / 3600.0
	}

	card.TotalTime = series[len(series)-1].Time - series[0].Time
	if card.TotalTime > 0 {
		card.AverageSpeed = card.TotalDisplacement / card.TotalTime
	}
	card.PressureStdDev = pressureStdDev(series)

	return card
}

// Compare scores two series for side-by-side evaluation. The lengths may
// differ; each series is scored independently.
func Compare(a, b []models.SimulationSample) models.Comparison {
	return models.Comparison{A: Score(a), B: Score(b)}
}

// pressureStdDev is the population standard deviation of the cap-side
// pressure samples.
func pressureStdDev(series []models.SimulationSample) float64 {
	mean := 0.0
	for _, s := range series {
		mean += s.PressureCap
	}
	mean /= float64(len(series))

	variance := 0.0
	for _, s := range series {
		d := s.PressureCap - mean
		variance += d * d
	}
	variance /= float64(len(series))

	return math.Sqrt(variance)
}
