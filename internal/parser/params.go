package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/press-analyzer/backend/internal/models"
)

// paramSetters maps the dotted column names of a parameter file onto
// typed field setters. The historical tool wrote into the parameter
// struct through dotted path strings at runtime; this table keeps the
// file format while making every assignment a typed operation.
var paramSetters = map[string]func(*models.MachineParameters, float64){
	"cylinderborediameter": func(m *models.MachineParameters, v float64) { m.CylinderBoreDiameter = v },
	"roddiameter":          func(m *models.MachineParameters, v float64) { m.RodDiameter = v },
	"deadloadmass":         func(m *models.MachineParameters, v float64) { m.DeadLoadMass = v },
	"holdingloadmass":      func(m *models.MachineParameters, v float64) { m.HoldingLoadMass = v },
	"motorspeed":           func(m *models.MachineParameters, v float64) { m.MotorSpeed = v },
	"pumpefficiency":       func(m *models.MachineParameters, v float64) { m.PumpEfficiency = v },
	"systemlosses":         func(m *models.MachineParameters, v float64) { m.SystemLosses = v },

	"extendfast.speed":  func(m *models.MachineParameters, v float64) { m.ExtendFast.Speed = v },
	"extendfast.stroke": func(m *models.MachineParameters, v float64) { m.ExtendFast.Stroke = v },
	"extendfast.time":   func(m *models.MachineParameters, v float64) { m.ExtendFast.Time = v },

	"work.speed":  func(m *models.MachineParameters, v float64) { m.Work.Speed = v },
	"work.stroke": func(m *models.MachineParameters, v float64) { m.Work.Stroke = v },
	"work.time":   func(m *models.MachineParameters, v float64) { m.Work.Time = v },

	"hold.speed":  func(m *models.MachineParameters, v float64) { m.Hold.Speed = v },
	"hold.stroke": func(m *models.MachineParameters, v float64) { m.Hold.Stroke = v },
	"hold.time":   func(m *models.MachineParameters, v float64) { m.Hold.Time = v },

	"retractfast.speed":  func(m *models.MachineParameters, v float64) { m.RetractFast.Speed = v },
	"retractfast.stroke": func(m *models.MachineParameters, v float64) { m.RetractFast.Stroke = v },
	"retractfast.time":   func(m *models.MachineParameters, v float64) { m.RetractFast.Time = v },
}

// ParseParameters reads a single-row parameter table: one header row of
// dotted column names followed by one data row. Unknown columns are
// ignored; columns with unparseable values are skipped and left at their
// zero value. The result is not validated here; that stays with the
// simulator entry point.
func ParseParameters(table [][]string) (*models.MachineParameters, error) {
	if len(table) < 2 {
		return nil, &models.FormatError{Reason: "parameter file needs a header row and one data row"}
	}

	header := table[0]
	data := table[1]

	params := &models.MachineParameters{}
	matched := 0
	for i, name := range header {
		if i >= len(data) {
			break
		}
		set, ok := paramSetters[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(data[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		set(params, v)
		matched++
	}

	if matched == 0 {
		return nil, &models.FormatError{Reason: "no recognized parameter columns"}
	}
	return params, nil
}
