// handlers_simulate.go - Duty-cycle simulation handlers
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/press-analyzer/backend/internal/export"
	"github.com/press-analyzer/backend/internal/models"
	"github.com/press-analyzer/backend/internal/parser"
)

// HandleSimulate runs one duty cycle for the posted machine parameters
// and returns the full result: sizing summary plus sample series.
func (h *Handler) HandleSimulate(c echo.Context) error {
	var params models.MachineParameters
	if err := c.Bind(&params); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	result, err := h.sim.Run(&params)
	if err != nil {
		return err
	}

	h.setLatestResult(result)
	return c.JSON(http.StatusOK, result)
}

// HandleSimulateExport runs a simulation and streams the series as a CSV
// attachment instead of JSON.
func (h *Handler) HandleSimulateExport(c echo.Context) error {
	var params models.MachineParameters
	if err := c.Bind(&params); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	result, err := h.sim.Run(&params)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("simulation_%s.csv", time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteCSV(c.Response(), result.Series)
}

// HandleImportParameters extracts machine parameters from an uploaded
// delimited file with dotted phase headers (e.g. "work.speed"). The
// parsed parameters are returned for the client to review and submit.
func (h *Handler) HandleImportParameters(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	table, err := parser.ReadTable(src)
	if err != nil {
		return NewBadRequestError("failed to read file", err)
	}

	params, err := parser.ParseParameters(table)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, params)
}
