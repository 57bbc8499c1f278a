// handlers_recon.go - Log reconstruction session handlers
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/press-analyzer/backend/internal/export"
	"github.com/press-analyzer/backend/internal/hydraulics"
	"github.com/press-analyzer/backend/internal/models"
)

const (
	defaultPageSize = 5000
	maxPageSize     = 50000
)

type startReconstructionRequest struct {
	FileID       string  `json:"fileId"`
	BoreDiameter float64 `json:"boreDiameter"` // mm
	RodDiameter  float64 `json:"rodDiameter"`  // mm
}

func (r *startReconstructionRequest) validate() error {
	if r.FileID == "" {
		return NewValidationError("fileId")
	}
	if r.BoreDiameter <= 0 {
		return NewValidationError("boreDiameter")
	}
	if r.RodDiameter <= 0 || r.RodDiameter >= r.BoreDiameter {
		return NewValidationError("rodDiameter")
	}
	return nil
}

// HandleStartReconstruction starts a background reconstruction session
// for an uploaded log file. Cylinder geometry comes from the request;
// the log itself carries no sizing information.
func (h *Handler) HandleStartReconstruction(c echo.Context) error {
	var req startReconstructionRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	filePath, err := h.store.GetFilePath(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	geom := hydraulics.NewGeometry(req.BoreDiameter, req.RodDiameter)
	sess, err := h.sessions.StartSession(req.FileID, filePath, geom)
	if err != nil {
		return NewInternalError("failed to start session", err)
	}

	return c.JSON(http.StatusAccepted, sess)
}

// HandleSessionStatus returns the current status of a reconstruction
// session and extends its lifetime.
func (h *Handler) HandleSessionStatus(c echo.Context) error {
	id := c.Param("sessionId")
	sess, ok := h.sessions.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	h.sessions.TouchSession(id)
	return c.JSON(http.StatusOK, sess)
}

// HandleSessionKeepAlive extends session lifetime for active viewing.
func (h *Handler) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessions.TouchSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDeleteSession discards a session and its spilled samples.
func (h *Handler) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessions.DeleteSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

type seriesPageResponse struct {
	Samples  []models.SimulationSample `json:"samples"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"pageSize"`
}

func pagingParams(c echo.Context) (page, pageSize int, err error) {
	page, pageSize = 0, defaultPageSize
	if raw := c.QueryParam("page"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil || n < 0 {
			return 0, 0, NewValidationError("page")
		}
		page = n
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil || n <= 0 || n > maxPageSize {
			return 0, 0, NewValidationError("pageSize")
		}
		pageSize = n
	}
	return page, pageSize, nil
}

func (h *Handler) completedSession(id string) (*models.AnalysisSession, *APIError) {
	sess, ok := h.sessions.GetSession(id)
	if !ok {
		return nil, NewNotFoundError("session", id)
	}
	if sess.Status != models.SessionStatusComplete {
		return nil, NewConflictError(fmt.Sprintf("session is %s, series not available", sess.Status))
	}
	return sess, nil
}

// HandleGetSeries returns one page of a session's reconstructed series.
func (h *Handler) HandleGetSeries(c echo.Context) error {
	id := c.Param("sessionId")
	if _, apiErr := h.completedSession(id); apiErr != nil {
		return apiErr
	}

	page, pageSize, err := pagingParams(c)
	if err != nil {
		return err
	}

	samples, total, ok := h.sessions.GetPage(c.Request().Context(), id, page, pageSize)
	if !ok {
		return NewInternalError("failed to read series", nil)
	}

	return c.JSON(http.StatusOK, seriesPageResponse{
		Samples:  samples,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// HandleGetSeriesMsgpack returns a page of samples in MessagePack
// format. Large series transfer noticeably faster than with JSON.
func (h *Handler) HandleGetSeriesMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	if _, apiErr := h.completedSession(id); apiErr != nil {
		return apiErr
	}

	page, pageSize, err := pagingParams(c)
	if err != nil {
		return err
	}

	samples, total, ok := h.sessions.GetPage(c.Request().Context(), id, page, pageSize)
	if !ok {
		return NewInternalError("failed to read series", nil)
	}

	payload, err := msgpack.Marshal(samples)
	if err != nil {
		return NewInternalError("failed to encode series", err)
	}

	c.Response().Header().Set("X-Total-Count", strconv.Itoa(total))
	return c.Blob(http.StatusOK, "application/x-msgpack", payload)
}

// HandleSessionExport streams a session's full series as CSV.
func (h *Handler) HandleSessionExport(c echo.Context) error {
	id := c.Param("sessionId")
	if _, apiErr := h.completedSession(id); apiErr != nil {
		return apiErr
	}

	series, ok := h.sessions.GetSeries(c.Request().Context(), id)
	if !ok {
		return NewInternalError("failed to read series", nil)
	}

	filename := fmt.Sprintf("session_%s.csv", id)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteCSV(c.Response(), series)
}
