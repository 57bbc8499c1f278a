// handlers_compare.go - Side-by-side series comparison
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/press-analyzer/backend/internal/analytics"
)

// HandleCompare scores two reconstruction sessions against each other.
// Both sessions must be complete.
func (h *Handler) HandleCompare(c echo.Context) error {
	idA := c.QueryParam("a")
	idB := c.QueryParam("b")
	if idA == "" {
		return NewValidationError("a")
	}
	if idB == "" {
		return NewValidationError("b")
	}

	if _, apiErr := h.completedSession(idA); apiErr != nil {
		return apiErr
	}
	if _, apiErr := h.completedSession(idB); apiErr != nil {
		return apiErr
	}

	ctx := c.Request().Context()
	seriesA, ok := h.sessions.GetSeries(ctx, idA)
	if !ok {
		return NewInternalError("failed to read series", nil)
	}
	seriesB, ok := h.sessions.GetSeries(ctx, idB)
	if !ok {
		return NewInternalError("failed to read series", nil)
	}

	return c.JSON(http.StatusOK, analytics.Compare(seriesA, seriesB))
}
