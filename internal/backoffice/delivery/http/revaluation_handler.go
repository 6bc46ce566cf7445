package http

import (
	"net/http"
	"strconv"
	"time"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/service"
	"golang-invest-backoffice/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RevaluationHandler handles HTTP requests for batch revaluation runs.
type RevaluationHandler struct {
	revaluationService service.RevaluationService
	logger             *logger.Logger
}

// NewRevaluationHandler creates a new RevaluationHandler.
func NewRevaluationHandler(revaluationService service.RevaluationService, logger *logger.Logger) *RevaluationHandler {
	return &RevaluationHandler{revaluationService: revaluationService, logger: logger}
}

// RegisterRoutes registers the revaluation routes to the Echo group.
func (h *RevaluationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/run", h.RunRevaluation)
	g.GET("", h.ListRuns)
	g.GET("/:id", h.GetRun)
}

// RunRevaluation godoc
// @Summary Run the daily revaluation now
// @Description Runs the batch revaluation synchronously and returns its result
// @Tags revaluations
// @Produce  json
// @Success 200 {object} dto.RevaluationResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /revaluations/run [post]
func (h *RevaluationHandler) RunRevaluation(c echo.Context) error {
	result, err := h.revaluationService.RunDailyRevaluation(c.Request().Context(), time.Now())
	if err != nil {
		h.logger.Error("On-demand revaluation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Revaluation failed"})
	}

	return c.JSON(http.StatusOK, result)
}

// ListRuns godoc
// @Summary List recent revaluation runs
// @Tags revaluations
// @Produce  json
// @Param   limit  query  int  false  "Maximum number of runs"
// @Success 200 {array} entity.RevaluationRun
// @Failure 500 {object} dto.ErrorResponse
// @Router /revaluations [get]
func (h *RevaluationHandler) ListRuns(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	runs, err := h.revaluationService.ListRuns(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list revaluation runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list runs"})
	}

	return c.JSON(http.StatusOK, runs)
}

// GetRun godoc
// @Summary Get a revaluation run
// @Tags revaluations
// @Produce  json
// @Param   id  path  int  true  "Run ID"
// @Success 200 {object} entity.RevaluationRun
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /revaluations/{id} [get]
func (h *RevaluationHandler) GetRun(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid run ID"})
	}

	run, err := h.revaluationService.GetRun(c.Request().Context(), uint(id))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get revaluation run", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, run)
}
