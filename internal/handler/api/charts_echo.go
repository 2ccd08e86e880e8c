package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"Natalis/internal/domain/models"
	"Natalis/internal/services/natal"
	"Natalis/internal/usecase"
	xhttp "Natalis/pkg/http"
	xlogger "Natalis/pkg/logger"
)

// ChartsEchoHandler serves the chart API.
type ChartsEchoHandler struct {
	logger *xlogger.Logger
	charts *usecase.ChartService
}

func NewChartsEchoHandler(logger *xlogger.Logger, charts *usecase.ChartService) *ChartsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ChartsEchoHandler{logger: logger, charts: charts}
}

func (h *ChartsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/charts", h.Create)
	g.POST("/charts/analyze", h.Analyze)
	g.GET("/house-systems", h.HouseSystems)
}

// Create computes a chart from birth data.
func (h *ChartsEchoHandler) Create(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.charts.Build(h.callContext(c), *req)
	if err != nil {
		h.logger.Error("chart usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// Analyze runs the engine on posted positions.
func (h *ChartsEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.charts.Analyze(h.callContext(c), *req)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// HouseSystems lists the supported house systems.
func (h *ChartsEchoHandler) HouseSystems(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return xhttp.SuccessResponse(c, natal.HouseSystems())
}

func (h *ChartsEchoHandler) callContext(c echo.Context) context.Context {
	return usecase.WithCall(c.Request().Context(), usecase.Call{
		Source:        models.SourceHTTP,
		Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
	})
}
