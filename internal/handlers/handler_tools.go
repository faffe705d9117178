package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vespo92/QBMCPServer/internal/apperrors"
	"github.com/vespo92/QBMCPServer/internal/core/ports"
	portssvc "github.com/vespo92/QBMCPServer/internal/core/ports/services"
	"github.com/vespo92/QBMCPServer/internal/dto"
	"github.com/vespo92/QBMCPServer/internal/middleware"
)

// toolFunc executes one named tool against a bound request.
type toolFunc func(c *gin.Context)

// toolsHandler exposes the tool registry over HTTP. Each tool is a thin
// wrapper: bind parameters, translate vocabulary and dates, call the
// provider or a workflow, map errors.
type toolsHandler struct {
	provider ports.TimeDataProvider
	services *portssvc.ServiceContainer
	tools    map[string]toolFunc
}

func newToolsHandler(provider ports.TimeDataProvider, services *portssvc.ServiceContainer) *toolsHandler {
	h := &toolsHandler{provider: provider, services: services}
	h.tools = map[string]toolFunc{
		"get_users":                     h.getUsers,
		"get_user":                      h.getUser,
		"get_current_user":              h.getCurrentUser,
		"get_groups":                    h.getGroups,
		"get_jobcodes":                  h.getJobcodes,
		"get_jobcode":                   h.getJobcode,
		"get_jobcode_hierarchy":         h.getJobcodeHierarchy,
		"get_timesheets":                h.getTimesheets,
		"get_timesheet":                 h.getTimesheet,
		"get_current_timesheets":        h.getCurrentTimesheets,
		"get_custom_fields":             h.getCustomFields,
		"get_current_totals":            h.getCurrentTotals,
		"get_payroll":                   h.getPayroll,
		"get_payroll_by_jobcode":        h.getPayrollByJobcode,
		"get_project_report":            h.getProjectReport,
		"get_last_modified":             h.getLastModified,
		"prepare_biweekly_payroll":      h.prepareBiweeklyPayroll,
		"month_end_closing":             h.monthEndClosing,
		"quarterly_tax_prep":            h.quarterlyTaxPrep,
		"prepare_client_invoice":        h.prepareClientInvoice,
		"analyze_project_profitability": h.analyzeProjectProfitability,
	}
	return h
}

// registerToolRoutes mounts the tool dispatch route.
func registerToolRoutes(rg *gin.RouterGroup, provider ports.TimeDataProvider, services *portssvc.ServiceContainer) {
	h := newToolsHandler(provider, services)
	rg.GET("/tools", h.listTools)
	rg.POST("/tools/:name", h.dispatch)
}

// listTools enumerates the registered tool names.
func (h *toolsHandler) listTools(c *gin.Context) {
	names := make([]string, 0, len(h.tools))
	for name := range h.tools {
		names = append(names, name)
	}
	c.JSON(http.StatusOK, gin.H{"tools": names})
}

func (h *toolsHandler) dispatch(c *gin.Context) {
	name := c.Param("name")
	tool, ok := h.tools[name]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Unknown tool: " + name,
		})
		return
	}
	tool(c)
}

// bindParams binds the JSON params object; an empty body binds to zero
// values so tools with all-optional parameters work without one.
func bindParams(c *gin.Context, params any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(params); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Failed to bind tool params", slog.String("tool", c.Param("name")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid parameters: " + err.Error(),
		})
		return false
	}
	return true
}

// respondError maps an error to an HTTP status with the plain-language
// message; the log line keeps the full diagnostic chain.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnparseableDate),
		errors.Is(err, apperrors.ErrAmbiguousDate),
		errors.Is(err, apperrors.ErrMissingRequiredFilter):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, apperrors.ErrServer), errors.Is(err, apperrors.ErrUpstream):
		status = http.StatusBadGateway
	case apperrors.IsCancelled(err):
		// Client went away; 499 mirrors the reverse-proxy convention.
		status = 499
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Tool failed", slog.String("tool", c.Param("name")), slog.String("error", err.Error()))
	} else {
		logger.Warn("Tool rejected", slog.String("tool", c.Param("name")), slog.Int("status", status), slog.String("error", err.Error()))
	}

	c.JSON(status, dto.ErrorResponse{Code: status, Message: apperrors.FriendlyMessage(err)})
}

// resolveDates fills start/end from a natural-language expression when
// one is given; explicit dates win over the expression.
func (h *toolsHandler) resolveDates(expression string, start, end *string) error {
	if expression == "" {
		return nil
	}
	dr, err := h.services.DateRange.ResolveNow(expression)
	if err != nil {
		return err
	}
	if *start == "" {
		*start = dr.StartDate
	}
	if *end == "" {
		*end = dr.EndDate
	}
	return nil
}
